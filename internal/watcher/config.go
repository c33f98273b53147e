package watcher

// Config locates the control directory to watch.
type Config struct {
	// Dir is the absolute path to the repository control directory
	// (the .git directory).
	Dir string
}
