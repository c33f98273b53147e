package gitcli

import "time"

// Config controls how the version-control tool is invoked.
type Config struct {
	// Binary is the git executable to run. Defaults to "git" resolved
	// through PATH.
	Binary string

	// Timeout bounds a single tool invocation. Defaults to 30 seconds
	// if zero.
	Timeout time.Duration
}

// DefaultConfig returns the default tool invocation settings.
func DefaultConfig() Config {
	return Config{
		Binary:  "git",
		Timeout: 30 * time.Second,
	}
}
