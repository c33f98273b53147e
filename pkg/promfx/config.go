package promfx

// Config controls the metrics endpoint.
type Config struct {
	// Address is the listen address for the metrics HTTP server.
	// Leave empty to disable the endpoint; metrics are still collected.
	Address string
}

// DefaultConfig returns a disabled metrics endpoint.
func DefaultConfig() Config {
	return Config{Address: ""}
}
