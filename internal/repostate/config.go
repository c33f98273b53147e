package repostate

import "time"

// Config controls the repository manager.
type Config struct {
	// Dir is the absolute path to the repository root.
	Dir string

	// Debounce is the quiet window applied to watcher event bursts
	// before a coalesced refresh starts. Defaults to 200ms if zero.
	Debounce time.Duration

	// LockMatch selects how lock paths match status entry paths.
	LockMatch MatchMode

	// LocksEnabled issues the lock-listing query during refreshes. When
	// the tool reports locking as unsupported the listing is treated as
	// empty rather than failing the refresh.
	LocksEnabled bool
}

// DefaultConfig returns manager defaults.
func DefaultConfig() Config {
	return Config{
		Debounce:     200 * time.Millisecond,
		LockMatch:    MatchExact,
		LocksEnabled: true,
	}
}
