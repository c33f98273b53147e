package repostate

import "errors"

var (
	ErrNotRepository       = errors.New("path is not a git repository")
	ErrAlreadyStarted      = errors.New("manager already started")
	ErrNotInitialized      = errors.New("manager not initialized")
	ErrNotStarted          = errors.New("manager not started")
	ErrStopped             = errors.New("manager stopped")
	ErrDuplicateStatusPath = errors.New("duplicate path in status")

	// ErrLockingUnsupported is returned by Runner.Locks when the tool has
	// no lock support installed; the coordinator treats it as an empty
	// listing rather than a query failure.
	ErrLockingUnsupported = errors.New("path locking unsupported")
)
