package watcher

import "errors"

var (
	ErrAlreadyStarted = errors.New("watcher already started")
	ErrNotStarted     = errors.New("watcher not started")
	ErrWatchFailed    = errors.New("failed to watch control directory")
)
