package gitcli

import "errors"

var (
	ErrToolNotFound    = errors.New("git executable not found")
	ErrQueryFailed     = errors.New("git query failed")
	ErrMalformedOutput = errors.New("malformed git output")
)
