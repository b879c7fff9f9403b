package usecase

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrFetchFailed marks any failure to obtain a payload from the upstream source.
	ErrFetchFailed = errors.New("upstream fetch failed")
	ErrNoSource    = errors.New("no source configured")
)
