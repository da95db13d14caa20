package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("pair not found")
	ErrBadTransition = errors.New("illegal status transition")
)
