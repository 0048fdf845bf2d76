package models

import "errors"

var (
	// ErrInvalidArgument marks malformed input rejected before touching the store.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound marks a referenced user, word or plan that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStoreFailure marks a failed read or write against the durable store.
	// Callers may retry the operation.
	ErrStoreFailure = errors.New("store failure")
)
