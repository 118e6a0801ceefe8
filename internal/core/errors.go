package core

import "errors"

var (
	// ErrInvalidInput marks malformed requests: bad amounts, reversed ranges, unknown fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a delete-by-id matched nothing.
	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable wraps every connection or query failure from a store.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
