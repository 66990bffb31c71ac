package fakes3

import "errors"

// Error kinds returned by store operations. The wire layer is expected to
// translate these into protocol-level responses (e.g. NotFound -> 404) using
// errors.Is; anything that does not match one of these sentinels is an
// internal failure.
var (
	// ErrNotFound indicates that no item exists for the requested
	// (bucket, key) pair.
	ErrNotFound = errors.New("object not found")

	// ErrBadRequest indicates a malformed upload, such as a multipart
	// form without a non-empty "file" field.
	ErrBadRequest = errors.New("bad request")

	// ErrNotSupported indicates an operation that this store does not
	// implement, such as multipart upload assembly.
	ErrNotSupported = errors.New("operation not supported")
)
