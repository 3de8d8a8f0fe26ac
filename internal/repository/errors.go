// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver errors. For example, ErrForbidden indicates that the
// current user is not authorized to perform an operation on a resource
// owned by someone else.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as moving another host's event range.
// Handlers should translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrEventNotFound is returned when a lookup references an event id that
// does not exist. Handlers should translate this into an HTTP 404.
var ErrEventNotFound = errors.New("event not found")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state. Handlers should translate this into an HTTP 409.
var ErrConflict = errors.New("conflict")
