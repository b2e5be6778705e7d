package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert collides with a unique
// constraint, such as a taken username or email.
var ErrDuplicate = errors.New("duplicate")
