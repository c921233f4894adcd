package store

import "errors"

// ErrNotFound indicates the requested entity does not exist in the store.
var ErrNotFound = errors.New("not found")
