package imdb

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the remote catalog does not know the requested title.
var ErrNotFound = errors.New("title not found")

// APIError represents an upstream catalog failure: a non-2xx response other
// than the explicit not-found case.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("imdb API error: status %d: %s", e.StatusCode, e.Body)
}
