package api

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned for any 404 response: unknown slugs, order
// ids, or cart lines.
var ErrNotFound = errors.New("not found")

// APIError carries a non-404 error response. Fields holds per-field
// validation messages when the server returned any.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
}
