package api

import (
	"errors"
	"fmt"
)

// Error is a non-2xx response from the backend
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API error %d: %s %s", e.StatusCode, e.Method, e.Path)
	}
	return fmt.Sprintf("API error %d: %s %s: %s", e.StatusCode, e.Method, e.Path, e.Body)
}

// StatusCode returns the HTTP status of an *Error anywhere in err's chain, or 0
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
