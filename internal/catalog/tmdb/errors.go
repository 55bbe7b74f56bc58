package tmdb

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches StatusError values carrying HTTP 404.
var ErrNotFound = errors.New("tmdb: resource not found")

// StatusError reports a non-200 response from TMDB.
type StatusError struct {
	Endpoint      string
	StatusCode    int
	StatusMessage string
}

func (e *StatusError) Error() string {
	if e.StatusMessage != "" {
		return fmt.Sprintf("tmdb %s returned %d: %s", e.Endpoint, e.StatusCode, e.StatusMessage)
	}
	return fmt.Sprintf("tmdb %s returned %d", e.Endpoint, e.StatusCode)
}

// Is lets errors.Is(err, ErrNotFound) classify 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
