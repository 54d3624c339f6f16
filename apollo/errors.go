package apollo

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches (via errors.Is) any StatusError carrying a 404.
var ErrNotFound = errors.New("apollo: not found")

// StatusError is a non-2xx API response. Body holds a trimmed copy of
// the response payload for logs and error messages.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("apollo http %d", e.StatusCode)
	}
	return fmt.Sprintf("apollo http %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
