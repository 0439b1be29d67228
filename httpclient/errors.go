package httpclient

import (
	"errors"
	"fmt"
)

// ErrBaseURLRequired is returned by NewClient when Config.BaseURL is empty.
var ErrBaseURLRequired = errors.New("http client base url is required")

// StatusError is returned when the upstream responded with a non-2xx status.
// The response body is preserved so callers can decode the upstream's error
// envelope; transport-level failures are returned as ordinary wrapped errors
// instead.
type StatusError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Body is the raw response body, capped at maxErrorBodySize bytes.
	Body []byte
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// AsStatusError unwraps err into a *StatusError, if it carries one.
func AsStatusError(err error) (*StatusError, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}
