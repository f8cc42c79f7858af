package analysis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
)

// StatusError is returned for any non-2xx response of the analysis service.
type StatusError struct {
	Code   int
	Status string
	// Body holds the beginning of the response body for diagnostics.
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("bad status: %s", e.Status)
	}
	return fmt.Sprintf("bad status: %s: %s", e.Status, e.Body)
}

// Temporary reports whether the same request may succeed later.
func (e *StatusError) Temporary() bool {
	return e.Code >= http.StatusInternalServerError || e.Code == http.StatusTooManyRequests
}

// IsTransient reports whether err is a transport-level failure worth retrying:
// network errors, timeouts, HTTP 5xx and HTTP 429. Cancellation, client errors
// and undecodable payloads are not transient.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
