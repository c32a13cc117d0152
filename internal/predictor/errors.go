package predictor

import (
	"fmt"
	"strings"
)

// TransportError wraps failures below HTTP: DNS, refused connections,
// resets, cancelled or expired contexts.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a non-2xx answer from the prediction service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		body = "Unknown error"
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, body)
}

// DataError means the service answered 2xx but the payload did not carry a
// usable forecast.
type DataError struct {
	Reason string
}

func (e *DataError) Error() string { return "invalid prediction response: " + e.Reason }
