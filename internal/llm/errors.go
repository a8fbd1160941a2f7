package llm

import (
	"errors"
	"fmt"
)

// ErrNoContent is returned when the remote call succeeds at the transport
// level but the response carries no usable text payload. It is never
// retried.
var ErrNoContent = errors.New("no content returned")

// APIError is the tagged failure produced at the provider boundary. Every
// provider maps its SDK-specific error into this type so that retry
// eligibility and the user-facing taxonomy classify on Status and Message
// in exactly one place.
type APIError struct {
	Status  int    // HTTP status code, 0 when unknown
	Message string // Provider-reported message
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error: %s", e.Message)
}

// StatusOf extracts the HTTP status from an error chain, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf extracts the provider-reported message from an error chain,
// falling back to the plain error text.
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
