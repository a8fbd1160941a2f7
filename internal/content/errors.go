package content

import (
	"strings"

	"github.com/studygen/studygen/internal/llm"
)

// ErrorKind is the user-facing classification of a failed generation.
type ErrorKind int

const (
	ErrInvalidCredential ErrorKind = iota
	ErrRateLimited
	ErrQuotaExceeded
	ErrGeneric
)

// userMessages are the only failure texts shown to callers; the raw
// provider error travels along as Cause for logs.
var userMessages = map[ErrorKind]string{
	ErrInvalidCredential: "Invalid API key; check configuration.",
	ErrRateLimited:       "Rate limit reached; try again later.",
	ErrQuotaExceeded:     "Quota exceeded; check billing or upgrade.",
	ErrGeneric:           "Failed to generate content; please retry.",
}

// Error is the single classified failure a Generate call can return.
type Error struct {
	Kind  ErrorKind
	Cause error
}

func (e *Error) Error() string {
	return userMessages[e.Kind]
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Classify maps an underlying failure into the four-kind taxonomy. It runs
// once, after retries are exhausted or a non-retryable failure occurred.
// First match wins: credential problems outrank rate limiting, which
// outranks quota, and everything else is generic.
func Classify(err error) *Error {
	msg := strings.ToLower(llm.MessageOf(err))

	switch {
	case strings.Contains(msg, "api key"):
		return &Error{Kind: ErrInvalidCredential, Cause: err}
	case llm.StatusOf(err) == 429:
		return &Error{Kind: ErrRateLimited, Cause: err}
	case strings.Contains(msg, "quota"):
		return &Error{Kind: ErrQuotaExceeded, Cause: err}
	default:
		return &Error{Kind: ErrGeneric, Cause: err}
	}
}
