package stripekit

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTimeout is returned when the per-call deadline elapses before the
	// complete send, receive, and decode cycle finishes.
	ErrTimeout = errors.New("stripekit: request deadline exceeded")

	// ErrCancelled is returned when the caller's context is cancelled while a
	// request is in flight. Partial response bodies are never decoded.
	ErrCancelled = errors.New("stripekit: request cancelled")

	ErrEventExists = errors.New("stripekit: event exists")
)

// Error is an error decoded from the body Stripe returns on 4xx and 5xx
// responses. The nested Err struct carries Stripe's error object as-is.
type Error struct {
	Status string `json:"-"`

	// StatusCode is the HTTP status code of the response the error came from.
	StatusCode int `json:"-"`

	// RetryAfter is the value of the Retry-After header on rate limited
	// responses, zero when the header was absent.
	RetryAfter time.Duration `json:"-"`

	Err struct {
		Type          string `json:"type"`
		Code          string `json:"code"`
		Param         string `json:"param"`
		Message       string `json:"message"`
		DocURL        string `json:"doc_url"`
		DeclineCode   string `json:"decline_code"`
		Charge        string `json:"charge"`
		PaymentIntent string `json:"payment_intent"`
	} `json:"error"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("stripekit: stripe api error %s: %s", e.Status, e.Err.Message)
}

// Unauthorized reports whether the error came from a 401 response, which
// usually means the configured secret key is wrong or revoked.
func (e *Error) Unauthorized() bool { return e.StatusCode == 401 }

// RateLimited reports whether the error came from a 429 response. Rate
// limited idempotent requests are retried automatically by the client.
func (e *Error) RateLimited() bool { return e.StatusCode == 429 }

// TransportError is returned when a request failed before a Stripe error body
// could be decoded: connection failures, abrupt closes, or an HTTP error
// response whose body was not the JSON error envelope. Snippet holds the
// start of the offending body, if any.
type TransportError struct {
	StatusCode int
	Snippet    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return "stripekit: transport error: " + e.Err.Error()
	}
	return fmt.Sprintf("stripekit: unexpected response %d: %s", e.StatusCode, e.Snippet)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is returned when a response body disagrees with what the client
// expects of it, either a required field that was absent once the enclosing
// object ended, or a field holding a value of the wrong JSON type. These are
// never retried, the caller should surface them as a bug.
type DecodeError struct {
	Field   string
	Missing bool
	Want    string
}

func (e *DecodeError) Error() string {
	if e.Missing {
		return "stripekit: missing field " + e.Field
	}
	return fmt.Sprintf("stripekit: field %s: expected %s", e.Field, e.Want)
}

func errMissing(field string) error { return &DecodeError{Field: field, Missing: true} }

func errType(field, want string) error { return &DecodeError{Field: field, Want: want} }

// ParamError is returned when request parameters fail validation before any
// network traffic happens, for example an input enum holding a value Stripe
// would not accept.
type ParamError struct {
	Param string
	Msg   string
}

func (e *ParamError) Error() string {
	return "stripekit: invalid parameter " + e.Param + ": " + e.Msg
}
