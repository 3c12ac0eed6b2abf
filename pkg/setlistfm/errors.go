package setlistfm

import (
	"errors"
	"fmt"
)

// Kind classifies a setlist.fm failure.
type Kind int

const (
	KindInvalidInput      Kind = iota + 1 // Bad URL or missing API key
	KindAuth                              // API key rejected
	KindNetwork                           // Transport failure or unexpected status
	KindNotFound                          // No setlist with that id
	KindMalformedResponse                 // Body does not have the setlist structure
)

// String returns a human-readable representation of the Kind
func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindAuth:
		return "authentication error"
	case KindNetwork:
		return "network error"
	case KindNotFound:
		return "not found"
	case KindMalformedResponse:
		return "malformed response"
	default:
		return "unknown"
	}
}

// Error represents a failed setlist.fm operation.
//
// URL holds the offending input (the setlist.fm page or API URL) so that
// messages shown to users are diagnosable on their own.
type Error struct {
	Kind       Kind   // Failure category
	StatusCode int    // HTTP status, 0 when no response was received
	Message    string // Human-readable description
	URL        string // Offending URL
	Err        error  // Underlying cause, if any
}

// Error returns the error message.
func (e *Error) Error() string {
	msg := fmt.Sprintf("setlistfm: %s: %s", e.Kind, e.Message)
	if e.URL != "" {
		msg += fmt.Sprintf(" (%s)", e.URL)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
//
// This allows errors.Is(err, setlistfm.ErrAuth) to match any
// authentication failure regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Predefined errors, one per Kind, for use with errors.Is.
var (
	ErrInvalidInput      = &Error{Kind: KindInvalidInput, Message: "invalid input"}
	ErrAuth              = &Error{Kind: KindAuth, Message: "authentication failed"}
	ErrNetwork           = &Error{Kind: KindNetwork, Message: "request failed"}
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "setlist not found"}
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse, Message: "unexpected response structure"}

	// ErrMissingAPIKey is returned by NewClient when no API key is configured.
	ErrMissingAPIKey = &Error{Kind: KindInvalidInput, Message: "API key is required"}
)

// KindOf returns the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
