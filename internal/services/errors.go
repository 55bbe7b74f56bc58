package services

import (
	"errors"
	"strings"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrUpstream      = errors.New("upstream error")
	ErrValidation    = errors.New("validation error")
	ErrStorage       = errors.New("storage error")
)

// Error is a classified failure. Marker is one of the exported sentinels above,
// Message is text safe to show a user, and Err is the underlying cause.
type Error struct {
	Marker    error
	Operation string
	Message   string
	Err       error
}

func (e *Error) Error() string {
	parts := make([]string, 0, 4)
	if e.Marker != nil {
		parts = append(parts, e.Marker.Error())
	}
	if op := strings.TrimSpace(e.Operation); op != "" {
		parts = append(parts, op)
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		parts = append(parts, msg)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

// Unwrap exposes both the marker and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Marker != nil {
		out = append(out, e.Marker)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// Wrap tags err with marker. A nil marker is treated as ErrUpstream.
func Wrap(marker error, operation, message string, err error) error {
	if marker == nil {
		marker = ErrUpstream
	}
	return &Error{Marker: marker, Operation: operation, Message: message, Err: err}
}

// Kind returns the sentinel the error was tagged with, or nil when err is
// unclassified.
func Kind(err error) error {
	for _, marker := range []error{ErrConfiguration, ErrValidation, ErrNotFound, ErrStorage, ErrUpstream} {
		if errors.Is(err, marker) {
			return marker
		}
	}
	return nil
}

// UserMessage converts err into the text shown at the edge of the system.
// Classified errors surface their own message when one was supplied.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var svcErr *Error
	if errors.As(err, &svcErr) && strings.TrimSpace(svcErr.Message) != "" {
		return strings.TrimSpace(svcErr.Message)
	}
	switch Kind(err) {
	case ErrConfiguration:
		return "Marquee is not configured. Check your configuration file."
	case ErrValidation:
		return "Invalid input."
	case ErrNotFound:
		return "Movie or TV show not found."
	case ErrStorage:
		return "Could not access saved ratings. Please try again."
	case ErrUpstream:
		return "The media catalog request failed."
	default:
		return "An unknown error occurred."
	}
}

// KindName is a stable identifier for the error's classification, used in
// API payloads. Unclassified errors report "internal".
func KindName(err error) string {
	switch Kind(err) {
	case ErrConfiguration:
		return "configuration"
	case ErrValidation:
		return "validation"
	case ErrNotFound:
		return "not_found"
	case ErrStorage:
		return "storage"
	case ErrUpstream:
		return "upstream"
	default:
		return "internal"
	}
}
