// Package apperr defines the error kinds shared by every service layer.
// Handlers map kinds to HTTP status codes in exactly one place.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable failure category.
type Kind int

const (
	Unknown Kind = iota
	// NotFound: the referenced game, team, user, category or question is missing.
	NotFound
	// Forbidden: the requester is not allowed to touch the resource.
	Forbidden
	// Conflict: double-use of a one-shot resource (helper already used,
	// order already settled, no game credit preconditions raced away).
	Conflict
	// InvalidState: the operation targets a resource in the wrong state,
	// e.g. an already-answered question or a team foreign to the game.
	InvalidState
	// InsufficientResource: not enough questions in a category/tier, or no
	// game credit left to spend.
	InsufficientResource
	// Unauthorized: missing or invalid credentials.
	Unauthorized
	// Invalid: malformed request payload.
	Invalid
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case Forbidden:
		return "forbidden"
	case Conflict:
		return "conflict"
	case InvalidState:
		return "invalid_state"
	case InsufficientResource:
		return "insufficient_resource"
	case Unauthorized:
		return "unauthorized"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Error carries a kind and a caller-facing message.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// E builds an *Error with a formatted message.
func E(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from err, or Unknown for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
