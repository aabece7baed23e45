package session

import "errors"

// Error kinds. Every error returned by this package wraps one of them.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrCollaborator = errors.New("browser call failed")
)

// Error is a domain error whose message is shown to callers verbatim
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Unwrap exposes the kind for errors.Is
func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

var (
	ErrInvalidID         = newError(ErrValidation, "invalid sessionId")
	ErrSessionNotFound   = newError(ErrNotFound, "session not found")
	ErrAutosaveAddTabs   = newError(ErrValidation, "cannot add tabs to autosave session")
	ErrNothingToAutosave = newError(ErrValidation, "nothing to autosave")
	ErrUnsupportedFormat = newError(ErrValidation, "unsupported export format")
)

// Kind classifies err for transports
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindInternal   Kind = "internal"
)

// KindOf returns the kind of err
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}
