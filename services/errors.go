package services

import (
	"errors"
	"fmt"
)

// Sentinel kinds for service layer failures. Handlers test these with
// errors.Is and map them onto HTTP statuses; anything else is treated
// as an internal storage failure.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrInvalidOperation = errors.New("invalid operation")
)

// Error carries a kind plus a human readable reason that is safe to
// return to the caller verbatim.
type Error struct {
	kind    error
	message string
}

func (e *Error) Error() string { return e.message }

func (e *Error) Unwrap() error { return e.kind }

func notFoundf(format string, args ...interface{}) error {
	return &Error{kind: ErrNotFound, message: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...interface{}) error {
	return &Error{kind: ErrConflict, message: fmt.Sprintf(format, args...)}
}

func invalidArgf(format string, args ...interface{}) error {
	return &Error{kind: ErrInvalidArgument, message: fmt.Sprintf(format, args...)}
}

func invalidOpf(format string, args ...interface{}) error {
	return &Error{kind: ErrInvalidOperation, message: fmt.Sprintf(format, args...)}
}
