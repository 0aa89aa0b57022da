package models

import (
	"errors"
	"strings"
)

// Error kinds. Every error that reaches the HTTP layer either wraps one of
// these or is treated as an internal failure.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// Error pairs an error kind with the message shown to the caller.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// NewError builds an *Error of the given kind.
func NewError(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// FieldError mirrors one entry of the {errors: [...]} response body.
type FieldError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param"`
	Location string `json:"location"`
}

// ValidationErrors collects every failed field check of a request.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Param+": "+fe.Msg)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (v ValidationErrors) Unwrap() error { return ErrValidation }

// Add appends a body field error.
func (v *ValidationErrors) Add(param, msg string) {
	*v = append(*v, FieldError{Msg: msg, Param: param, Location: "body"})
}

// Err returns nil when no check failed.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// InvalidID reports a path id that is not a valid document id.
func InvalidID(param string) error {
	return ValidationErrors{{Msg: "Invalid id", Param: param, Location: "params"}}
}
