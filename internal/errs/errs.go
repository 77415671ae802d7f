// internal/errs/errs.go
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can decide how to present it.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindDuplicate        Kind = "duplicate"
	KindCapacityExceeded Kind = "capacity_exceeded"
	KindUnavailable      Kind = "unavailable"
	KindNotFound         Kind = "not_found"
	KindConflict         Kind = "conflict"
)

type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(field, message string) error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

func Duplicate(message string) error {
	return &Error{Kind: KindDuplicate, Message: message}
}

func CapacityExceeded(message string) error {
	return &Error{Kind: KindCapacityExceeded, Message: message}
}

func Unavailable(message string, err error) error {
	return &Error{Kind: KindUnavailable, Message: message, Err: err}
}

func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// FieldOf returns the offending field of a validation error, if any.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}
