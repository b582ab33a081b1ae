// Package apperr defines the error kinds returned by the publishing core.
//
// Every error that leaves a service carries a stable Kind and a message that
// is safe to show to callers. Persistence and storage failures keep the
// underlying cause (with a captured stack) for logging only.
package apperr

import (
	"errors"
	"fmt"

	"github.com/mdobak/go-xerrors"
)

// Kind classifies an error for callers and for the HTTP layer.
type Kind string

const (
	KindValidation      Kind = "validation_error"
	KindDuplicateSlug   Kind = "duplicate_slug"
	KindNotFound        Kind = "not_found"
	KindForbidden       Kind = "forbidden"
	KindUnauthenticated Kind = "unauthenticated"
	KindStorage         Kind = "storage_error"
	KindPersistence     Kind = "persistence_error"
)

// Error is the typed error returned by the core
type Error struct {
	Kind    Kind
	Message string
	Details map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

// ValidationFields creates a validation error with per-field details
func ValidationFields(message string, details map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func DuplicateSlug(slug string) *Error {
	return &Error{
		Kind:    KindDuplicateSlug,
		Message: "an article with this slug already exists",
		Details: map[string]string{"slug": slug},
	}
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, message)
}

// Persistence wraps a database failure. The cause is kept with a stack trace
// but never exposed through Message.
func Persistence(op string, err error) *Error {
	return &Error{
		Kind:    KindPersistence,
		Message: "database operation failed",
		Err:     xerrors.Newf("%s: %w", op, err),
	}
}

// Storage wraps a file storage failure
func Storage(op string, err error) *Error {
	return &Error{
		Kind:    KindStorage,
		Message: "file storage operation failed",
		Err:     xerrors.Newf("%s: %w", op, err),
	}
}

// KindOf returns the kind of err, or KindPersistence for untyped errors
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindPersistence
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

// Wrap returns err unchanged when it is already typed, otherwise it is
// classified as a persistence failure for op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return Persistence(op, err)
}
