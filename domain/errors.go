package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrEventNotFound   = NewError(ErrCodeNotFound, "event not found")
	ErrRequestNotFound = NewError(ErrCodeNotFound, "change request not found")
	ErrUserNotFound    = NewError(ErrCodeNotFound, "user not found")
	ErrRsvpNotFound    = NewError(ErrCodeNotFound, "rsvp not found")
	ErrImageNotFound   = NewError(ErrCodeNotFound, "image not found")

	// ErrRequestNotPending guards the moderation state machine: APPROVED and
	// REJECTED are terminal, so only a PENDING request may transition.
	ErrRequestNotPending = NewError(ErrCodeConflict, "change request already moderated")

	ErrNotOwner       = NewError(ErrCodeForbidden, "actor is not the owner")
	ErrNotAuthor      = NewError(ErrCodeForbidden, "actor is not the request author")
	ErrUnauthorized   = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrInvalidPayload = NewError(ErrCodeInvalid, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
