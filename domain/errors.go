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
	ErrCodeConcurrency  ErrorCode = "CONCURRENCY"
	ErrCodeUnavailable  ErrorCode = "UNAVAILABLE"
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

// Unavailable classifies a storage or transport failure. These are never retried in-process.
func Unavailable(message string, err error) *Error {
	return WrapError(ErrCodeUnavailable, message, err)
}

// Invalid reports a rejected argument.
func Invalid(message string) *Error {
	return NewError(ErrCodeInvalid, message)
}

// Common domain errors.
var (
	ErrArticleNotFound  = NewError(ErrCodeNotFound, "article not found")
	ErrCategoryNotFound = NewError(ErrCodeNotFound, "category not found")
	ErrIssueNotFound    = NewError(ErrCodeNotFound, "issue not found")
	ErrCommentNotFound  = NewError(ErrCodeNotFound, "comment not found")
	ErrStatusNotFound   = NewError(ErrCodeNotFound, "status not found")
	ErrUserNotFound     = NewError(ErrCodeNotFound, "user not found")
	ErrUnauthorized     = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrForbidden        = NewError(ErrCodeForbidden, "forbidden")
	ErrInvalidPayload   = NewError(ErrCodeInvalid, "invalid payload")
	ErrConcurrency      = NewError(ErrCodeConcurrency, "concurrency conflict")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
