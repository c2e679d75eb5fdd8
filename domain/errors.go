package domain

import (
	"errors"
	"strings"
)

// Authentication errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserInactive      = errors.New("user account is inactive")
	ErrEmailNotConfirmed = errors.New("email not confirmed")
)

// Token errors
var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenMalformed = errors.New("malformed token")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized access")
	ErrNotFound     = errors.New("resource not found")
)

// ValidationError carries the list of violated rules for an expected input failure
type ValidationError struct {
	Errors []string
}

// NewValidationError builds a ValidationError from one or more messages
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	return strings.Join(e.Errors, "; ")
}

// NotFoundError reports an absent entity with a user-facing message
type NotFoundError struct {
	Message string
}

// NewNotFoundError builds a NotFoundError
func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrNotFound) match any NotFoundError
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ErrorKind classifies errors for the HTTP boundary
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindInvalidToken
	KindUnauthorized
)

// KindOf returns the classification of err
func KindOf(err error) ErrorKind {
	var verr *ValidationError
	switch {
	case err == nil:
		return KindInternal
	case errors.As(err, &verr):
		return KindValidation
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenMalformed):
		return KindInvalidToken
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	default:
		return KindInternal
	}
}
