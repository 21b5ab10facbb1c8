// Package apperr holds the error taxonomy shared by the services and the HTTP boundary.
package apperr

import (
	"errors"
	"fmt"
)

// Kind sentinels. Typed errors below report a match for their kind through errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrEmailDuplication = errors.New("email already in use")
	ErrValidation       = errors.New("validation failed")

	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type NotFoundError struct {
	Entity string
	ID     int64
}

func NotFound(entity string, id int64) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

type EmailDuplicationError struct {
	Email string
}

func EmailDuplication(email string) *EmailDuplicationError {
	return &EmailDuplicationError{Email: email}
}

func (e *EmailDuplicationError) Error() string {
	return "email already in use: " + e.Email
}

func (e *EmailDuplicationError) Is(target error) bool {
	return target == ErrEmailDuplication
}

type ValidationError struct {
	Field  string
	Reason string
}

func Validation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
