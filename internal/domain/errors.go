package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by all services. Handlers map these to HTTP status
// codes; services never return raw storage errors for expected conditions.
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrInvalidInput  = errors.New("invalid input")
	ErrBusinessRule  = errors.New("business rule violation")
)

// NotFoundf wraps ErrNotFound with a human-readable message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Conflictf wraps ErrConflict with a human-readable message.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrConflict)...)
}

// InvalidInputf wraps ErrInvalidInput with a human-readable message.
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidInput)...)
}

// BusinessRulef wraps ErrBusinessRule with a human-readable message.
func BusinessRulef(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrBusinessRule)...)
}
