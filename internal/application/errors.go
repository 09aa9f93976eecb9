package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrConflict           = errors.New("conflict")
	ErrUnavailable        = errors.New("service unavailable")
)

var (
	ErrProductNotFound  = fmt.Errorf("product not found: %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user not found: %w", ErrNotFound)
	ErrCartItemNotFound = fmt.Errorf("cart item not found: %w", ErrNotFound)
	ErrEmailTaken       = fmt.Errorf("email already registered: %w", ErrConflict)
	ErrUnknownEmail     = fmt.Errorf("user with this email does not exist: %w", ErrInvalidArgument)
	ErrInvalidResetLink = fmt.Errorf("invalid or expired token: %w", ErrInvalidArgument)
	ErrNoCheckoutItems  = fmt.Errorf("no items provided: %w", ErrInvalidArgument)
	ErrStorageDisabled  = fmt.Errorf("image storage not configured: %w", ErrUnavailable)
	ErrPaymentsDisabled = fmt.Errorf("payments not configured: %w", ErrUnavailable)
)

// ValidationError reports per-field input problems
type ValidationError struct {
	Msg     string
	Details map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Msg
	}
	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Details[k])
	}
	return e.Msg + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidArgument }

func invalid(msg string, details map[string]string) error {
	return &ValidationError{Msg: msg, Details: details}
}
