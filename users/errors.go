package users

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrActorRequired  = errors.New("users: actor is required")
	ErrUserIDRequired = errors.New("users: user id required")
	ErrEmailRequired  = errors.New("users: email is required")
	ErrEmailInvalid   = errors.New("users: email is invalid")
	ErrRoleInvalid    = errors.New("users: unknown role")
	ErrPageInvalid    = errors.New("users: page must be greater than zero")

	ErrNotFound         = errors.New("users: not found")
	ErrEmailExists      = errors.New("users: email already registered")
	ErrPolicyDenied     = errors.New("users: denied")
	ErrStoreUnavailable = errors.New("users: store unavailable")
)

var validationSentinels = []error{
	ErrActorRequired,
	ErrUserIDRequired,
	ErrEmailRequired,
	ErrEmailInvalid,
	ErrRoleInvalid,
	ErrPageInvalid,
}

// NotFoundError represents a missing user record.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	if e == nil || e.Key == "" {
		return ErrNotFound.Error()
	}
	return fmt.Sprintf("user %q not found", e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// EmailExistsError captures a uniqueness conflict on the email column.
type EmailExistsError struct {
	Email      string
	ExistingID uuid.UUID
}

func (e *EmailExistsError) Error() string {
	if e == nil || strings.TrimSpace(e.Email) == "" {
		return ErrEmailExists.Error()
	}
	return fmt.Sprintf("%s: %s", ErrEmailExists.Error(), e.Email)
}

func (e *EmailExistsError) Unwrap() error {
	return ErrEmailExists
}

// DeniedError reports which policy check rejected the caller.
type DeniedError struct {
	Action Action
}

func (e *DeniedError) Error() string {
	if e == nil || e.Action == "" {
		return ErrPolicyDenied.Error()
	}
	return fmt.Sprintf("%s: %s", ErrPolicyDenied.Error(), e.Action)
}

func (e *DeniedError) Unwrap() error {
	return ErrPolicyDenied
}

// StoreError wraps infrastructure failures so callers never see raw driver errors.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	if e == nil {
		return ErrStoreUnavailable.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrStoreUnavailable.Error(), e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrStoreUnavailable.Error(), e.Op)
}

func (e *StoreError) Unwrap() error {
	return ErrStoreUnavailable
}

// IsNotFound reports whether err represents a missing user.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err represents a duplicate email.
func IsConflict(err error) bool {
	return errors.Is(err, ErrEmailExists)
}

// IsDenied reports whether err represents a policy rejection.
func IsDenied(err error) bool {
	return errors.Is(err, ErrPolicyDenied)
}

// IsValidation reports whether err represents rejected input.
func IsValidation(err error) bool {
	for _, sentinel := range validationSentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// IsStoreUnavailable reports whether err represents an infrastructure failure.
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
