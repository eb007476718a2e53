package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrLocaleRequired    = errors.New("content: locale is required")
	ErrSlugRequired      = errors.New("content: slug is required")
	ErrSlugInvalid       = errors.New("content: slug contains invalid characters")
	ErrAuthorRequired    = errors.New("content: author id required")
	ErrContentIDRequired = errors.New("content: content id required")
	ErrTitleRequired     = errors.New("content: title is required")
	ErrPageInvalid       = errors.New("content: page must be greater than zero")
	ErrPageSizeInvalid   = errors.New("content: page size must be greater than zero")

	ErrNotFound          = errors.New("content: not found")
	ErrTranslationExists = errors.New("content: translation already exists")
	ErrStoreUnavailable  = errors.New("content: store unavailable")
)

// validationSentinels enumerates the errors classified as ValidationFailed.
var validationSentinels = []error{
	ErrLocaleRequired,
	ErrSlugRequired,
	ErrSlugInvalid,
	ErrAuthorRequired,
	ErrContentIDRequired,
	ErrTitleRequired,
	ErrPageInvalid,
	ErrPageSizeInvalid,
}

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ErrNotFound.Error()
	}
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// TranslationExistsError captures duplicate (content, locale) conflicts.
type TranslationExistsError struct {
	ContentID  uuid.UUID
	Locale     string
	ExistingID uuid.UUID
}

func (e *TranslationExistsError) Error() string {
	if e == nil {
		return ErrTranslationExists.Error()
	}
	locale := strings.TrimSpace(e.Locale)
	if locale != "" {
		return fmt.Sprintf("%s: locale=%s", ErrTranslationExists.Error(), locale)
	}
	return ErrTranslationExists.Error()
}

func (e *TranslationExistsError) Unwrap() error {
	return ErrTranslationExists
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

// IsNotFound reports whether err represents a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err represents a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrTranslationExists)
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
