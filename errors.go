package localink

import (
	"errors"
	"fmt"
)

// ErrConflict is returned by a ContentStore when an insert loses the race on
// the (content type, group key, locale) uniqueness constraint. The
// orchestrator treats it as a skip, not a failure.
var ErrConflict = errors.New("localink: row already exists for group and locale")

// ErrNoContentType indicates an unknown content type name.
var ErrNoContentType = errors.New("localink: unknown content type")

// ProviderError indicates a translation provider failure.
type ProviderError struct {
	Provider  string
	Message   string
	Cause     error
	Retryable bool
	// RateLimited selects the longer, growing backoff in the retry policy.
	RateLimited bool
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("provider %s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// StoreError indicates a content store operation failure.
type StoreError struct {
	Op      string
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("store %s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("store %s: %s", e.Op, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// TranslationFailedError records that a (item, locale) pair fell back to the
// original text because every provider failed.
type TranslationFailedError struct {
	Field  string
	Locale string
	Cause  error
}

func (e *TranslationFailedError) Error() string {
	return fmt.Sprintf("translation failed for field %q into %s: %v", e.Field, e.Locale, e.Cause)
}

func (e *TranslationFailedError) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether the retry controller may attempt err again.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}

// IsRateLimited reports whether err is a rate-limit rejection, which selects
// the longer growing backoff instead of the short fixed one.
func IsRateLimited(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.RateLimited
	}
	return false
}
