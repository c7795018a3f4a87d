package providers

import (
	"errors"
	"fmt"
)

// Sentinel errors used with errors.Is to classify provider failures.
var (
	ErrMissingAPIKey      = errors.New("missing api key")
	ErrEmptyPrompt        = errors.New("prompt is empty")
	ErrInvalidCredentials = errors.New("invalid provider credentials")
	ErrQuotaExceeded      = errors.New("provider quota exceeded")
	ErrRateLimited        = errors.New("provider rate limit exceeded")
	ErrTimeout            = errors.New("provider request timed out")
	ErrOverloaded         = errors.New("provider is overloaded")
)

// ErrorKind classifies a provider failure.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInvalidCredentials
	KindQuotaExceeded
	KindRateLimited
	KindTimeout
	KindOverloaded
)

// Error is a classified failure from one provider adapter.
type Error struct {
	Provider string
	Kind     ErrorKind
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	}
	return e.Provider + ": provider error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is maps error kinds onto the package sentinels so callers can use errors.Is
// without knowing which adapter produced the failure.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidCredentials:
		return e.Kind == KindInvalidCredentials
	case ErrQuotaExceeded:
		return e.Kind == KindQuotaExceeded
	case ErrRateLimited:
		return e.Kind == KindRateLimited
	case ErrTimeout:
		return e.Kind == KindTimeout
	case ErrOverloaded:
		return e.Kind == KindOverloaded
	}
	return false
}

func newError(provider string, kind ErrorKind, message string, err error) *Error {
	return &Error{Provider: provider, Kind: kind, Message: message, Err: err}
}
