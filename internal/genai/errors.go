package genai

import (
	"context"
	"errors"
	"fmt"

	"github.com/toldwithlove/toldwithlove/internal/genai/driver"
)

// ErrorKind distinguishes generation failure classes. The single-attempt
// contract is deliberate; kinds exist so a bounded-retry policy can later
// target transient failures without touching callers.
type ErrorKind string

const (
	// ErrKindCredential means the provider rejected our API key.
	ErrKindCredential ErrorKind = "credential"
	// ErrKindTransport covers network failures and timeouts.
	ErrKindTransport ErrorKind = "transport"
	// ErrKindProvider covers service-side failures (5xx, rate limits,
	// malformed responses).
	ErrKindProvider ErrorKind = "provider"
	// ErrKindEmpty means the provider returned no usable content.
	ErrKindEmpty ErrorKind = "empty_completion"
)

// GenerationError wraps a failed generation attempt. Callers must treat it
// as "no content produced".
type GenerationError struct {
	Kind ErrorKind
	Err  error
}

func (e *GenerationError) Error() string {
	if e == nil {
		return "generation failed"
	}
	if e.Err == nil {
		return fmt.Sprintf("generation failed (%s)", e.Kind)
	}
	return fmt.Sprintf("generation failed (%s): %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Transient reports whether a retry could plausibly succeed.
func (e *GenerationError) Transient() bool {
	return e != nil && (e.Kind == ErrKindTransport || e.Kind == ErrKindProvider)
}

func classify(err error) *GenerationError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &GenerationError{Kind: ErrKindTransport, Err: err}
	}

	var perr *driver.ProviderError
	if errors.As(err, &perr) && perr != nil {
		if perr.AuthFailure() {
			return &GenerationError{Kind: ErrKindCredential, Err: err}
		}
		return &GenerationError{Kind: ErrKindProvider, Err: err}
	}

	return &GenerationError{Kind: ErrKindTransport, Err: err}
}
