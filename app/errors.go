// Package app contains the submission services behind the form endpoints.
package app

import (
	"errors"
	"fmt"

	"github.com/marvilon/leadgate/domain/form"
)

// Sentinel errors shared by the submission services.
var (
	// ErrRateLimited means the client spent its submission budget.
	ErrRateLimited = errors.New("too many submissions")

	// ErrCaptchaMissing means the body carried no verification token.
	ErrCaptchaMissing = errors.New("captcha token missing")

	// ErrCaptchaRejected covers every verification failure: sub-threshold
	// score, unsuccessful check, or an unreachable verification service.
	// Callers surface it generically so automated senders learn nothing
	// about the detection heuristics.
	ErrCaptchaRejected = errors.New("captcha verification failed")
)

// ValidationError reports one or more rejected fields.
// It is recoverable: the client keeps its entered values and retries.
type ValidationError struct {
	Fields  map[form.Field]string
	Message string
}

// Error returns the user-facing summary.
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with a summary message.
func NewValidationError(message string, fields map[form.Field]string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// DispatchError wraps a failed notification email dispatch.
type DispatchError struct {
	Err error
}

// Error describes the dispatch failure.
func (e *DispatchError) Error() string {
	return fmt.Sprintf("email dispatch failed: %v", e.Err)
}

// Unwrap exposes the underlying send error.
func (e *DispatchError) Unwrap() error {
	return e.Err
}
