package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuery signals a search request without usable terms.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidPayload signals input that is not well-formed JSON.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrMissingQuery signals a tracking event without a query.
	ErrMissingQuery = errors.New("missing query")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")

	// ErrProviderNotConfigured signals a missing breach API key.
	ErrProviderNotConfigured = errors.New("provider not configured")
	// ErrProviderTimeout signals that the breach API did not answer in time.
	ErrProviderTimeout = errors.New("provider timeout")
	// ErrProviderError signals a breach API failure.
	ErrProviderError = errors.New("provider error")
	// ErrProviderQuotaExceeded signals an exhausted upstream search budget.
	ErrProviderQuotaExceeded = errors.New("provider quota exceeded")

	// ErrHandoffNotFound signals an unknown or expired result handoff.
	ErrHandoffNotFound = errors.New("results not found")
	// ErrProfileNotFound signals a missing credit profile.
	ErrProfileNotFound = errors.New("user profile not found")
	// ErrNoSearchesRemaining signals an exhausted credit balance.
	ErrNoSearchesRemaining = errors.New("no searches remaining")
	// ErrInvalidAmount signals a non-positive credit amount.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNotImplemented signals a feature that is switched off in this deployment.
	ErrNotImplemented = errors.New("not implemented")
)

// UpstreamError carries a non-2xx answer of the breach API.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream status %d", ErrProviderError.Error(), e.Status)
}

func (e *UpstreamError) Unwrap() error { return ErrProviderError }

// Message returns the upstream body, or a generic text when the body is empty.
func (e *UpstreamError) Message() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("Upstream error (%d).", e.Status)
}

// NewUpstreamError creates an upstream error.
func NewUpstreamError(status int, body string) error {
	return &UpstreamError{Status: status, Body: body}
}
