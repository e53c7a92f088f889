package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned by write operations called without a session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotFound is returned when a referenced user or record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrTooManyRequests is returned when the assistant rate limit is exhausted.
	ErrTooManyRequests = errors.New("too many requests, try again in a moment")
	// ErrMissingAPIKey is returned when the model provider has no credential configured.
	ErrMissingAPIKey = errors.New("model provider API key is not defined")
	// ErrInvalidConversation is returned when a conversation does not end in a user turn.
	ErrInvalidConversation = errors.New("conversation must end with a user message")
)

// ProviderFailureMessage is the user-facing text of a ProviderError.
const ProviderFailureMessage = "I had trouble thinking. Please try again."

// ThrottledError marks a provider failure that may succeed when retried (HTTP 429).
type ThrottledError struct {
	Cause error
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("model provider throttled the request: %v", e.Cause)
}

func (e *ThrottledError) Unwrap() error { return e.Cause }

// ProviderError is a model call failure surfaced to the user with a generic message.
type ProviderError struct {
	Cause error
}

func (e *ProviderError) Error() string { return ProviderFailureMessage }

func (e *ProviderError) Unwrap() error { return e.Cause }

// ValidationError is a form-level error rendered inline to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationError(msg string) error {
	return &ValidationError{Message: msg}
}
