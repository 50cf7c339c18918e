// Package common defines shared constants and sentinel errors used across
// the client layers of blogsync. Callers should use errors.Is / errors.As to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Transport-level errors.
	ErrNetwork = errors.New("network error")
	ErrServer  = errors.New("server error")
	ErrClient  = errors.New("client error")
	ErrDecode  = errors.New("decode error")

	// Session errors.
	ErrAuthRequired = errors.New("authentication required")

	// Mutation guard errors, raised before any network call.
	ErrDuplicateComment = errors.New("you have already commented on this post")
	ErrNoRecipients     = errors.New("no recipients selected")

	// Cache errors.
	ErrNotCached              = errors.New("resource not cached")
	ErrStaleResponseDiscarded = errors.New("stale response discarded")

	// Validation errors.
	ErrValidation = errors.New("validation error")
)

// StatusError is a non-2xx response from the remote API.
// It matches ErrServer for 5xx statuses and ErrClient for 4xx statuses.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http status %d", e.Status)
	}
	return fmt.Sprintf("http status %d: %s", e.Status, e.Message)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrServer:
		return e.Status >= 500 && e.Status <= 599
	case ErrClient:
		return e.Status >= 400 && e.Status <= 499
	}
	return false
}

// AuthError is a login rejected by the server. Reason is the server-reported
// message, suitable for display.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return "sign in failed"
	}
	return "sign in failed: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }
