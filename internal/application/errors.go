package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrRequestFailed = errors.New("request failed")
	ErrLookupMiss    = errors.New("isbn not found")
	ErrBusy          = errors.New("operation already in progress")
)

// DefaultRequestMessage is shown when the server gave no usable reason
const DefaultRequestMessage = "Request failed"

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AuthError means the credential is missing, expired, or rejected.
// The session has already been cleared when this is returned.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "session expired, please log in again"
	}
	return e.Message
}

func (e *AuthError) Is(target error) bool {
	return target == ErrUnauthorized
}

// RequestError is any other failed call to the remote service.
// Status is 0 when no response was received.
type RequestError struct {
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return DefaultRequestMessage
	}
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

// LookupMiss means the metadata resolver knows nothing about an ISBN
type LookupMiss struct {
	ISBN string
}

func (e *LookupMiss) Error() string {
	return fmt.Sprintf("no book found for ISBN %s", e.ISBN)
}

func (e *LookupMiss) Is(target error) bool {
	return target == ErrLookupMiss
}

// IsAuthError reports whether err forces a logout
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
