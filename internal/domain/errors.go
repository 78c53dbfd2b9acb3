package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure into the categories the rest of the
// system makes decisions on: whether to retry, and how to report it.
type ErrorKind int

const (
	// ErrValidation: bad caller input, never reached the network.
	ErrValidation ErrorKind = iota
	// ErrNotFound: the resource does not exist upstream (404).
	ErrNotFound
	// ErrRateLimited: the primary API quota is exhausted (403/429 with
	// zero remaining quota).
	ErrRateLimited
	// ErrTimeout: the attempt was aborted by the client-side deadline.
	ErrTimeout
	// ErrNetwork: transport-level failure before a response arrived.
	ErrNetwork
	// ErrUpstream: any other non-2xx upstream response.
	ErrUpstream
)

func (k ErrorKind) String() string {
	switch k {
	case ErrValidation:
		return "validation"
	case ErrNotFound:
		return "not_found"
	case ErrRateLimited:
		return "rate_limited"
	case ErrTimeout:
		return "timeout"
	case ErrNetwork:
		return "network"
	case ErrUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Status carries the upstream HTTP status
// code when one was observed, zero otherwise.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether another attempt can plausibly succeed.
// Missing resources and exhausted quotas cannot be retried away.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case ErrTimeout, ErrNetwork, ErrUpstream:
		return true
	default:
		return false
	}
}

// KindOf extracts the classification from an error chain.
func KindOf(err error) (ErrorKind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

// Retryable reports whether err is a classified retryable failure.
// Unclassified errors are not retried.
func Retryable(err error) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Retryable()
	}
	return false
}
