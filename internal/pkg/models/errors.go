package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition marks a status change outside the legal transition set
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrStaleStatus marks an authoritative status older than the one already applied
	ErrStaleStatus = errors.New("stale status")
	// ErrChannelFailure marks a live delivery channel that could not be established or dropped
	ErrChannelFailure = errors.New("status channel failure")
	// ErrStatusUnknown is returned once polling gave up without reaching a terminal state
	ErrStatusUnknown = errors.New("status unknown, check later")
	// ErrTransactionNotFound is returned when the backend has no such transaction
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrUnauthenticated is returned when no user token is available for a backend call
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrInvalidRequest marks input rejected before any backend call
	ErrInvalidRequest = errors.New("invalid request")
)

// TransitionError describes a rejected status transition
type TransitionError struct {
	From TransactionStatus
	To   TransactionStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

// Unwrap lets errors.Is match ErrInvalidTransition
func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// CreationRejectedError is returned when the backend declines to create a transaction
type CreationRejectedError struct {
	Code    string
	Message string
}

func (e *CreationRejectedError) Error() string {
	return fmt.Sprintf("transaction rejected (%s): %s", e.Code, e.Message)
}

// CommentRejectedError is returned when a comment fails validation or the backend refuses it
type CommentRejectedError struct {
	Reason string
	// Remote is true when the backend refused the update, false for local validation
	Remote bool
}

func (e *CommentRejectedError) Error() string {
	return e.Reason
}
