package models

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("duplicate key")
	ErrForbidden       = errors.New("forbidden")
	ErrRemoteCall      = errors.New("remote call failed")
	ErrProfileCreation = errors.New("profile creation failed")
)

// ErrStale is returned for a read that was superseded by a newer one before
// it resolved. Its result has been discarded.
var ErrStale = errors.New("stale response discarded")

// ValidationError reports client input that never reached the store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// RemoteCallError wraps a failed store query or mutation.
type RemoteCallError struct {
	Op  string
	Err error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

func (e *RemoteCallError) Is(target error) bool {
	return target == ErrRemoteCall
}

type ProfileCreationError struct {
	Err error
}

func (e *ProfileCreationError) Error() string {
	return fmt.Sprintf("creating profile: %v", e.Err)
}

func (e *ProfileCreationError) Unwrap() error {
	return e.Err
}

func (e *ProfileCreationError) Is(target error) bool {
	return target == ErrProfileCreation
}
