package model

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrValidation marks input rejected before any request is issued.
	ErrValidation = errors.New("validation error")
	// ErrRemote marks a failed request to the data store.
	ErrRemote = errors.New("remote error")
	// ErrPermission marks a denied clipboard access.
	ErrPermission = errors.New("permission denied")

	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("already exists")
	ErrDefaultFolder = errors.New("default folder cannot be modified")
)

// ValidationError reports an invalid field value.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// RemoteError reports a failed data store request, either a transport failure
// (Status 0) or a non-success status.
type RemoteError struct {
	Op     string
	Status int
	Detail string
	Err    error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Detail)
	default:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
}

// Is matches ErrRemote and the domain sentinel implied by Status.
func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrRemote:
		return true
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrConflict:
		return e.Status == http.StatusConflict
	case ErrDefaultFolder:
		return e.Status == http.StatusForbidden
	}
	return false
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// PermissionError reports a denied clipboard read.
type PermissionError struct {
	Err error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("clipboard: %v", e.Err)
}

// Is matches ErrPermission.
func (e *PermissionError) Is(target error) bool {
	return target == ErrPermission
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}
