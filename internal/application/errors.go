package application

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrRemoteCall       = errors.New("remote call failed")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RemoteCallError represents a failed call against the remote repository
type RemoteCallError struct {
	Kind   string
	Method string
	Args   []string
	Err    error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("error in %s.%s(%s): %v", e.Kind, e.Method, strings.Join(e.Args, ", "), e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

func (e *RemoteCallError) Is(target error) bool {
	return target == ErrRemoteCall
}
