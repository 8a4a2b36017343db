package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain conditions
var (
	ErrNoData          = errors.New("no data available")
	ErrUnknownScheme   = errors.New("unknown scheme")
	ErrSchemaMismatch  = errors.New("resources belong to more than one scheme")
	ErrTypeMismatch    = errors.New("unsupported source type")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrUnknownElement  = errors.New("unknown element")
	ErrInvalidPercent  = errors.New("invalid percent")
	ErrNoFieldSpec     = errors.New("no field spec available")
)

// SchemaMismatchError is returned when a query resolves files of more than one scheme
type SchemaMismatchError struct {
	Expected string
	Found    string
	Resource ResourceIndex
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("resources belong to more than one scheme: %q and %q (resource %d)",
		e.Expected, e.Found, e.Resource)
}

func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// TypeMismatchError is returned for a source the resolver cannot handle
type TypeMismatchError struct {
	Source any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("unsupported source type %T", e.Source)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// UnknownSchemeError lists the schemes that are available
type UnknownSchemeError struct {
	Scheme    string
	Available []string
}

func (e *UnknownSchemeError) Error() string {
	return fmt.Sprintf("no scheme %q available, choose one of [%s]",
		e.Scheme, strings.Join(e.Available, ", "))
}

func (e *UnknownSchemeError) Is(target error) bool {
	return target == ErrUnknownScheme
}

// UnknownElementError is returned for a symbol missing from the element table
type UnknownElementError struct {
	Symbol string
}

func (e *UnknownElementError) Error() string {
	return fmt.Sprintf("unknown element %q", e.Symbol)
}

func (e *UnknownElementError) Is(target error) bool {
	return target == ErrUnknownElement
}
