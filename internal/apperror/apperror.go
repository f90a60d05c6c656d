// Package apperror defines the closed set of error codes the query core can
// surface to a caller, and a small Error type that carries a code, a
// localized message, optional remediation suggestions and an optional raw
// upstream exception string for debug mode.
package apperror

import (
	"errors"
	"fmt"
)

// Code is one of the closed set of error codes a response may carry.
type Code string

const (
	IntentUnclear         Code = "INTENT_UNCLEAR"
	SchemaNotFound        Code = "SCHEMA_NOT_FOUND"
	MissingRequiredFilter Code = "MISSING_REQUIRED_FILTER"
	ItemNotFound          Code = "ITEM_NOT_FOUND"
	WarehouseNotFound     Code = "WAREHOUSE_NOT_FOUND"
	WorkstationNotFound   Code = "WORKSTATION_NOT_FOUND"
	AmbiguousReference    Code = "AMBIGUOUS_REFERENCE"
	ColumnNotFound        Code = "COLUMN_NOT_FOUND"
	BinderError           Code = "BINDER_ERROR"
	OutOfMemory           Code = "OUT_OF_MEMORY"
	QueryTimeout          Code = "QUERY_TIMEOUT"
	ConnectionError       Code = "CONNECTION_ERROR"
	JoinUnguarded         Code = "JOIN_UNGUARDED"
	QueryError            Code = "QUERY_ERROR"
	InternalError         Code = "INTERNAL_ERROR"

	// queryCancelled is an internal executor-level state (§5); it is never
	// surfaced as a response code, and no code path returns it.
	queryCancelled Code = "QUERY_CANCELLED"
)

// Class buckets a Code into the propagation classes named in the error
// handling design: whether a caller can plausibly remediate it.
type Class string

const (
	ClassUserRemediable Class = "user_remediable"
	ClassSchemaOps      Class = "schema_ops"
	ClassResource       Class = "resource"
	ClassInfra          Class = "infra"
)

var classByCode = map[Code]Class{
	IntentUnclear:         ClassUserRemediable,
	MissingRequiredFilter: ClassUserRemediable,
	ItemNotFound:          ClassUserRemediable,
	WarehouseNotFound:     ClassUserRemediable,
	WorkstationNotFound:   ClassUserRemediable,

	SchemaNotFound:     ClassSchemaOps,
	ColumnNotFound:     ClassSchemaOps,
	AmbiguousReference: ClassSchemaOps,
	BinderError:        ClassSchemaOps,

	QueryTimeout:  ClassResource,
	OutOfMemory:   ClassResource,
	JoinUnguarded: ClassResource,

	ConnectionError: ClassInfra,
	InternalError:   ClassInfra,
	QueryError:      ClassInfra,
}

// ClassOf returns the propagation class for a code, defaulting to infra for
// any code that was not explicitly classified (defensive default only; every
// closed-set code above is classified).
func ClassOf(code Code) Class {
	if c, ok := classByCode[code]; ok {
		return c
	}
	return ClassInfra
}

// Error is the typed diagnostic every component funnels failures through.
type Error struct {
	Code        Code
	Message     string
	Suggestions []string
	Exception   string
	Stage       string
	cause       error
}

func (e *Error) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s[%s]: %s", e.Code, e.Stage, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds an Error with no wrapped cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap builds an Error that wraps an underlying cause, recording its text as
// the debug-only Exception field.
func Wrap(code Code, message string, cause error) *Error {
	e := &Error{Code: code, Message: message, cause: cause}
	if cause != nil {
		e.Exception = cause.Error()
	}
	return e
}

// WithSuggestions returns a copy of e with Suggestions set.
func (e *Error) WithSuggestions(suggestions ...string) *Error {
	c := *e
	c.Suggestions = suggestions
	return &c
}

// WithStage returns a copy of e with Stage set to the resolver phase that
// produced it.
func (e *Error) WithStage(stage string) *Error {
	c := *e
	c.Stage = stage
	return &c
}

// CodeOf unwraps err looking for an *Error and returns its Code, or
// INTERNAL_ERROR if err is not one of ours.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return InternalError
}
