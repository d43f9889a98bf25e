package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryReactivity Category = "reactivity"
	CategoryScheduler  Category = "scheduler"
	CategoryRender     Category = "render"
	CategoryWatch      Category = "watch"
	CategoryConfig     Category = "config"
	CategoryCLI        Category = "cli"
)

// Error is a structured error with a code, explanation and suggestion.
type Error struct {
	// Code is a unique error identifier (e.g., "R001").
	Code string

	// Category is the error type (scheduler, render, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of this occurrence.
	Detail string

	// Source names the job, component or callback that failed.
	Source string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Source != "" {
		msg = fmt.Sprintf("%s (in %s)", msg, e.Source)
	}
	if e.Wrapped != nil {
		msg = msg + ": " + e.Wrapped.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithSource records which job or callback raised the error.
func (e *Error) WithSource(source string) *Error {
	e.Source = source
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an Error.
// An *Error anywhere in err's chain is returned as is.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	var re *Error
	if stderrors.As(err, &re) {
		return re
	}
	return New(code).Wrap(err)
}

// FromPanic converts a recovered panic value into an Error with the given code.
func FromPanic(recovered any, code string) *Error {
	switch v := recovered.(type) {
	case nil:
		return nil
	case *Error:
		return v
	case error:
		return New(code).Wrap(v)
	default:
		return New(code).Wrap(fmt.Errorf("panic: %v", v))
	}
}
