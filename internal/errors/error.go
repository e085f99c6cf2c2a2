package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryParse      Category = "parse"
	CategoryInvocation Category = "invocation"
	CategoryConfig     Category = "config"
	CategoryCLI        Category = "cli"
	CategoryPublish    Category = "publish"
)

// Location identifies the markup that produced an error: the element
// (as a short selector) and the directive attribute on it.
type Location struct {
	Element string
	Attr    string
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Attr != "" {
		return fmt.Sprintf("%s [%s]", l.Element, l.Attr)
	}
	return l.Element
}

// BindError is a structured error with a code, location and suggestion.
type BindError struct {
	// Code is a unique error identifier (e.g., "B101").
	Code string

	// Category is the error type (parse, invocation, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the markup location where the error occurred.
	Location *Location

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *BindError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *BindError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a BindError of the same category. A target
// with a code matches only that code.
func (e *BindError) Is(target error) bool {
	t, ok := target.(*BindError)
	if !ok {
		return false
	}
	if t.Code != "" {
		return t.Code == e.Code
	}
	return t.Category != "" && t.Category == e.Category
}

// WithLocation adds the markup location to the error.
func (e *BindError) WithLocation(element, attr string) *BindError {
	e.Location = &Location{Element: element, Attr: attr}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *BindError) WithSuggestion(s string) *BindError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *BindError) WithDetail(d string) *BindError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *BindError) Wrap(err error) *BindError {
	e.Wrapped = err
	return e
}

// New creates a BindError from a registered error code.
func New(code string) *BindError {
	template, ok := registry[code]
	if !ok {
		return &BindError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &BindError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
	}
}

// Newf creates a new BindError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *BindError {
	return &BindError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a BindError.
func FromError(err error, code string) *BindError {
	if err == nil {
		return nil
	}
	var be *BindError
	if stderrors.As(err, &be) {
		return be
	}
	return New(code).Wrap(err)
}

// Sentinel values for errors.Is matching by category.
var (
	ErrParse      = &BindError{Category: CategoryParse}
	ErrInvocation = &BindError{Category: CategoryInvocation}
	ErrConfig     = &BindError{Category: CategoryConfig}
)
