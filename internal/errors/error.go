package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime  Category = "runtime"
	CategoryTemplate Category = "template"
	CategoryConfig   Category = "config"
	CategorySource   Category = "source"
	CategoryCLI      Category = "cli"
)

// Location identifies a node in a template.
type Location struct {
	// Source is the template name (file path, URL or "<stdin>").
	Source string

	// Node is a selector-like path to the node, e.g. "html>body>div#app".
	Node string
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	switch {
	case l.Source != "" && l.Node != "":
		return fmt.Sprintf("%s: %s", l.Source, l.Node)
	case l.Node != "":
		return l.Node
	default:
		return l.Source
	}
}

// BindError is a structured error with location, suggestions, and documentation.
type BindError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the template node where the error occurred.
	Location *Location

	// Snippet contains the source of the offending node.
	Snippet []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *BindError) Error() string {
	var b strings.Builder
	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Location != nil {
		b.WriteString(" at ")
		b.WriteString(e.Location.String())
	}
	if e.Wrapped != nil {
		b.WriteString(": ")
		b.WriteString(e.Wrapped.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *BindError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a template location to the error.
func (e *BindError) WithLocation(source, node string) *BindError {
	e.Location = &Location{Source: source, Node: node}
	return e
}

// WithSnippet adds the offending source, split into lines and truncated to
// a few lines.
func (e *BindError) WithSnippet(src string) *BindError {
	const maxLines = 5
	lines := strings.Split(strings.TrimSpace(src), "\n")
	if len(lines) > maxLines {
		lines = append(lines[:maxLines], "…")
	}
	e.Snippet = lines
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
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new BindError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *BindError {
	return &BindError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a BindError. An error that already
// is (or wraps) a BindError is returned as that BindError.
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

// Code returns the code of the first BindError in err's chain, or "".
func Code(err error) string {
	var be *BindError
	if stderrors.As(err, &be) {
		return be.Code
	}
	return ""
}
