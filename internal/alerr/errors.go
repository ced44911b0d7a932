// Package alerr provides standardized error handling for sqltable.
// All errors have stable, machine-readable codes, structured context, and proper wrapping.
package alerr

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
)

// Code represents a stable, machine-readable error code.
// Format: E{category}{number} where category is a single digit and number is 001-999.
type Code string

// Error codes organized by category.
const (
	// Schema errors (E1xxx) - problems with table descriptions and configuration
	ErrSchemaInvalid   Code = "E1001" // Table description is malformed or invalid
	ErrSchemaNotFound  Code = "E1002" // Table description file does not exist
	ErrSchemaDuplicate Code = "E1003" // Duplicate field or table name
	ErrConfigInvalid   Code = "E1004" // Config file is malformed

	// Type syntax errors (E2xxx) - the field type grammar rejected the input
	ErrTypeSyntax   Code = "E2001" // Type specification is empty or garbled
	ErrTypeArgument Code = "E2002" // Width, length or precision literal is malformed
	ErrTypeUnknown  Code = "E2003" // Type name is not part of the grammar
	ErrTypeNested   Code = "E2004" // Array element type failed to parse

	// Engine support errors (E3xxx) - valid input with no rendering in the target engine
	ErrTypeUnsupported    Code = "E3001" // Type has no equivalent in the target engine
	EUnsupportedDialect   Code = "E3002" // Engine name is not known
	ErrTableEngineInvalid Code = "E3003" // ClickHouse table engine specification is malformed

	// Output errors (E4xxx) - problems writing or verifying generated DDL
	ErrOutputWrite   Code = "E4001" // Generated DDL could not be written
	ErrLockRead      Code = "E4002" // Lock file could not be read
	ErrLockMismatch  Code = "E4003" // Generated DDL does not match the lock file
	ErrLockNotFound  Code = "E4004" // Lock file does not exist
	ErrOutputMissing Code = "E4005" // Output directory does not exist

	// Cache errors (E8xxx) - problems with local render cache
	ErrCacheInit  Code = "E8001" // Cache initialization failed
	ErrCacheRead  Code = "E8002" // Cache read failed
	ErrCacheWrite Code = "E8003" // Cache write failed

	// Internal errors (E9xxx) - unexpected internal errors
	EInternalError Code = "E9001" // Internal error
)

// Category groups codes by the kind of failure they describe.
type Category string

const (
	CategorySchema      Category = "schema"
	CategorySyntax      Category = "syntax"
	CategoryUnsupported Category = "unsupported"
	CategoryOutput      Category = "output"
	CategoryCache       Category = "cache"
	CategoryInternal    Category = "internal"
)

// Category returns the category a code belongs to, derived from its leading digit.
func (c Code) Category() Category {
	if len(c) < 2 || c[0] != 'E' {
		return CategoryInternal
	}
	switch c[1] {
	case '1':
		return CategorySchema
	case '2':
		return CategorySyntax
	case '3':
		return CategoryUnsupported
	case '4':
		return CategoryOutput
	case '8':
		return CategoryCache
	default:
		return CategoryInternal
	}
}

// Error is the standard error type for sqltable.
// It provides structured error information with codes, context, and wrapping support.
type Error struct {
	code    Code           // Machine-readable error code
	message string         // Human-readable error message
	context map[string]any // Structured context data
	cause   error          // Wrapped underlying error
	stack   string         // Stack trace for debugging
}

// Error returns the formatted error string.
// Format:
//
//	[E2003] unsupported field type "frobnicate"
//	  column: price
//	  table: orders
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.code, e.message))

	// Sorted for deterministic output
	if len(e.context) > 0 {
		keys := make([]string, 0, len(e.context))
		for k := range e.context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			b.WriteString(fmt.Sprintf("\n  %s: %v", k, e.context[k]))
		}
	}

	if e.cause != nil {
		b.WriteString(fmt.Sprintf("\n  cause: %v", e.cause))
	}

	return b.String()
}

// Unwrap returns the underlying cause error for errors.Unwrap compatibility.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether the target error matches this error.
// It matches if target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.code == targetErr.code
	}

	return false
}

// GetCode returns the error code.
func (e *Error) GetCode() Code {
	return e.code
}

// GetMessage returns the error message.
func (e *Error) GetMessage() string {
	return e.message
}

// GetContext returns the error context map.
func (e *Error) GetContext() map[string]any {
	return e.context
}

// GetCause returns the underlying cause error.
func (e *Error) GetCause() error {
	return e.cause
}

// GetStack returns the stack trace.
func (e *Error) GetStack() string {
	return e.stack
}

// With adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *Error) With(key string, value any) *Error {
	if e.context == nil {
		e.context = make(map[string]any)
	}
	e.context[key] = value
	return e
}

// WithTable adds table context to the error.
func (e *Error) WithTable(table string) *Error {
	return e.With("table", table)
}

// WithColumn adds column context to the error.
func (e *Error) WithColumn(name string) *Error {
	return e.With("column", name)
}

// WithFile adds file location context to the error.
func (e *Error) WithFile(path string) *Error {
	return e.With("file", path)
}

// WithNote adds a note to the error (displayed as "note: ...").
func (e *Error) WithNote(note string) *Error {
	notes, _ := e.context["notes"].([]string)
	notes = append(notes, note)
	return e.With("notes", notes)
}

// WithHelp adds a help suggestion to the error (displayed as "help: ...").
// Empty suggestions are ignored so callers can pass SuggestSimilar output directly.
func (e *Error) WithHelp(help string) *Error {
	if help == "" {
		return e
	}
	helps, _ := e.context["helps"].([]string)
	helps = append(helps, help)
	return e.With("helps", helps)
}

// Notes returns all notes attached to this error.
func (e *Error) Notes() []string {
	notes, _ := e.context["notes"].([]string)
	return notes
}

// Helps returns all help suggestions attached to this error.
func (e *Error) Helps() []string {
	helps, _ := e.context["helps"].([]string)
	return helps
}

// captureStack captures a stack trace for debugging.
func captureStack(skip int) string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return ""
	}

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if strings.Contains(frame.File, "runtime/") {
			if !more {
				break
			}
			continue
		}
		b.WriteString(fmt.Sprintf("%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line))
		if !more {
			break
		}
	}
	return b.String()
}

// New creates a new Error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{
		code:    code,
		message: msg,
		context: make(map[string]any),
		stack:   captureStack(3),
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{
		code:    code,
		message: fmt.Sprintf(format, args...),
		context: make(map[string]any),
		stack:   captureStack(3),
	}
}

// Wrap creates a new Error that wraps an existing error.
func Wrap(code Code, err error, msg string) *Error {
	if err == nil {
		return New(code, msg)
	}
	return &Error{
		code:    code,
		message: msg,
		context: make(map[string]any),
		cause:   err,
		stack:   captureStack(3),
	}
}

// Wrapf creates a new Error that wraps an existing error with a formatted message.
func Wrapf(code Code, err error, format string, args ...any) *Error {
	return Wrap(code, err, fmt.Sprintf(format, args...))
}

// GetErrorCode extracts the outermost error code from an error chain.
// Returns empty string if no code is found.
func GetErrorCode(err error) Code {
	if err == nil {
		return ""
	}

	var ae *Error
	if errors.As(err, &ae) {
		return ae.code
	}

	return ""
}

// Is checks if an error has the specified code.
func Is(err error, code Code) bool {
	return GetErrorCode(err) == code
}

// HasCode checks if an error has any error code.
func HasCode(err error) bool {
	return GetErrorCode(err) != ""
}

// IsSyntax reports whether err is a type grammar failure.
func IsSyntax(err error) bool {
	return HasCode(err) && GetErrorCode(err).Category() == CategorySyntax
}

// IsUnsupported reports whether err means the target engine cannot represent the input.
func IsUnsupported(err error) bool {
	return HasCode(err) && GetErrorCode(err).Category() == CategoryUnsupported
}

// Annotate attaches table and column context to err when it is an *Error.
// Other errors are returned unchanged.
func Annotate(err error, table, column string) error {
	var ae *Error
	if !errors.As(err, &ae) {
		return err
	}
	if table != "" {
		ae.WithTable(table)
	}
	if column != "" {
		ae.WithColumn(column)
	}
	return err
}
