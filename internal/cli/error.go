package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hlop3z/sqltable/internal/alerr"
)

// contextShownElsewhere lists context keys FormatError renders in their own slot.
var contextShownElsewhere = map[string]bool{
	"file": true, "line": true, "notes": true, "helps": true,
}

// Flatten expands errors built with errors.Join into their leaves.
// A nil error yields nil.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, Flatten(e)...)
		}
		return out
	}
	return []error{err}
}

// FormatError formats an error for CLI display in Cargo/rustc style.
// Joined errors are formatted one after another, separated by a blank line.
// If an error is an *alerr.Error, its structured information is shown.
func FormatError(err error) string {
	errs := Flatten(err)
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		var ae *alerr.Error
		if errors.As(e, &ae) {
			parts = append(parts, formatCodedError(ae))
		} else {
			parts = append(parts, formatGenericError(e))
		}
	}
	return strings.Join(parts, "\n")
}

// formatCodedError formats an *alerr.Error in Cargo style.
func formatCodedError(err *alerr.Error) string {
	var b strings.Builder

	ctx := err.GetContext()

	// First line: error[E2003]: message
	b.WriteString(Error("error"))
	b.WriteString("[")
	b.WriteString(Code(string(err.GetCode())))
	b.WriteString("]: ")
	b.WriteString(err.GetMessage())
	b.WriteString("\n")

	file, _ := ctx["file"].(string)
	line, _ := ctx["line"].(int)
	if file != "" {
		b.WriteString(RenderFileHeader(file, line))
		if line > 0 {
			if snippet, serr := NewSourceSnippet(file, line, 1, 1); serr == nil {
				b.WriteString(snippet.Render())
			}
		}
	}

	var keys []string
	for k := range ctx {
		if !contextShownElsewhere[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		b.WriteString("   ")
		b.WriteString(Pipe())
		b.WriteString("\n")
		for _, k := range keys {
			b.WriteString("   ")
			b.WriteString(Pipe())
			b.WriteString(" ")
			b.WriteString(FormatKeyValue(k, fmt.Sprint(ctx[k])))
			b.WriteString("\n")
		}
	}

	for _, note := range err.Notes() {
		b.WriteString("   ")
		b.WriteString(Pipe())
		b.WriteString("\n")
		b.WriteString(Note("note"))
		b.WriteString(": ")
		b.WriteString(note)
		b.WriteString("\n")
	}

	for _, help := range err.Helps() {
		b.WriteString(Help("help"))
		b.WriteString(": ")
		b.WriteString(help)
		b.WriteString("\n")
	}

	if cause := err.GetCause(); cause != nil {
		b.WriteString("   ")
		b.WriteString(Pipe())
		b.WriteString("\n")
		b.WriteString(Note("cause"))
		b.WriteString(": ")
		b.WriteString(cause.Error())
		b.WriteString("\n")
	}

	return b.String()
}

// formatGenericError formats an error without a code.
func formatGenericError(err error) string {
	var b strings.Builder
	b.WriteString(Error("error"))
	b.WriteString(": ")
	b.WriteString(err.Error())
	b.WriteString("\n")
	return b.String()
}

// FormatWarning formats a warning message with optional help lines.
func FormatWarning(msg string, helps ...string) string {
	var b strings.Builder
	b.WriteString(Warning("warning"))
	b.WriteString(": ")
	b.WriteString(msg)
	b.WriteString("\n")
	for _, help := range helps {
		b.WriteString(FormatHelp(help))
	}
	return b.String()
}

// FormatNote formats a note message.
func FormatNote(msg string) string {
	return Note("note") + ": " + msg + "\n"
}

// FormatHelp formats a help message.
func FormatHelp(msg string) string {
	return Help("help") + ": " + msg + "\n"
}

// FormatSuccess formats a success message.
func FormatSuccess(msg string) string {
	return Success("success") + ": " + msg + "\n"
}
