package diagnostic

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a diagnostic message
type Severity int

const (
	Error Severity = iota
	Warning
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic is a single parse error or lint warning
type Diagnostic struct {
	Severity Severity
	Message  string
	Line     int
	Column   int
	File     string // set when diagnostics from several files are merged
	Hint     string // optional suggestion
}

// Diagnostics manages a collection of diagnostic messages
type Diagnostics struct {
	items []Diagnostic
}

// New creates a new empty Diagnostics collection
func New() *Diagnostics {
	return &Diagnostics{}
}

// Errorf adds an error diagnostic with formatted message
func (d *Diagnostics) Errorf(line, col int, format string, args ...any) {
	d.add(Diagnostic{Severity: Error, Message: fmt.Sprintf(format, args...), Line: line, Column: col})
}

// Warningf adds a warning diagnostic with formatted message
func (d *Diagnostics) Warningf(line, col int, format string, args ...any) {
	d.add(Diagnostic{Severity: Warning, Message: fmt.Sprintf(format, args...), Line: line, Column: col})
}

// WarningWithHint adds a warning diagnostic carrying a suggestion
func (d *Diagnostics) WarningWithHint(line, col int, msg, hint string) {
	d.add(Diagnostic{Severity: Warning, Message: msg, Line: line, Column: col, Hint: hint})
}

func (d *Diagnostics) add(item Diagnostic) {
	d.items = append(d.items, item)
}

// Merge appends other's diagnostics, stamping file on entries that have none.
func (d *Diagnostics) Merge(file string, other *Diagnostics) {
	if other == nil {
		return
	}
	for _, item := range other.items {
		if item.File == "" {
			item.File = file
		}
		d.add(item)
	}
}

// HasErrors returns true if there are any error-level diagnostics
func (d *Diagnostics) HasErrors() bool {
	return d.ErrorCount() > 0
}

// Errors returns only the error-level diagnostics
func (d *Diagnostics) Errors() []Diagnostic {
	return d.filter(Error)
}

// Warnings returns only the warning-level diagnostics
func (d *Diagnostics) Warnings() []Diagnostic {
	return d.filter(Warning)
}

func (d *Diagnostics) filter(sev Severity) []Diagnostic {
	out := make([]Diagnostic, 0)
	for _, item := range d.items {
		if item.Severity == sev {
			out = append(out, item)
		}
	}
	return out
}

// All returns all diagnostics regardless of severity
func (d *Diagnostics) All() []Diagnostic {
	return d.items
}

// Count returns the total number of diagnostics
func (d *Diagnostics) Count() int {
	return len(d.items)
}

// ErrorCount returns the number of error-level diagnostics
func (d *Diagnostics) ErrorCount() int {
	return len(d.filter(Error))
}

// WarningCount returns the number of warning-level diagnostics
func (d *Diagnostics) WarningCount() int {
	return len(d.filter(Warning))
}

// Format returns human-readable messages, one per line:
//
//	error[token.sol:3:10]: expected SEMICOLON, got '}'
//	warning[token.sol:5:5]: nested mapping approvals flattens 3 levels
//	  hint: intermediate keys are dropped
func (d *Diagnostics) Format(filename string) string {
	var b strings.Builder
	for i, item := range d.items {
		file := filename
		if item.File != "" {
			file = item.File
		}
		fmt.Fprintf(&b, "%s[%s:%d:%d]: %s", item.Severity, file, item.Line, item.Column, item.Message)
		if item.Hint != "" {
			fmt.Fprintf(&b, "\n  hint: %s", item.Hint)
		}
		if i < len(d.items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
