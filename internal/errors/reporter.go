package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ErrorLevel represents the severity of an error
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// Position is a location inside a description file. The zero value means
// the error has no source location (it was raised while building).
type Position struct {
	Filename string
	Line     int
	Column   int
}

// IsValid reports whether the position points into a file
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if !p.IsValid() {
		return p.Filename
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// DesignError represents a structured construction or input error
type DesignError struct {
	Level    ErrorLevel
	Code     string   // Error code like E0001
	Message  string   // Primary error message
	Position Position // Location in the description, if known
	Length   int      // Length of the problematic region
	Notes    []string // Additional context notes
	HelpText string   // Help text for the error
}

func (e *DesignError) Error() string {
	if e.Position.IsValid() {
		return fmt.Sprintf("%s: %s[%s]: %s", e.Position, e.Level, e.Code, e.Message)
	}
	return fmt.Sprintf("%s[%s]: %s", e.Level, e.Code, e.Message)
}

// Is matches another DesignError with the same code, so callers can test
// with errors.Is(err, &DesignError{Code: ErrorEmptyCase}).
func (e *DesignError) Is(target error) bool {
	t, ok := target.(*DesignError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Code returns the error code of err if it is (or wraps) a DesignError
func Code(err error) string {
	for err != nil {
		if de, ok := err.(*DesignError); ok {
			return de.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// ErrorReporter handles consistent error formatting
type ErrorReporter struct {
	filename string
	lines    []string
}

// NewErrorReporter creates a new error reporter for a file. source may be
// empty when the input has no line structure worth quoting.
func NewErrorReporter(filename, source string) *ErrorReporter {
	var lines []string
	if source != "" {
		lines = strings.Split(source, "\n")
	}
	return &ErrorReporter{
		filename: filename,
		lines:    lines,
	}
}

// FormatError formats a design error with rustc-like styling
func (er *ErrorReporter) FormatError(err *DesignError) string {
	var result strings.Builder

	levelColor := er.getLevelColor(err.Level)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	// Header: error[E0001]: message
	if err.Code != "" {
		result.WriteString(fmt.Sprintf("%s[%s]: %s\n",
			levelColor(string(err.Level)), err.Code, err.Message))
	} else {
		result.WriteString(fmt.Sprintf("%s: %s\n",
			levelColor(string(err.Level)), err.Message))
	}

	lineNumberWidth := er.getLineNumberWidth(err.Position.Line)
	indent := strings.Repeat(" ", lineNumberWidth)

	filename := err.Position.Filename
	if filename == "" {
		filename = er.filename
	}

	if err.Position.IsValid() {
		result.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n",
			indent, dim("-->"), filename, err.Position.Line, err.Position.Column))

		if err.Position.Line <= len(er.lines) {
			result.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))
			lineContent := er.lines[err.Position.Line-1]
			result.WriteString(fmt.Sprintf("%s %s %s\n",
				bold(fmt.Sprintf("%*d", lineNumberWidth, err.Position.Line)),
				dim("│"),
				lineContent))

			marker := er.createMarker(err.Position.Column, err.Length, err.Level)
			result.WriteString(fmt.Sprintf("%s %s %s\n",
				indent, dim("│"), marker))
		}
	} else if filename != "" {
		result.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("-->"), filename))
	}

	for _, note := range err.Notes {
		noteColor := color.New(color.FgBlue).SprintFunc()
		result.WriteString(fmt.Sprintf("%s %s %s %s\n",
			indent, dim("│"), noteColor("note:"), note))
	}

	if err.HelpText != "" {
		helpColor := color.New(color.FgGreen).SprintFunc()
		result.WriteString(fmt.Sprintf("%s %s %s %s\n",
			indent, dim("│"), helpColor("help:"), err.HelpText))
	}

	result.WriteString("\n")
	return result.String()
}

// Format formats any error. Errors that are not DesignErrors are reported
// with a bare error header.
func (er *ErrorReporter) Format(err error) string {
	for e := err; e != nil; {
		if de, ok := e.(*DesignError); ok {
			return er.FormatError(de)
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	return er.FormatError(&DesignError{Level: Error, Message: err.Error()})
}

// getLevelColor returns the appropriate color function for an error level
func (er *ErrorReporter) getLevelColor(level ErrorLevel) func(...interface{}) string {
	switch level {
	case Error:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case Help:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

// createMarker creates the underline marker for errors
func (er *ErrorReporter) createMarker(column, length int, level ErrorLevel) string {
	if length <= 0 {
		length = 1
	}

	spaces := strings.Repeat(" ", max(0, column-1))

	var markerColor func(...interface{}) string
	switch level {
	case Warning:
		markerColor = color.New(color.FgYellow, color.Bold).SprintFunc()
	default:
		markerColor = color.New(color.FgRed, color.Bold).SprintFunc()
	}

	return spaces + markerColor(strings.Repeat("^", length))
}

// getLineNumberWidth calculates the width needed for line numbers
func (er *ErrorReporter) getLineNumberWidth(line int) int {
	width := len(fmt.Sprintf("%d", line))
	if width < 3 {
		width = 3 // minimum width for visual alignment
	}
	return width
}
