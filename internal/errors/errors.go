// Package errors formats the interpreter's two classes of diagnostic:
// load errors (with source-line context and a caret, since the loader has
// precise column information) and runtime errors (named only by the
// current BASIC line number, since a running line has no single "column"
// once GOTO/GOSUB/NEXT have re-entered it from elsewhere — spec.md §7).
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-cbm/internal/token"
)

// LoadError is a diagnostic produced while reading a program file: a
// message, the offending position, and the file's full text for context.
type LoadError struct {
	Message string
	Pos     token.Position
	Source  string
	File    string
}

// NewLoadError builds a LoadError.
func NewLoadError(pos token.Position, message, source, file string) *LoadError {
	return &LoadError{Pos: pos, Message: message, Source: source, File: file}
}

// Error implements the error interface.
func (e *LoadError) Error() string { return e.Format() }

// Format renders the error with a source-line excerpt and a caret
// pointing at the offending column, grounded on the teacher's
// CompilerError.Format.
func (e *LoadError) Format() string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "Error in %s:%d:%d\n", e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "Error at %d:%d\n", e.Pos.Line, e.Pos.Column)
	}

	if line := sourceLine(e.Source, e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		if e.Pos.Column > 0 {
			sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Column-1))
			sb.WriteString("^\n")
		}
	}

	sb.WriteString(e.Message)
	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// RuntimeError is a diagnostic produced during execution, named by the
// current BASIC line number when one applies (spec.md §7: "Error at line
// N: <message>" vs. plain "Error: <message>").
type RuntimeError struct {
	Message string
	Line    int // BASIC line number; HasLine is false if none applies
	HasLine bool
}

// NewRuntimeError builds a RuntimeError attributed to a BASIC line.
func NewRuntimeError(line int, message string) *RuntimeError {
	return &RuntimeError{Message: message, Line: line, HasLine: true}
}

// NewRuntimeErrorNoLine builds a RuntimeError with no associated line
// (e.g. a failure before any line has started executing).
func NewRuntimeErrorNoLine(message string) *RuntimeError {
	return &RuntimeError{Message: message}
}

// Error implements the error interface, matching spec.md §7's
// user-visible forms exactly.
func (e *RuntimeError) Error() string {
	if e.HasLine {
		return fmt.Sprintf("Error at line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("Error: %s", e.Message)
}
