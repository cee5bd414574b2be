package errors_test

import (
	"strings"
	"testing"

	"github.com/cwbudde/go-cbm/internal/errors"
	"github.com/cwbudde/go-cbm/internal/token"
)

func TestRuntimeErrorWithLine(t *testing.T) {
	err := errors.NewRuntimeError(100, "NEXT without FOR")
	if got, want := err.Error(), "Error at line 100: NEXT without FOR"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRuntimeErrorWithoutLine(t *testing.T) {
	err := errors.NewRuntimeErrorNoLine("Out of memory")
	if got, want := err.Error(), "Error: Out of memory"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestLoadErrorFormat(t *testing.T) {
	source := "10 PRINT\nBADLINE\n30 END"
	err := errors.NewLoadError(token.Position{Line: 2, Column: 1}, "line missing number", source, "prog.bas")
	out := err.Format()
	if !strings.Contains(out, "BADLINE") || !strings.Contains(out, "line missing number") {
		t.Fatalf("unexpected format: %q", out)
	}
}
