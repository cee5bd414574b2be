package host_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cwbudde/go-cbm/internal/host"
)

func TestTerminalColumnTracking(t *testing.T) {
	var buf bytes.Buffer
	term := host.NewTerminal(&buf, strings.NewReader(""), 80)
	term.Write("HELLO")
	if term.Column() != 5 {
		t.Fatalf("column = %d, want 5", term.Column())
	}
	term.Write("\n")
	if term.Column() != 0 {
		t.Fatalf("column after newline = %d, want 0", term.Column())
	}
}

func TestTerminalWrapsAtWidth(t *testing.T) {
	var buf bytes.Buffer
	term := host.NewTerminal(&buf, strings.NewReader(""), 80)
	term.Write(strings.Repeat("A", 90))
	if term.Column() != 10 {
		t.Fatalf("column after 90-char write = %d, want 10", term.Column())
	}
	want := strings.Repeat("A", 80) + "\n" + strings.Repeat("A", 10)
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func TestTerminalReadLine(t *testing.T) {
	term := host.NewTerminal(&bytes.Buffer{}, strings.NewReader("FIRST\nSECOND"), 80)
	line, err := term.ReadLine()
	if err != nil || line != "FIRST" {
		t.Fatalf("ReadLine = %q, %v", line, err)
	}
	line, err = term.ReadLine()
	if err != nil || line != "SECOND" {
		t.Fatalf("ReadLine = %q, %v", line, err)
	}
	if _, err := term.ReadLine(); err == nil {
		t.Fatalf("expected EOF on third read")
	}
}

func TestLoaderParsesAndSortsNothingSkipsBlank(t *testing.T) {
	l := host.NewLoader(host.ProfileOptimised)
	src := "10 PRINT \"HI\"\n\n20 END\n"
	lines, err := l.Parse(src, "prog.bas")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Number != 10 || lines[0].Text != `PRINT "HI"` {
		t.Fatalf("unexpected first line: %+v", lines[0])
	}
	if lines[1].Number != 20 || lines[1].Text != "END" {
		t.Fatalf("unexpected second line: %+v", lines[1])
	}
}

func TestLoaderRejectsMissingLineNumber(t *testing.T) {
	l := host.NewLoader(host.ProfileOptimised)
	if _, err := l.Parse("PRINT \"HI\"\n", "prog.bas"); err == nil {
		t.Fatalf("expected error for missing line number")
	}
}

func TestLoaderEnforcesProfileLineLength(t *testing.T) {
	l := host.NewLoader(host.ProfileOptimised)
	longLine := "10 " + strings.Repeat("A", 200)
	if _, err := l.Parse(longLine, "prog.bas"); err == nil {
		t.Fatalf("expected line-too-long error under optimised profile")
	}

	l2 := host.NewLoader(host.ProfileClassic)
	if _, err := l2.Parse(longLine, "prog.bas"); err != nil {
		t.Fatalf("classic profile should accept 200-byte line: %v", err)
	}
}

func TestNoopSleeperReturnsImmediately(t *testing.T) {
	var s host.Sleeper = host.NoopSleeper{}
	s.Sleep(600) // would block 10s under RealSleeper
}
