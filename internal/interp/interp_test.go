package interp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cwbudde/go-cbm/internal/builtins"
	"github.com/cwbudde/go-cbm/internal/eval"
	"github.com/cwbudde/go-cbm/internal/host"
	"github.com/cwbudde/go-cbm/internal/interp"
	"github.com/cwbudde/go-cbm/internal/program"
	"github.com/cwbudde/go-cbm/internal/vars"
)

// run loads src (one BASIC statement per "\n"-separated line, each
// beginning with its line number) and executes it, returning everything
// written to the terminal.
func run(t *testing.T, src string, stdin string) string {
	t.Helper()

	loader := host.NewLoader(host.ProfileOptimised)
	rawLines, err := loader.Parse(src, "test.bas")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	store := program.New()
	for _, rl := range rawLines {
		if err := store.Add(rl.Number, rl.Text); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	var out bytes.Buffer
	term := host.NewTerminal(&out, strings.NewReader(stdin), 80)
	vt := vars.New()
	registry := builtins.New(term)
	ev := eval.New(vt, registry)
	state := interp.New(store, vt, ev, term, host.NoopSleeper{})

	if err := state.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestHelloWorld(t *testing.T) {
	got := run(t, `10 PRINT "HELLO, WORLD!"`, "")
	if got != "HELLO, WORLD!\n" {
		t.Fatalf("got %q", got)
	}
}

func TestForLoopCounts(t *testing.T) {
	src := "10 FOR I=1 TO 3\n20 PRINT I\n30 NEXT I\n"
	got := run(t, src, "")
	if got != "1\n2\n3\n" {
		t.Fatalf("got %q", got)
	}
}

func TestForLoopRunsOnceWhenLimitAlreadyPassed(t *testing.T) {
	src := "10 FOR I=1 TO 0\n20 PRINT I\n30 NEXT I\n"
	got := run(t, src, "")
	if got != "1\n" {
		t.Fatalf("got %q, want a single iteration", got)
	}
}

func TestGosubReturn(t *testing.T) {
	src := "10 GOSUB 100\n20 PRINT \"BACK\"\n30 END\n100 PRINT \"SUB\"\n110 RETURN\n"
	got := run(t, src, "")
	if got != "SUB\nBACK\n" {
		t.Fatalf("got %q", got)
	}
}

func TestIfFalseSkipsWholeTail(t *testing.T) {
	src := "10 IF 0 THEN PRINT \"A\":PRINT \"B\"\n20 PRINT \"C\"\n"
	got := run(t, src, "")
	if got != "C\n" {
		t.Fatalf("got %q, want only C printed", got)
	}
}

func TestIfImplicitGoto(t *testing.T) {
	src := "10 IF -1 THEN 100\n20 PRINT \"SKIPPED\"\n100 PRINT \"HIT\"\n"
	got := run(t, src, "")
	if got != "HIT\n" {
		t.Fatalf("got %q", got)
	}
}

func TestStringFunctionsInExpression(t *testing.T) {
	src := `10 A$="HELLO WORLD"
20 PRINT LEFT$(A$,5)
30 PRINT MID$(A$,7,5)
40 PRINT INSTR(A$,"WORLD")
`
	got := run(t, src, "")
	want := "HELLO\nWORLD\n7\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAndNotBitwise(t *testing.T) {
	src := "10 PRINT 6 AND 3\n20 PRINT NOT 0\n"
	got := run(t, src, "")
	if got != "2\n-1\n" {
		t.Fatalf("got %q", got)
	}
}

func TestArraySubscriptBoundaries(t *testing.T) {
	src := "10 A(0)=1\n20 A(10)=2\n30 A(100)=3\n40 PRINT A(0)\n50 PRINT A(10)\n60 PRINT A(100)\n"
	got := run(t, src, "")
	if got != "1\n2\n3\n" {
		t.Fatalf("got %q", got)
	}
}

func TestInputSplitsOnComma(t *testing.T) {
	src := "10 INPUT A,B$\n20 PRINT A\n30 PRINT B$\n"
	got := run(t, src, "5, HELLO\n")
	if got != "? 5\nHELLO\n" {
		t.Fatalf("got %q", got)
	}
}

func TestNestedForNextWithNamedClose(t *testing.T) {
	src := `10 FOR I=1 TO 2
20 FOR J=1 TO 2
30 PRINT I*10+J
40 NEXT J
50 NEXT I
`
	got := run(t, src, "")
	want := "11\n12\n21\n22\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrintCommaZoneAndSemicolonNoPad(t *testing.T) {
	src := `10 PRINT "A";"B"
20 PRINT "X",1
`
	got := run(t, src, "")
	if !strings.HasPrefix(got, "AB\nX") {
		t.Fatalf("got %q", got)
	}
}

func TestTargetLineNotFoundError(t *testing.T) {
	src := "10 GOTO 999\n"
	loader := host.NewLoader(host.ProfileOptimised)
	rawLines, _ := loader.Parse(src, "test.bas")
	store := program.New()
	for _, rl := range rawLines {
		_ = store.Add(rl.Number, rl.Text)
	}
	var out bytes.Buffer
	term := host.NewTerminal(&out, strings.NewReader(""), 80)
	vt := vars.New()
	ev := eval.New(vt, builtins.New(term))
	state := interp.New(store, vt, ev, term, host.NoopSleeper{})
	err := state.Run()
	if err == nil || !strings.Contains(err.Error(), "Error at line 10") {
		t.Fatalf("expected line-tagged error, got %v", err)
	}
}

func TestQuestionMarkIsPrintSynonym(t *testing.T) {
	got := run(t, "10 ? \"HI\"\n", "")
	if got != "HI\n" {
		t.Fatalf("got %q", got)
	}
}

func TestSingleQuoteIsRemSynonym(t *testing.T) {
	got := run(t, "10 ' this line does nothing\n20 PRINT \"OK\"\n", "")
	if got != "OK\n" {
		t.Fatalf("got %q", got)
	}
}
