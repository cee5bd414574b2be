// Package interp implements the statement interpreter and its execution
// driver (spec.md §4.5, §4.6): a loop over a program.Store that hands each
// line's text to a per-statement dispatcher, which in turn calls out to
// internal/eval for sub-expressions.
//
// All mutable run state lives in State; there are no package-level
// globals, so multiple programs can run concurrently in the same process
// (spec.md §5).
package interp

import (
	"fmt"
	"io"

	"github.com/cwbudde/go-cbm/internal/errors"
	"github.com/cwbudde/go-cbm/internal/eval"
	"github.com/cwbudde/go-cbm/internal/host"
	"github.com/cwbudde/go-cbm/internal/program"
	"github.com/cwbudde/go-cbm/internal/token"
	"github.com/cwbudde/go-cbm/internal/vars"
)

// MaxGosubDepth and MaxForDepth bound the two control-flow stacks, guarding
// against runaway recursion in pathological programs (spec.md §6).
const (
	MaxGosubDepth = 256
	MaxForDepth   = 256
)

// Frame is a GOSUB return point: the line to resume on and the cursor to
// resume at, not a pointer into anything — re-entering a line by index and
// re-resolving state by key is what keeps GOTO/GOSUB/NEXT safe across
// array growth and line-table edits (spec.md §9).
type Frame struct {
	LineIndex int
	Cursor    int
}

// ForFrame is an active FOR loop: the loop variable's Key (re-resolved
// through the variable table on every NEXT, never a cached slot
// reference), the resume point just after the FOR clause, and the loop
// bounds (spec.md §4.5, §9).
type ForFrame struct {
	Key       vars.Key
	LineIndex int
	Cursor    int
	Limit     float64
	Step      float64
}

// State holds everything one running program needs: the line store, the
// variable table, the expression evaluator, the terminal, the sleeper,
// and the two control-flow stacks.
type State struct {
	Program *program.Store
	Vars    *vars.Table
	Eval    *eval.Evaluator
	Term    *host.Terminal
	Sleeper host.Sleeper

	// Trace, when non-nil, receives one line noting each BASIC line
	// number as it begins execution (the CLI's --trace flag).
	Trace io.Writer

	LineIndex int
	Cursor    int
	Current   int // current BASIC line number, for diagnostics
	Halted    bool

	GosubStack []Frame
	ForStack   []ForFrame
}

// New builds a State ready to Run prog.
func New(prog *program.Store, vt *vars.Table, ev *eval.Evaluator, term *host.Terminal, sleeper host.Sleeper) *State {
	return &State{Program: prog, Vars: vt, Eval: ev, Term: term, Sleeper: sleeper}
}

// Run executes the loaded program from its first line until END/STOP,
// falling off the last line, or a runtime error.
func (s *State) Run() error {
	s.LineIndex = 0
	s.Cursor = 0
	s.Halted = false

	for !s.Halted && s.LineIndex < s.Program.Len() {
		line := s.Program.At(s.LineIndex)
		s.Current = line.Number
		if s.Trace != nil {
			fmt.Fprintf(s.Trace, "TRACE: line %d\n", line.Number)
		}
		jumped, err := s.execLine(line.Text)
		if err != nil {
			return errors.NewRuntimeError(s.Current, err.Error())
		}
		if !jumped {
			s.LineIndex++
			s.Cursor = 0
		}
	}
	return nil
}

// execLine runs statements on text starting at s.Cursor until the line
// ends, a jump occurs (GOTO/GOSUB/RETURN/NEXT/implicit-GOTO), or an error
// is hit. jumped reports whether control transferred elsewhere, in which
// case s.LineIndex/s.Cursor already name the new position.
func (s *State) execLine(text string) (jumped bool, err error) {
	cursor := s.Cursor
	for {
		cursor = token.SkipSpace(text, cursor)
		if cursor >= len(text) {
			s.Cursor = 0
			return false, nil
		}
		if text[cursor] == ':' {
			cursor++
			continue
		}
		jumped, next, err := s.execStatement(text, cursor)
		if err != nil {
			return false, err
		}
		if jumped {
			return true, nil
		}
		cursor = next
	}
}
