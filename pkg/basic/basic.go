// Package basic is the public facade over the interpreter: construct an
// Engine with functional options (mirroring the teacher's
// cmd/dwscript "construct-then-Eval" shape), load a program, and run it.
package basic

import (
	"io"
	"os"

	"github.com/cwbudde/go-cbm/internal/builtins"
	"github.com/cwbudde/go-cbm/internal/eval"
	"github.com/cwbudde/go-cbm/internal/host"
	"github.com/cwbudde/go-cbm/internal/interp"
	"github.com/cwbudde/go-cbm/internal/program"
	"github.com/cwbudde/go-cbm/internal/vars"
)

// Engine runs one BASIC program. Each Engine owns its own State, so
// multiple Engines may run concurrently in the same process (spec.md §5).
type Engine struct {
	profile host.Profile
	out     io.Writer
	in      io.Reader
	width   int
	sleeper host.Sleeper
	trace   io.Writer

	state *interp.State
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithOutput directs PRINT output to w instead of os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.out = w }
}

// WithTrace makes the Engine write a line noting each BASIC line number
// to w as it begins execution (the CLI's --trace flag).
func WithTrace(w io.Writer) Option {
	return func(e *Engine) { e.trace = w }
}

// WithInput directs INPUT reads to r instead of os.Stdin.
func WithInput(r io.Reader) Option {
	return func(e *Engine) { e.in = r }
}

// WithWidth sets PRINT's column width (used by TAB/POS/comma print
// zones). Defaults to host.DefaultWidth.
func WithWidth(width int) Option {
	return func(e *Engine) { e.width = width }
}

// WithSleeper overrides the SLEEP statement's delay implementation,
// letting tests and embedders skip real wall-clock waits.
func WithSleeper(s host.Sleeper) Option {
	return func(e *Engine) { e.sleeper = s }
}

// WithProfile selects the loader's line-length profile
// (host.ProfileClassic or host.ProfileOptimised).
func WithProfile(p host.Profile) Option {
	return func(e *Engine) { e.profile = p }
}

// New creates an Engine with no program loaded yet.
func New(opts ...Option) *Engine {
	e := &Engine{
		profile: host.ProfileOptimised,
		out:     os.Stdout,
		in:      os.Stdin,
		width:   host.DefaultWidth,
		sleeper: host.RealSleeper{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LoadSource parses source text (line-numbered BASIC statements, one per
// text line) into a fresh program store, ready for Run.
func (e *Engine) LoadSource(source string) error {
	loader := host.NewLoader(e.profile)
	rawLines, err := loader.Parse(source, "<source>")
	if err != nil {
		return err
	}
	return e.load(rawLines)
}

// LoadFile reads and parses a program file, ready for Run.
func (e *Engine) LoadFile(path string) error {
	loader := host.NewLoader(e.profile)
	rawLines, err := loader.LoadFile(path)
	if err != nil {
		return err
	}
	return e.load(rawLines)
}

func (e *Engine) load(rawLines []host.RawLine) error {
	store := program.New()
	for _, rl := range rawLines {
		if err := store.Add(rl.Number, rl.Text); err != nil {
			return err
		}
	}

	term := host.NewTerminal(e.out, e.in, e.width)
	vt := vars.New()
	registry := builtins.New(term)
	evaluator := eval.New(vt, registry)
	e.state = interp.New(store, vt, evaluator, term, e.sleeper)
	e.state.Trace = e.trace
	return nil
}

// Run executes the loaded program. Call LoadSource or LoadFile first.
func (e *Engine) Run() error {
	return e.state.Run()
}

// Lines returns the loaded program's lines in order, for diagnostics such
// as the CLI's --dump-lines flag. Call LoadSource or LoadFile first.
func (e *Engine) Lines() []program.Line {
	return e.state.Program.Lines()
}

// RunSource is a convenience for the common "load and run a whole
// program" case, matching the -e inline-eval CLI surface (spec.md §6).
func RunSource(source string, opts ...Option) error {
	e := New(opts...)
	if err := e.LoadSource(source); err != nil {
		return err
	}
	return e.Run()
}
