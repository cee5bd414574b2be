// Package builtins implements the intrinsic function table (spec.md §4.7):
// the trigonometric, string, and I/O-querying functions the evaluator
// calls out to through its eval.Functions interface.
package builtins

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/cwbudde/go-cbm/internal/token"
	"github.com/cwbudde/go-cbm/internal/value"
)

// IO is the slice of the terminal the builtins need: TAB(n) writes padding
// directly to the output and POS(x) reports the current column, so both
// share whatever tracks print-column state (internal/host.Terminal).
type IO interface {
	Column() int
	Write(s string)
	Width() int
}

// Registry is the intrinsic-function table, satisfying eval.Functions.
type Registry struct {
	io   IO
	rng  *rand.Rand
	last float64
}

// New creates a Registry writing TAB/POS output through io.
func New(io IO) *Registry {
	return &Registry{io: io, rng: rand.New(rand.NewSource(1))}
}

var numericNames = map[string]bool{
	"SIN": true, "COS": true, "TAN": true, "ATN": true, "ABS": true,
	"INT": true, "SQR": true, "SGN": true, "EXP": true, "LOG": true,
	"RND": true, "VAL": true, "ASC": true, "LEN": true, "INSTR": true,
	"TAB": true, "POS": true, "FRE": true,
}

// NOT is deliberately absent here: CBM BASIC writes it as a unary prefix
// operator ("NOT X", no parentheses), so internal/eval's grammar handles
// it directly rather than routing it through this call table.

var stringNames = map[string]bool{
	"STR$": true, "CHR$": true, "LEFT$": true, "RIGHT$": true, "MID$": true,
}

// IsFunction reports whether name (as spelled by eval, with a trailing
// '$' already appended for string-valued names) is an intrinsic.
func (r *Registry) IsFunction(name string) bool {
	return numericNames[name] || stringNames[name]
}

// Call invokes the named intrinsic with already-evaluated arguments.
func (r *Registry) Call(name string, args []value.Value) (value.Value, error) {
	switch name {
	case "SIN":
		return r.unaryMath(args, math.Sin)
	case "COS":
		return r.unaryMath(args, math.Cos)
	case "TAN":
		return r.unaryMath(args, math.Tan)
	case "ATN":
		return r.unaryMath(args, math.Atan)
	case "ABS":
		return r.unaryMath(args, math.Abs)
	case "INT":
		return r.unaryMath(args, math.Floor)
	case "SQR":
		return r.unaryMath(args, math.Sqrt)
	case "SGN":
		return r.unaryMath(args, sgn)
	case "EXP":
		return r.unaryMath(args, math.Exp)
	case "LOG":
		return r.unaryMath(args, math.Log)
	case "RND":
		return r.rnd(args)
	case "VAL":
		return r.val(args)
	case "STR$":
		return r.str(args)
	case "CHR$":
		return r.chr(args)
	case "ASC":
		return r.asc(args)
	case "LEN":
		return r.length(args)
	case "LEFT$":
		return r.left(args)
	case "RIGHT$":
		return r.right(args)
	case "MID$":
		return r.mid(args)
	case "INSTR":
		return r.instr(args)
	case "TAB":
		return r.tab(args)
	case "POS":
		return r.pos(args)
	case "FRE":
		return r.fre(args)
	}
	return value.Value{}, fmt.Errorf("Unknown function")
}

func sgn(n float64) float64 {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

func arg(args []value.Value, i int) (value.Value, error) {
	if i >= len(args) {
		return value.Value{}, fmt.Errorf("Syntax error in expression")
	}
	return args[i], nil
}

func (r *Registry) unaryMath(args []value.Value, f func(float64) float64) (value.Value, error) {
	a, err := arg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	n, err := a.AsNumber()
	if err != nil {
		return value.Value{}, err
	}
	return value.Num(f(n)), nil
}

// rnd mirrors classic CBM behavior: a negative argument reseeds the
// generator deterministically before drawing; zero or positive draws the
// next uniform [0,1) value (spec.md §4.7, "negative argument reseeds").
func (r *Registry) rnd(args []value.Value) (value.Value, error) {
	a, err := arg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	n, err := a.AsNumber()
	if err != nil {
		return value.Value{}, err
	}
	if n < 0 {
		r.rng = rand.New(rand.NewSource(int64(n)))
	}
	r.last = r.rng.Float64()
	return value.Num(r.last), nil
}

func (r *Registry) val(args []value.Value) (value.Value, error) {
	a, err := arg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	s, err := a.AsString()
	if err != nil {
		return value.Value{}, err
	}
	i := token.SkipSpace(s, 0)
	n, _, ok := token.ReadNumber(s, i)
	if !ok {
		return value.Num(0), nil
	}
	return value.Num(n), nil
}

func (r *Registry) str(args []value.Value) (value.Value, error) {
	a, err := arg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	n, err := a.AsNumber()
	if err != nil {
		return value.Value{}, err
	}
	return value.Str(value.FormatNumber(n)), nil
}

func (r *Registry) chr(args []value.Value) (value.Value, error) {
	a, err := arg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	n, err := a.AsNumber()
	if err != nil {
		return value.Value{}, err
	}
	code := int(n)
	if code < 0 || code > 255 {
		return value.Value{}, fmt.Errorf("Syntax error in expression")
	}
	return value.Str(string([]byte{byte(code)})), nil
}

func (r *Registry) asc(args []value.Value) (value.Value, error) {
	a, err := arg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	s, err := a.AsString()
	if err != nil {
		return value.Value{}, err
	}
	if s == "" {
		return value.Value{}, fmt.Errorf("Syntax error in expression")
	}
	return value.Num(float64(s[0])), nil
}

func (r *Registry) length(args []value.Value) (value.Value, error) {
	a, err := arg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	s, err := a.AsString()
	if err != nil {
		return value.Value{}, err
	}
	return value.Num(float64(len(s))), nil
}

func clampCount(n, max int) int {
	if n < 0 {
		return 0
	}
	if n > max {
		return max
	}
	return n
}

func (r *Registry) left(args []value.Value) (value.Value, error) {
	as, err := arg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	an, err := arg(args, 1)
	if err != nil {
		return value.Value{}, err
	}
	s, err := as.AsString()
	if err != nil {
		return value.Value{}, err
	}
	n, err := an.AsNumber()
	if err != nil {
		return value.Value{}, err
	}
	count := clampCount(int(n), len(s))
	return value.Str(s[:count]), nil
}

func (r *Registry) right(args []value.Value) (value.Value, error) {
	as, err := arg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	an, err := arg(args, 1)
	if err != nil {
		return value.Value{}, err
	}
	s, err := as.AsString()
	if err != nil {
		return value.Value{}, err
	}
	n, err := an.AsNumber()
	if err != nil {
		return value.Value{}, err
	}
	count := clampCount(int(n), len(s))
	return value.Str(s[len(s)-count:]), nil
}

// mid implements MID$(s$, start[, length]): start is 1-based; an omitted
// length runs to the end of the string (spec.md §4.7).
func (r *Registry) mid(args []value.Value) (value.Value, error) {
	as, err := arg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	an, err := arg(args, 1)
	if err != nil {
		return value.Value{}, err
	}
	s, err := as.AsString()
	if err != nil {
		return value.Value{}, err
	}
	startN, err := an.AsNumber()
	if err != nil {
		return value.Value{}, err
	}
	start := int(startN) - 1
	if start < 0 {
		start = 0
	}
	if start >= len(s) {
		return value.Str(""), nil
	}
	end := len(s)
	if len(args) >= 3 {
		ln, err := args[2].AsNumber()
		if err != nil {
			return value.Value{}, err
		}
		if start+int(ln) < end {
			end = start + int(ln)
		}
	}
	return value.Str(s[start:end]), nil
}

// instr implements INSTR(haystack$, needle$[, start]): a 1-based match
// position, or 0 if needle does not occur (supplemented from the spec's
// original BASIC, spec.md §9 "Supplemented Features").
func (r *Registry) instr(args []value.Value) (value.Value, error) {
	ah, err := arg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	an, err := arg(args, 1)
	if err != nil {
		return value.Value{}, err
	}
	haystack, err := ah.AsString()
	if err != nil {
		return value.Value{}, err
	}
	needle, err := an.AsString()
	if err != nil {
		return value.Value{}, err
	}
	start := 0
	if len(args) >= 3 {
		sn, err := args[2].AsNumber()
		if err != nil {
			return value.Value{}, err
		}
		start = int(sn) - 1
		if start < 0 {
			start = 0
		}
	}
	if start > len(haystack) {
		return value.Num(0), nil
	}
	idx := strings.Index(haystack[start:], needle)
	if idx < 0 {
		return value.Num(0), nil
	}
	return value.Num(float64(start + idx + 1)), nil
}

// tab emits spaces to reach column n (mod the terminal width), wrapping
// to a new line first if the cursor is already past that column. It
// returns an empty string so it composes inline within a PRINT argument
// list (spec.md §4.7).
func (r *Registry) tab(args []value.Value) (value.Value, error) {
	a, err := arg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	n, err := a.AsNumber()
	if err != nil {
		return value.Value{}, err
	}
	width := r.io.Width()
	target := int(n)
	if width > 0 {
		target = ((target % width) + width) % width
	}
	if r.io.Column() > target {
		r.io.Write("\n")
	}
	for r.io.Column() < target {
		r.io.Write(" ")
	}
	return value.Str(""), nil
}

// pos reports the current print column, 1-based (spec.md §4.7).
func (r *Registry) pos(args []value.Value) (value.Value, error) {
	if _, err := arg(args, 0); err != nil {
		return value.Value{}, err
	}
	return value.Num(float64(r.io.Column() + 1)), nil
}

// fre reports a notional free-memory figure; CBM BASIC v2 programs
// typically only test its sign, never its magnitude.
func (r *Registry) fre(args []value.Value) (value.Value, error) {
	if _, err := arg(args, 0); err != nil {
		return value.Value{}, err
	}
	return value.Num(38911), nil
}
