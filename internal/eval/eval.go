// Package eval implements the expression evaluator: a recursive-descent
// parser over a line's text that reads BASIC's operator-precedence
// grammar directly off a live cursor (spec.md §4.3). It shares the
// interpreter's variable table and calls out to the intrinsic-function
// table for CALL resolution.
package eval

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/go-cbm/internal/token"
	"github.com/cwbudde/go-cbm/internal/value"
	"github.com/cwbudde/go-cbm/internal/vars"
)

// Functions is the intrinsic-function table the evaluator calls out to.
// It is satisfied by internal/builtins.Registry; the interface lives here
// (not in builtins) so eval never has to import the statement
// interpreter's wiring package.
type Functions interface {
	// IsFunction reports whether name (already including a trailing '$'
	// for string-returning names, e.g. "LEFT$") is an intrinsic function.
	// This is the pre-pass spec.md §4.3 requires to distinguish a
	// function call from an array subscript.
	IsFunction(name string) bool
	// Call invokes the named intrinsic with already-evaluated arguments.
	Call(name string, args []value.Value) (value.Value, error)
}

// Evaluator parses and evaluates expressions against a variable table and
// a function table.
type Evaluator struct {
	Vars  *vars.Table
	Funcs Functions
}

// New creates an Evaluator over the given variable table and function
// table.
func New(vt *vars.Table, funcs Functions) *Evaluator {
	return &Evaluator{Vars: vt, Funcs: funcs}
}

// Eval parses and evaluates one expression starting at cursor in s,
// following the full or_expr grammar (spec.md §4.3), and returns the
// result and the cursor just past the expression.
func (e *Evaluator) Eval(s string, cursor int) (value.Value, int, error) {
	return e.parseOr(s, cursor)
}

func (e *Evaluator) parseOr(s string, cursor int) (value.Value, int, error) {
	left, cursor, err := e.parseAnd(s, cursor)
	if err != nil {
		return value.Value{}, cursor, err
	}
	for {
		c := token.SkipSpace(s, cursor)
		next, ok := token.MatchKeyword(s, c, "OR")
		if !ok {
			return left, cursor, nil
		}
		right, next2, err := e.parseAnd(s, next)
		if err != nil {
			return value.Value{}, next2, err
		}
		left, err = bitwise(left, right, func(a, b int64) int64 { return a | b })
		if err != nil {
			return value.Value{}, next2, err
		}
		cursor = next2
	}
}

func (e *Evaluator) parseAnd(s string, cursor int) (value.Value, int, error) {
	left, cursor, err := e.parseNot(s, cursor)
	if err != nil {
		return value.Value{}, cursor, err
	}
	for {
		c := token.SkipSpace(s, cursor)
		next, ok := token.MatchKeyword(s, c, "AND")
		if !ok {
			return left, cursor, nil
		}
		right, next2, err := e.parseNot(s, next)
		if err != nil {
			return value.Value{}, next2, err
		}
		left, err = bitwise(left, right, func(a, b int64) int64 { return a & b })
		if err != nil {
			return value.Value{}, next2, err
		}
		cursor = next2
	}
}

// parseNot handles the unary NOT operator: a prefix keyword, not a call
// through internal/builtins, so "NOT X" and "NOT(X)" both work (the latter
// is NOT applied to the parenthesized factor "(X)"). Binds tighter than
// AND/OR but looser than a comparison, so "NOT A=B" parses as "NOT (A=B)"
// (spec.md §4.3, §4.7).
func (e *Evaluator) parseNot(s string, cursor int) (value.Value, int, error) {
	c := token.SkipSpace(s, cursor)
	if next, ok := token.MatchKeyword(s, c, "NOT"); ok {
		operand, next2, err := e.parseNot(s, next)
		if err != nil {
			return value.Value{}, next2, err
		}
		n, err := operand.AsNumber()
		if err != nil {
			return value.Value{}, next2, err
		}
		return value.Num(float64(^truncToInt64(n))), next2, nil
	}
	return e.parseComparison(s, cursor)
}

// compareOps is checked longest-match-first so "<=" isn't mistaken for
// "<" followed by a dangling "=".
var compareOps = []string{"<>", "<=", ">=", "=", "<", ">"}

func (e *Evaluator) parseComparison(s string, cursor int) (value.Value, int, error) {
	left, cursor, err := e.parseAddSub(s, cursor)
	if err != nil {
		return value.Value{}, cursor, err
	}
	c := token.SkipSpace(s, cursor)
	op := matchOneOf(s, c, compareOps)
	if op == "" {
		return left, cursor, nil
	}
	next := c + len(op)
	right, next2, err := e.parseAddSub(s, next)
	if err != nil {
		return value.Value{}, next2, err
	}
	result, err := compareValues(left, op, right)
	if err != nil {
		return value.Value{}, next2, err
	}
	return result, next2, nil
}

func (e *Evaluator) parseAddSub(s string, cursor int) (value.Value, int, error) {
	left, cursor, err := e.parseMulDiv(s, cursor)
	if err != nil {
		return value.Value{}, cursor, err
	}
	for {
		c := token.SkipSpace(s, cursor)
		if c >= len(s) || (s[c] != '+' && s[c] != '-') {
			return left, cursor, nil
		}
		op := s[c]
		right, next, err := e.parseMulDiv(s, c+1)
		if err != nil {
			return value.Value{}, next, err
		}
		left, err = addOrSub(left, op, right)
		if err != nil {
			return value.Value{}, next, err
		}
		cursor = next
	}
}

func (e *Evaluator) parseMulDiv(s string, cursor int) (value.Value, int, error) {
	left, cursor, err := e.parsePower(s, cursor)
	if err != nil {
		return value.Value{}, cursor, err
	}
	for {
		c := token.SkipSpace(s, cursor)
		if c >= len(s) || (s[c] != '*' && s[c] != '/') {
			return left, cursor, nil
		}
		op := s[c]
		right, next, err := e.parsePower(s, c+1)
		if err != nil {
			return value.Value{}, next, err
		}
		ln, err := left.AsNumber()
		if err != nil {
			return value.Value{}, next, err
		}
		rn, err := right.AsNumber()
		if err != nil {
			return value.Value{}, next, err
		}
		if op == '*' {
			left = value.Num(ln * rn)
		} else {
			left = value.Num(ln / rn) // division by zero follows IEEE-754 (spec.md §4.3)
		}
		cursor = next
	}
}

// parsePower is right-associative: 2^3^2 = 2^(3^2) (spec.md §4.3).
func (e *Evaluator) parsePower(s string, cursor int) (value.Value, int, error) {
	left, cursor, err := e.parseFactor(s, cursor)
	if err != nil {
		return value.Value{}, cursor, err
	}
	c := token.SkipSpace(s, cursor)
	if c >= len(s) || s[c] != '^' {
		return left, cursor, nil
	}
	right, next, err := e.parsePower(s, c+1)
	if err != nil {
		return value.Value{}, next, err
	}
	ln, err := left.AsNumber()
	if err != nil {
		return value.Value{}, next, err
	}
	rn, err := right.AsNumber()
	if err != nil {
		return value.Value{}, next, err
	}
	return value.Num(math.Pow(ln, rn)), next, nil
}

func (e *Evaluator) parseFactor(s string, cursor int) (value.Value, int, error) {
	cursor = token.SkipSpace(s, cursor)
	if cursor >= len(s) {
		return value.Value{}, cursor, fmt.Errorf("Syntax error in expression")
	}

	switch s[cursor] {
	case '(':
		inner, next, err := e.parseOr(s, cursor+1)
		if err != nil {
			return value.Value{}, next, err
		}
		next = token.SkipSpace(s, next)
		if next >= len(s) || s[next] != ')' {
			return value.Value{}, next, fmt.Errorf("Missing ')'")
		}
		return inner, next + 1, nil

	case '"':
		return e.parseStringLiteral(s, cursor)

	case '+', '-':
		sign := s[cursor]
		operand, next, err := e.parseFactor(s, cursor+1)
		if err != nil {
			return value.Value{}, next, err
		}
		n, err := operand.AsNumber()
		if err != nil {
			return value.Value{}, next, err
		}
		if sign == '-' {
			n = -n
		}
		return value.Num(n), next, nil
	}

	if n, next, ok := token.ReadNumber(s, cursor); ok {
		return value.Num(n), next, nil
	}

	if id, next, ok := token.ReadIdentifier(s, cursor); ok {
		return e.parseIdentifier(s, next, id)
	}

	return value.Value{}, cursor, fmt.Errorf("Syntax error in expression")
}

func (e *Evaluator) parseStringLiteral(s string, cursor int) (value.Value, int, error) {
	i := cursor + 1
	for i < len(s) && s[i] != '"' {
		i++
	}
	if i >= len(s) {
		return value.Value{}, i, fmt.Errorf("Unterminated string")
	}
	return value.Str(s[cursor+1 : i]), i + 1, nil
}

// functionName spells out the intrinsic name for a scanned identifier,
// e.g. an identifier read as Text="LEFT", IsString=true becomes "LEFT$".
func functionName(id token.Identifier) string {
	if id.IsString {
		return id.Text + "$"
	}
	return id.Text
}

func (e *Evaluator) parseIdentifier(s string, cursor int, id token.Identifier) (value.Value, int, error) {
	name := functionName(id)
	if e.Funcs != nil && e.Funcs.IsFunction(name) {
		return e.parseFunctionCall(s, cursor, name)
	}

	key := vars.KeyOf(id)
	c := token.SkipSpace(s, cursor)
	if c < len(s) && s[c] == '(' {
		sub, next, err := e.parseOr(s, c+1)
		if err != nil {
			return value.Value{}, next, err
		}
		next = token.SkipSpace(s, next)
		if next >= len(s) || s[next] != ')' {
			return value.Value{}, next, fmt.Errorf("Missing ')'")
		}
		v, err := e.Vars.GetArrayElement(key, sub)
		if err != nil {
			return value.Value{}, next + 1, err
		}
		return v, next + 1, nil
	}

	v, err := e.Vars.Get(key)
	if err != nil {
		return value.Value{}, cursor, err
	}
	return v, cursor, nil
}

func (e *Evaluator) parseFunctionCall(s string, cursor int, name string) (value.Value, int, error) {
	c := token.SkipSpace(s, cursor)
	if c >= len(s) || s[c] != '(' {
		return value.Value{}, c, fmt.Errorf("Function requires '('")
	}
	c++

	var args []value.Value
	c = token.SkipSpace(s, c)
	if c < len(s) && s[c] == ')' {
		c++
	} else {
		for {
			arg, next, err := e.parseOr(s, c)
			if err != nil {
				return value.Value{}, next, err
			}
			args = append(args, arg)
			c = token.SkipSpace(s, next)
			if c < len(s) && s[c] == ',' {
				c++
				continue
			}
			if c < len(s) && s[c] == ')' {
				c++
				break
			}
			return value.Value{}, c, fmt.Errorf("Missing ')'")
		}
	}

	result, err := e.Funcs.Call(name, args)
	if err != nil {
		return value.Value{}, c, err
	}
	return result, c, nil
}

func matchOneOf(s string, cursor int, ops []string) string {
	for _, op := range ops {
		if cursor+len(op) <= len(s) && s[cursor:cursor+len(op)] == op {
			return op
		}
	}
	return ""
}

func truncToInt64(f float64) int64 { return int64(f) }

func bitwise(left, right value.Value, op func(a, b int64) int64) (value.Value, error) {
	ln, err := left.AsNumber()
	if err != nil {
		return value.Value{}, err
	}
	rn, err := right.AsNumber()
	if err != nil {
		return value.Value{}, err
	}
	return value.Num(float64(op(truncToInt64(ln), truncToInt64(rn)))), nil
}

func compareValues(left value.Value, op string, right value.Value) (value.Value, error) {
	if left.IsString() || right.IsString() {
		ls, err := left.AsString()
		if err != nil {
			return value.Value{}, err
		}
		rs, err := right.AsString()
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(compareStrings(ls, op, rs)), nil
	}
	ln, err := left.AsNumber()
	if err != nil {
		return value.Value{}, err
	}
	rn, err := right.AsNumber()
	if err != nil {
		return value.Value{}, err
	}
	return value.Bool(compareNumbers(ln, op, rn)), nil
}

func compareNumbers(l float64, op string, r float64) bool {
	switch op {
	case "=":
		return l == r
	case "<>":
		return l != r
	case "<":
		return l < r
	case ">":
		return l > r
	case "<=":
		return l <= r
	case ">=":
		return l >= r
	}
	return false
}

func compareStrings(l string, op string, r string) bool {
	cmp := strings.Compare(l, r)
	switch op {
	case "=":
		return cmp == 0
	case "<>":
		return cmp != 0
	case "<":
		return cmp < 0
	case ">":
		return cmp > 0
	case "<=":
		return cmp <= 0
	case ">=":
		return cmp >= 0
	}
	return false
}

func addOrSub(left value.Value, op byte, right value.Value) (value.Value, error) {
	if op == '+' && (left.IsString() || right.IsString()) {
		ls, err := left.AsString()
		if err != nil {
			return value.Value{}, err
		}
		rs, err := right.AsString()
		if err != nil {
			return value.Value{}, err
		}
		return value.Str(ls + rs), nil
	}
	ln, err := left.AsNumber()
	if err != nil {
		return value.Value{}, err
	}
	rn, err := right.AsNumber()
	if err != nil {
		return value.Value{}, err
	}
	if op == '+' {
		return value.Num(ln + rn), nil
	}
	return value.Num(ln - rn), nil
}
