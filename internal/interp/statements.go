package interp

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-cbm/internal/token"
	"github.com/cwbudde/go-cbm/internal/value"
	"github.com/cwbudde/go-cbm/internal/vars"
)

// execStatement dispatches the statement keyword at cursor, or falls
// through to implicit LET if none matches (spec.md §4.5). It returns
// whether control jumped elsewhere and, if not, the cursor just past the
// statement.
func (s *State) execStatement(text string, cursor int) (jumped bool, next int, err error) {
	if cursor < len(text) && text[cursor] == '?' {
		n, err := s.execPrint(text, cursor+1)
		return false, n, err
	}
	if cursor < len(text) && text[cursor] == '\'' {
		n, err := execRem(text, cursor)
		return false, n, err
	}

	type handler func(string, int) (int, error)
	keywords := []struct {
		name string
		fn   handler
	}{
		{"PRINT", s.execPrint},
		{"INPUT", s.execInput},
		{"LET", s.execLetKeyword},
		{"DIM", s.execDim},
		{"REM", execRem},
		{"SLEEP", s.execSleep},
		{"STOP", s.execEnd},
		{"END", s.execEnd},
	}

	for _, kw := range keywords {
		if after, ok := token.MatchKeyword(text, cursor, kw.name); ok {
			n, err := kw.fn(text, after)
			return false, n, err
		}
	}

	if after, ok := token.MatchKeyword(text, cursor, "GOTO"); ok {
		return s.execGoto(text, after)
	}
	if after, ok := token.MatchKeyword(text, cursor, "GOSUB"); ok {
		return s.execGosub(text, after)
	}
	if after, ok := token.MatchKeyword(text, cursor, "RETURN"); ok {
		return s.execReturn(text, after)
	}
	if after, ok := token.MatchKeyword(text, cursor, "FOR"); ok {
		return s.execFor(text, after)
	}
	if after, ok := token.MatchKeyword(text, cursor, "NEXT"); ok {
		return s.execNext(text, after)
	}
	if after, ok := token.MatchKeyword(text, cursor, "IF"); ok {
		return s.execIf(text, after)
	}

	n, err := s.execLet(text, cursor)
	return false, n, err
}

func execRem(text string, cursor int) (int, error) {
	return len(text), nil
}

func (s *State) execEnd(text string, cursor int) (int, error) {
	s.Halted = true
	return len(text), nil
}

func (s *State) execSleep(text string, cursor int) (int, error) {
	v, next, err := s.Eval.Eval(text, cursor)
	if err != nil {
		return next, err
	}
	n, err := v.AsNumber()
	if err != nil {
		return next, err
	}
	s.Sleeper.Sleep(int(n))
	return next, nil
}

// execLetKeyword handles "LET var = expr"; execLet handles the implicit
// form with no keyword. Both share the same assignment logic.
func (s *State) execLetKeyword(text string, cursor int) (int, error) {
	return s.execLet(text, cursor)
}

func (s *State) execLet(text string, cursor int) (int, error) {
	id, next, ok := token.ReadIdentifier(text, cursor)
	if !ok {
		return cursor, fmt.Errorf("Unknown statement")
	}
	key := vars.KeyOf(id)
	c := token.SkipSpace(text, next)

	var subscript *value.Value
	if c < len(text) && text[c] == '(' {
		sub, next2, err := s.Eval.Eval(text, c+1)
		if err != nil {
			return next2, err
		}
		next2 = token.SkipSpace(text, next2)
		if next2 >= len(text) || text[next2] != ')' {
			return next2, fmt.Errorf("Missing ')'")
		}
		c = token.SkipSpace(text, next2+1)
		subscript = &sub
	}

	if c >= len(text) || text[c] != '=' {
		return c, fmt.Errorf("Expected '='")
	}
	v, next3, err := s.Eval.Eval(text, c+1)
	if err != nil {
		return next3, err
	}

	var coerced value.Value
	if key.IsString {
		sv, err := v.AsString()
		if err != nil {
			return next3, err
		}
		coerced = value.Str(sv)
	} else {
		nv, err := v.AsNumber()
		if err != nil {
			return next3, err
		}
		coerced = value.Num(nv)
	}

	if subscript != nil {
		if err := s.Vars.SetArrayElement(key, *subscript, coerced); err != nil {
			return next3, err
		}
	} else if err := s.Vars.Set(key, coerced); err != nil {
		return next3, err
	}
	return next3, nil
}

// execPrint implements PRINT's comma/semicolon-separated argument list:
// ',' advances to the next ten-column print zone, ';' runs arguments
// together with no padding, and a trailing separator suppresses the
// closing newline (spec.md §4.5, §9 "plain" PRINT-spacing resolution).
const printZoneWidth = 10

func (s *State) execPrint(text string, cursor int) (int, error) {
	c := cursor
	suppressNewline := false

	for {
		c = token.SkipSpace(text, c)
		if c >= len(text) || text[c] == ':' {
			break
		}
		switch text[c] {
		case ',':
			s.tabToZone()
			c++
			suppressNewline = true
			continue
		case ';':
			c++
			suppressNewline = true
			continue
		}

		v, next, err := s.Eval.Eval(text, c)
		if err != nil {
			return next, err
		}
		s.Term.Write(v.String())
		suppressNewline = false
		c = next
	}

	if !suppressNewline {
		s.Term.Write("\n")
	}
	return c, nil
}

func (s *State) tabToZone() {
	col := s.Term.Column()
	width := s.Term.Width()
	target := ((col / printZoneWidth) + 1) * printZoneWidth
	if width > 0 && target >= width {
		s.Term.Write("\n")
		return
	}
	for s.Term.Column() < target {
		s.Term.Write(" ")
	}
}

// execInput implements INPUT [\"prompt\";] var[,var...]: one line is read
// from the terminal and split on commas across the named variables
// (spec.md §4.5).
func (s *State) execInput(text string, cursor int) (int, error) {
	c := token.SkipSpace(text, cursor)
	prompt := "? "

	if c < len(text) && text[c] == '"' {
		lit, next, err := readStringLiteral(text, c)
		if err != nil {
			return next, err
		}
		next = token.SkipSpace(text, next)
		if next >= len(text) || text[next] != ';' {
			return next, fmt.Errorf("Syntax error in expression")
		}
		prompt = lit
		c = next + 1
	}

	var keys []vars.Key
	for {
		c = token.SkipSpace(text, c)
		id, next, ok := token.ReadIdentifier(text, c)
		if !ok {
			return c, fmt.Errorf("Expected variable")
		}
		keys = append(keys, vars.KeyOf(id))
		c = token.SkipSpace(text, next)
		if c < len(text) && text[c] == ',' {
			c++
			continue
		}
		break
	}

	s.Term.Write(prompt)
	line, err := s.Term.ReadLine()
	if err != nil {
		return c, fmt.Errorf("Unexpected end of input")
	}

	parts := strings.Split(line, ",")
	for i, key := range keys {
		raw := ""
		if i < len(parts) {
			raw = strings.TrimSpace(parts[i])
		}
		if key.IsString {
			if err := s.Vars.Set(key, value.Str(raw)); err != nil {
				return c, err
			}
			continue
		}
		n, _, ok := token.ReadNumber(raw, 0)
		if !ok {
			n = 0
		}
		if err := s.Vars.Set(key, value.Num(n)); err != nil {
			return c, err
		}
	}
	return c, nil
}

func readStringLiteral(s string, cursor int) (string, int, error) {
	i := cursor + 1
	for i < len(s) && s[i] != '"' {
		i++
	}
	if i >= len(s) {
		return "", i, fmt.Errorf("Unterminated string")
	}
	return s[cursor+1 : i], i + 1, nil
}

// execDim implements DIM var(size)[,var(size)...] (spec.md §4.5).
func (s *State) execDim(text string, cursor int) (int, error) {
	c := cursor
	for {
		c = token.SkipSpace(text, c)
		id, next, ok := token.ReadIdentifier(text, c)
		if !ok {
			return c, fmt.Errorf("Syntax error in expression")
		}
		key := vars.KeyOf(id)
		c = token.SkipSpace(text, next)
		if c >= len(text) || text[c] != '(' {
			return c, fmt.Errorf("Syntax error in expression")
		}
		sizeVal, next2, err := s.Eval.Eval(text, c+1)
		if err != nil {
			return next2, err
		}
		next2 = token.SkipSpace(text, next2)
		if next2 >= len(text) || text[next2] != ')' {
			return next2, fmt.Errorf("Missing ')'")
		}
		c = next2 + 1

		n, err := sizeVal.AsNumber()
		if err != nil {
			return c, err
		}
		if err := s.Vars.Dim(key, int(n)); err != nil {
			return c, err
		}

		c = token.SkipSpace(text, c)
		if c < len(text) && text[c] == ',' {
			c++
			continue
		}
		break
	}
	return c, nil
}

// execGoto implements GOTO linenum (spec.md §4.5).
func (s *State) execGoto(text string, cursor int) (bool, int, error) {
	c := token.SkipSpace(text, cursor)
	n, next, ok := token.ReadNumber(text, c)
	if !ok {
		return false, next, fmt.Errorf("Syntax error in expression")
	}
	idx, found := s.Program.IndexOf(int(n))
	if !found {
		return false, next, fmt.Errorf("Target line not found")
	}
	s.LineIndex = idx
	s.Cursor = 0
	return true, next, nil
}

// execGosub implements GOSUB linenum, pushing a Frame that resumes on the
// current line right after the GOSUB's argument (spec.md §4.5, §9).
func (s *State) execGosub(text string, cursor int) (bool, int, error) {
	c := token.SkipSpace(text, cursor)
	n, next, ok := token.ReadNumber(text, c)
	if !ok {
		return false, next, fmt.Errorf("Syntax error in expression")
	}
	idx, found := s.Program.IndexOf(int(n))
	if !found {
		return false, next, fmt.Errorf("Target line not found")
	}
	if len(s.GosubStack) >= MaxGosubDepth {
		return false, next, fmt.Errorf("GOSUB stack overflow")
	}
	s.GosubStack = append(s.GosubStack, Frame{LineIndex: s.LineIndex, Cursor: next})
	s.LineIndex = idx
	s.Cursor = 0
	return true, next, nil
}

// execReturn implements RETURN, resuming at the Frame pushed by the
// matching GOSUB (spec.md §4.5).
func (s *State) execReturn(text string, cursor int) (bool, int, error) {
	if len(s.GosubStack) == 0 {
		return false, cursor, fmt.Errorf("RETURN without GOSUB")
	}
	frame := s.GosubStack[len(s.GosubStack)-1]
	s.GosubStack = s.GosubStack[:len(s.GosubStack)-1]
	s.LineIndex = frame.LineIndex
	s.Cursor = frame.Cursor
	return true, cursor, nil
}

// execIf implements IF expr THEN stmt|linenum (spec.md §4.5, §9). A false
// condition discards the rest of the line outright, not just the current
// ':'-separated statement. A THEN clause that is a bare number is an
// implicit GOTO; otherwise control falls through to the shared statement
// dispatcher so THEN's tail can itself hold ':'-separated statements.
func (s *State) execIf(text string, cursor int) (bool, int, error) {
	cond, next, err := s.Eval.Eval(text, cursor)
	if err != nil {
		return false, next, err
	}
	next = token.SkipSpace(text, next)
	next, ok := token.MatchKeyword(text, next, "THEN")
	if !ok {
		return false, next, fmt.Errorf("Missing THEN")
	}
	next = token.SkipSpace(text, next)

	if !cond.Truthy() {
		return false, len(text), nil
	}

	if next < len(text) && text[next] >= '0' && text[next] <= '9' {
		n, next2, ok := token.ReadNumber(text, next)
		if ok {
			idx, found := s.Program.IndexOf(int(n))
			if !found {
				return false, next2, fmt.Errorf("Target line not found")
			}
			s.LineIndex = idx
			s.Cursor = 0
			return true, next2, nil
		}
	}

	return false, next, nil
}

// execFor implements FOR var = start TO limit [STEP step], pushing a
// ForFrame that NEXT re-resolves by Key on every iteration rather than
// caching a slot reference (spec.md §4.5, §9).
func (s *State) execFor(text string, cursor int) (bool, int, error) {
	c := token.SkipSpace(text, cursor)
	id, next, ok := token.ReadIdentifier(text, c)
	if !ok {
		return false, next, fmt.Errorf("Syntax error in expression")
	}
	if id.IsString {
		return false, next, fmt.Errorf("FOR variable must be numeric")
	}
	key := vars.KeyOf(id)
	c = token.SkipSpace(text, next)
	if c < len(text) && text[c] == '(' {
		return false, c, fmt.Errorf("FOR variable must be scalar")
	}
	if c >= len(text) || text[c] != '=' {
		return false, c, fmt.Errorf("Expected '='")
	}

	startVal, next2, err := s.Eval.Eval(text, c+1)
	if err != nil {
		return false, next2, err
	}
	c = token.SkipSpace(text, next2)
	c, ok = token.MatchKeyword(text, c, "TO")
	if !ok {
		return false, c, fmt.Errorf("Expected TO in FOR")
	}

	limitVal, next3, err := s.Eval.Eval(text, c)
	if err != nil {
		return false, next3, err
	}
	c = token.SkipSpace(text, next3)

	step := 1.0
	if next4, ok := token.MatchKeyword(text, c, "STEP"); ok {
		stepVal, next5, err := s.Eval.Eval(text, next4)
		if err != nil {
			return false, next5, err
		}
		sn, err := stepVal.AsNumber()
		if err != nil {
			return false, next5, err
		}
		step = sn
		c = next5
	}

	startN, err := startVal.AsNumber()
	if err != nil {
		return false, c, err
	}
	limit, err := limitVal.AsNumber()
	if err != nil {
		return false, c, err
	}
	if err := s.Vars.Set(key, value.Num(startN)); err != nil {
		return false, c, err
	}
	if len(s.ForStack) >= MaxForDepth {
		return false, c, fmt.Errorf("FOR stack overflow")
	}
	s.ForStack = append(s.ForStack, ForFrame{
		Key: key, LineIndex: s.LineIndex, Cursor: c, Limit: limit, Step: step,
	})
	return false, c, nil
}

// execNext implements NEXT [var[,var...]]. A bare NEXT closes the
// innermost loop; a named NEXT searches outward for its loop and abandons
// (pops without completing) any more-deeply-nested loops in between
// (spec.md §4.5, §9).
func (s *State) execNext(text string, cursor int) (bool, int, error) {
	c := cursor
	for {
		c = token.SkipSpace(text, c)
		hasName := false
		var key vars.Key
		if id, next, ok := token.ReadIdentifier(text, c); ok {
			key = vars.KeyOf(id)
			hasName = true
			c = next
		}

		jumped, err := s.closeForLoop(hasName, key)
		if err != nil {
			return false, c, err
		}
		if jumped {
			return true, c, nil
		}

		c = token.SkipSpace(text, c)
		if c < len(text) && text[c] == ',' {
			c++
			continue
		}
		break
	}
	return false, c, nil
}

func (s *State) closeForLoop(hasName bool, key vars.Key) (bool, error) {
	idx := len(s.ForStack) - 1
	if hasName {
		idx = -1
		for i := len(s.ForStack) - 1; i >= 0; i-- {
			if s.ForStack[i].Key == key {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return false, fmt.Errorf("NEXT without FOR")
	}

	frame := s.ForStack[idx]
	s.ForStack = s.ForStack[:idx+1] // abandon any more deeply nested loops

	cur, err := s.Vars.Get(frame.Key)
	if err != nil {
		return false, err
	}
	n, err := cur.AsNumber()
	if err != nil {
		return false, err
	}
	val := n + frame.Step
	done := (frame.Step >= 0 && val > frame.Limit) || (frame.Step < 0 && val < frame.Limit)
	if done {
		s.ForStack = s.ForStack[:idx]
		return false, nil
	}

	if err := s.Vars.Set(frame.Key, value.Num(val)); err != nil {
		return false, err
	}
	s.LineIndex = frame.LineIndex
	s.Cursor = frame.Cursor
	return true, nil
}
