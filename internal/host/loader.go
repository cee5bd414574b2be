package host

import (
	"os"
	"strings"

	"github.com/cwbudde/go-cbm/internal/errors"
	"github.com/cwbudde/go-cbm/internal/token"
)

// Profile selects the line-buffer size a loaded program is held to,
// mirroring the two real CBM BASIC ROM configurations (spec.md §6,
// "--profile=classic|optimised").
type Profile int

const (
	// ProfileOptimised is the default: a 128-character input buffer, as
	// used by later ROM revisions.
	ProfileOptimised Profile = iota
	// ProfileClassic reproduces the original 256-character buffer.
	ProfileClassic
)

// MaxLineLen reports the profile's line-length limit.
func (p Profile) MaxLineLen() int {
	if p == ProfileClassic {
		return 256
	}
	return 128
}

// RawLine is one parsed (number, text) pair read from a program file,
// ready for internal/program.Store.Add.
type RawLine struct {
	Number int
	Text   string
}

// Loader reads a BASIC program file into RawLines.
type Loader struct {
	Profile Profile
}

// NewLoader creates a Loader enforcing the given profile's line-length
// limit.
func NewLoader(profile Profile) *Loader {
	return &Loader{Profile: profile}
}

// LoadFile reads and parses the program at path.
func (l *Loader) LoadFile(path string) ([]RawLine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.Parse(string(data), path)
}

// Parse splits source into RawLines: each non-blank source line must
// begin with a line number, optionally followed by whitespace and
// statement text (spec.md §6). Blank lines are skipped; a UTF-8 BOM on
// the first line is stripped.
func (l *Loader) Parse(source, file string) ([]RawLine, error) {
	source = strings.TrimPrefix(source, "\xef\xbb\xbf")
	maxLen := l.Profile.MaxLineLen()

	var out []RawLine
	for i, raw := range strings.Split(source, "\n") {
		raw = strings.TrimRight(raw, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if len(raw) > maxLen {
			pos := token.Position{Line: i + 1, Column: maxLen + 1}
			return nil, errors.NewLoadError(pos, "line too long", source, file)
		}

		cursor := token.SkipSpace(raw, 0)
		num, next, ok := token.ReadNumber(raw, cursor)
		if !ok || num < 0 {
			pos := token.Position{Line: i + 1, Column: cursor + 1}
			return nil, errors.NewLoadError(pos, "line must begin with a line number", source, file)
		}
		text := strings.TrimLeft(raw[next:], " \t")
		out = append(out, RawLine{Number: int(num), Text: text})
	}
	return out, nil
}
