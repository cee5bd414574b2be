// Package host provides the interpreter's boundary to the outside world:
// a column-tracking terminal for PRINT/INPUT/TAB/POS, a tick-based
// sleeper for the SLEEP statement, and a program loader. Keeping these
// behind small interfaces lets pkg/basic's functional options (WithOutput,
// WithInput, WithSleeper) swap them for tests or embedders.
package host

import (
	"bufio"
	"io"
)

// DefaultWidth is PRINT's line width for column wrapping (spec.md §4.7,
// used by TAB and POS).
const DefaultWidth = 80

// Terminal is a column-tracking line writer/reader: PRINT, INPUT, TAB, and
// POS all go through the same instance so the print column stays
// consistent no matter which statement advanced it.
type Terminal struct {
	w     io.Writer
	r     *bufio.Reader
	col   int
	width int
}

// NewTerminal wraps w/r for output/input, tracking print column against
// width (DefaultWidth if width <= 0).
func NewTerminal(w io.Writer, r io.Reader, width int) *Terminal {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Terminal{w: w, r: bufio.NewReader(r), width: width}
}

// Write emits s and updates the tracked column: a newline resets it to 0,
// any other byte advances it by one, and reaching width injects an
// automatic newline of its own (spec.md §3, §4.5: "print_column lies in
// [0, PRINT_WIDTH)", "Column tracking wraps at the fixed print width").
func (t *Terminal) Write(s string) {
	for i := 0; i < len(s); i++ {
		io.WriteString(t.w, s[i:i+1])
		if s[i] == '\n' {
			t.col = 0
			continue
		}
		t.col++
		if t.col >= t.width {
			io.WriteString(t.w, "\n")
			t.col = 0
		}
	}
}

// WriteLine is Write followed by a newline, the shape every PRINT
// statement ends with unless it trails in ';' or ','.
func (t *Terminal) WriteLine(s string) {
	t.Write(s)
	t.Write("\n")
}

// Column reports the current print column, consulted by POS and TAB.
func (t *Terminal) Column() int { return t.col }

// Width reports the configured line width, consulted by TAB.
func (t *Terminal) Width() int { return t.width }

// ReadLine reads one line from input for INPUT, stripping the
// trailing newline. io.EOF is returned unwrapped so callers can treat it
// as "no more input" distinctly from a read failure.
func (t *Terminal) ReadLine() (string, error) {
	line, err := t.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	if line == "" && err == io.EOF {
		return "", io.EOF
	}
	return line, nil
}
