// Package vars implements the BASIC variable and array store: a
// fixed-capacity table keyed by (letter1, letter2, is_string), where each
// entry holds both a scalar slot and an optional growable array slot
// (spec.md §3, §4.4).
package vars

import (
	"fmt"
	"math"

	"github.com/cwbudde/go-cbm/internal/token"
	"github.com/cwbudde/go-cbm/internal/value"
)

// MaxVariables bounds the table's capacity (spec.md §3: "fixed
// capacity"). 512 comfortably covers any CBM BASIC v2 program's variable
// footprint across both namespaces.
const MaxVariables = 512

// MinArraySize is the default allocation for a freshly-used array: the
// first subscript i allocates max(i+1, 11) elements (spec.md §3, §4.4).
const MinArraySize = 11

// Key identifies a variable: two uppercase-letter characters (the second
// is ' ' for a one-letter name) plus the string/numeric namespace bit.
type Key struct {
	Letter1  byte
	Letter2  byte
	IsString bool
}

// KeyOf derives a Key from a scanned identifier.
func KeyOf(id token.Identifier) Key {
	return Key{Letter1: id.Letter1, Letter2: id.Letter2, IsString: id.IsString}
}

// String renders the key the way BASIC source would spell it, e.g. "A$"
// or "I".
func (k Key) String() string {
	s := string(k.Letter1)
	if k.Letter2 != ' ' {
		s += string(k.Letter2)
	}
	if k.IsString {
		s += "$"
	}
	return s
}

// entry holds a variable's scalar and array slots. Either or both may be
// in use; they never conflict (spec.md §3: "A may refer to A and A(3) in
// the same run; they are unrelated").
type entry struct {
	kind    value.Kind
	scalar  value.Value
	array   []value.Value
	hasSclr bool
}

// Table is the fixed-capacity variable/array store.
type Table struct {
	entries map[Key]*entry
}

// New creates an empty variable table.
func New() *Table {
	return &Table{entries: make(map[Key]*entry)}
}

func (t *Table) get(key Key) (*entry, error) {
	if e, ok := t.entries[key]; ok {
		return e, nil
	}
	if len(t.entries) >= MaxVariables {
		return nil, fmt.Errorf("Variable table full")
	}
	e := &entry{kind: kindOf(key)}
	t.entries[key] = e
	return e, nil
}

func kindOf(key Key) value.Kind {
	if key.IsString {
		return value.String
	}
	return value.Number
}

// Get returns the current value of a scalar variable, creating it (as the
// zero value of its kind) on first reference.
func (t *Table) Get(key Key) (value.Value, error) {
	e, err := t.get(key)
	if err != nil {
		return value.Value{}, err
	}
	if !e.hasSclr {
		e.scalar = value.Zero(e.kind)
		e.hasSclr = true
	}
	return e.scalar, nil
}

// Set assigns a scalar variable's value. The value's kind must match the
// key's namespace; callers are expected to have already produced a value
// of the right kind (the interpreter's LET checks this, spec.md §4.2).
func (t *Table) Set(key Key, v value.Value) error {
	e, err := t.get(key)
	if err != nil {
		return err
	}
	e.scalar = v
	e.hasSclr = true
	return nil
}

// subscriptIndex coerces a raw subscript expression result to a
// non-negative integer index, tolerating floating-point rounding via
// floor(x + 0.00001) (spec.md §4.4).
func subscriptIndex(v value.Value) (int, error) {
	n, err := v.AsNumber()
	if err != nil {
		return 0, err
	}
	idx := int(math.Floor(n + 0.00001))
	if idx < 0 {
		return 0, fmt.Errorf("Negative array index")
	}
	return idx, nil
}

// GetArrayElement returns the array element at subscript (coerced per
// subscriptIndex), allocating or growing the backing array as needed
// (spec.md §4.4 step 3).
func (t *Table) GetArrayElement(key Key, subscript value.Value) (value.Value, error) {
	idx, err := subscriptIndex(subscript)
	if err != nil {
		return value.Value{}, err
	}
	e, err := t.get(key)
	if err != nil {
		return value.Value{}, err
	}
	t.growArray(e, idx)
	return e.array[idx], nil
}

// SetArrayElement assigns the array element at subscript, growing the
// backing array as needed.
func (t *Table) SetArrayElement(key Key, subscript, v value.Value) error {
	idx, err := subscriptIndex(subscript)
	if err != nil {
		return err
	}
	e, err := t.get(key)
	if err != nil {
		return err
	}
	t.growArray(e, idx)
	e.array[idx] = v
	return nil
}

// growArray ensures e.array has at least idx+1 elements, allocating
// max(idx+1, MinArraySize) slots on first use and zero-filling any new
// tail elements on later growth (spec.md §3, §4.4).
func (t *Table) growArray(e *entry, idx int) {
	if e.array == nil {
		size := idx + 1
		if size < MinArraySize {
			size = MinArraySize
		}
		e.array = make([]value.Value, size)
		zero := value.Zero(e.kind)
		for i := range e.array {
			e.array[i] = zero
		}
		return
	}
	if idx >= len(e.array) {
		grown := make([]value.Value, idx+1)
		copy(grown, e.array)
		zero := value.Zero(e.kind)
		for i := len(e.array); i <= idx; i++ {
			grown[i] = zero
		}
		e.array = grown
	}
}

// Dim ensures an array has at least size+1 elements, per the DIM
// statement (spec.md §4.5): a first allocation still gets at least
// MinArraySize slots, and an array that is already larger is not shrunk.
// size must be non-negative.
func (t *Table) Dim(key Key, size int) error {
	if size < 0 {
		return fmt.Errorf("Invalid array size")
	}
	e, err := t.get(key)
	if err != nil {
		return err
	}
	t.growArray(e, size)
	return nil
}
