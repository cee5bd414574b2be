package program_test

import (
	"testing"

	"github.com/cwbudde/go-cbm/internal/program"
)

func TestSortedAfterOutOfOrderLoad(t *testing.T) {
	s := program.New()
	_ = s.Add(30, "END")
	_ = s.Add(10, "PRINT 1")
	_ = s.Add(20, "PRINT 2")

	prev := -1
	for i := 0; i < s.Len(); i++ {
		if s.At(i).Number <= prev {
			t.Fatalf("lines not strictly increasing at %d", i)
		}
		prev = s.At(i).Number
	}
}

func TestDuplicateReplacesText(t *testing.T) {
	s := program.New()
	_ = s.Add(10, "PRINT 1")
	_ = s.Add(10, "PRINT 2")
	if s.Len() != 1 {
		t.Fatalf("duplicate line number should replace, not append: len=%d", s.Len())
	}
	idx, ok := s.IndexOf(10)
	if !ok || s.At(idx).Text != "PRINT 2" {
		t.Fatalf("expected replaced text PRINT 2, got %+v", s.At(idx))
	}
}

func TestIndexOfMissing(t *testing.T) {
	s := program.New()
	_ = s.Add(10, "END")
	if _, ok := s.IndexOf(999); ok {
		t.Fatalf("expected miss for line 999")
	}
}

func TestLineNumberOutOfRange(t *testing.T) {
	s := program.New()
	if err := s.Add(70000, "END"); err == nil {
		t.Fatalf("expected out-of-range error")
	}
	if err := s.Add(-1, "END"); err == nil {
		t.Fatalf("expected out-of-range error for negative")
	}
}
