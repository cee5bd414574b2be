package value_test

import (
	"math"
	"strings"
	"testing"

	"github.com/cwbudde/go-cbm/internal/value"
)

func TestBoolEncoding(t *testing.T) {
	if got, _ := value.Bool(true).AsNumber(); got != -1 {
		t.Fatalf("true = %v, want -1", got)
	}
	if got, _ := value.Bool(false).AsNumber(); got != 0 {
		t.Fatalf("false = %v, want 0", got)
	}
}

func TestCoercionErrors(t *testing.T) {
	if _, err := value.Str("x").AsNumber(); err == nil {
		t.Fatalf("expected error coercing string to number")
	}
	if _, err := value.Num(1).AsString(); err == nil {
		t.Fatalf("expected error coercing number to string")
	}
}

func TestStringTruncation(t *testing.T) {
	s := value.Str(strings.Repeat("A", 1000))
	str, _ := s.AsString()
	if len(str) != value.MaxStringLen-1 {
		t.Fatalf("len = %d, want %d", len(str), value.MaxStringLen-1)
	}
}

func TestTruthy(t *testing.T) {
	if value.Num(0).Truthy() {
		t.Fatalf("0 should be falsy")
	}
	if !value.Num(-1).Truthy() {
		t.Fatalf("-1 should be truthy")
	}
	if value.Str("").Truthy() {
		t.Fatalf("empty string should be falsy")
	}
	if !value.Str("x").Truthy() {
		t.Fatalf("non-empty string should be truthy")
	}
}

func TestFormatNumber(t *testing.T) {
	if value.FormatNumber(math.Copysign(0, -1)) != "0" {
		t.Fatalf("negative zero should print as 0")
	}
	if value.FormatNumber(3) != "3" {
		t.Fatalf("integral float should print without decimal point")
	}
}
