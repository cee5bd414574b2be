package vars_test

import (
	"testing"

	"github.com/cwbudde/go-cbm/internal/value"
	"github.com/cwbudde/go-cbm/internal/vars"
)

func TestScalarCreatedLazily(t *testing.T) {
	tbl := vars.New()
	key := vars.Key{Letter1: 'A'}
	v, err := tbl.Get(key)
	if err != nil || v.NumUnchecked() != 0 {
		t.Fatalf("fresh numeric variable should default to 0, got %v err=%v", v, err)
	}
}

func TestScalarAndArrayAreIndependent(t *testing.T) {
	tbl := vars.New()
	key := vars.Key{Letter1: 'A'}
	if err := tbl.Set(key, value.Num(42)); err != nil {
		t.Fatal(err)
	}
	if err := tbl.SetArrayElement(key, value.Num(3), value.Num(7)); err != nil {
		t.Fatal(err)
	}
	scalar, _ := tbl.Get(key)
	elem, _ := tbl.GetArrayElement(key, value.Num(3))
	if scalar.NumUnchecked() != 42 || elem.NumUnchecked() != 7 {
		t.Fatalf("A and A(3) must be independent: scalar=%v elem=%v", scalar, elem)
	}
}

func TestArrayDefaultSizeEleven(t *testing.T) {
	tbl := vars.New()
	key := vars.Key{Letter1: 'A'}
	if _, err := tbl.GetArrayElement(key, value.Num(0)); err != nil {
		t.Fatal(err)
	}
	if _, err := tbl.GetArrayElement(key, value.Num(10)); err != nil {
		t.Fatalf("subscript 10 on a freshly-used-at-0 array should succeed: %v", err)
	}
}

func TestArrayGrowsAndZeroFills(t *testing.T) {
	tbl := vars.New()
	key := vars.Key{Letter1: 'A'}
	if err := tbl.SetArrayElement(key, value.Num(2), value.Num(99)); err != nil {
		t.Fatal(err)
	}
	if err := tbl.SetArrayElement(key, value.Num(100), value.Num(1)); err != nil {
		t.Fatalf("growth to 100 should succeed: %v", err)
	}
	v2, _ := tbl.GetArrayElement(key, value.Num(2))
	if v2.NumUnchecked() != 99 {
		t.Fatalf("existing element should survive growth, got %v", v2)
	}
	v50, _ := tbl.GetArrayElement(key, value.Num(50))
	if v50.NumUnchecked() != 0 {
		t.Fatalf("new tail elements should zero-fill, got %v", v50)
	}
}

func TestNegativeSubscriptErrors(t *testing.T) {
	tbl := vars.New()
	key := vars.Key{Letter1: 'A'}
	if _, err := tbl.GetArrayElement(key, value.Num(-1)); err == nil {
		t.Fatalf("expected negative subscript error")
	}
}

func TestSubscriptRoundingTolerance(t *testing.T) {
	tbl := vars.New()
	key := vars.Key{Letter1: 'A'}
	// 2.9999999 should floor to 3 after the 0.00001 tolerance nudge is
	// applied, not be truncated down to 2 by rounding noise.
	if err := tbl.SetArrayElement(key, value.Num(2.9999999), value.Num(5)); err != nil {
		t.Fatal(err)
	}
	v, _ := tbl.GetArrayElement(key, value.Num(3))
	if v.NumUnchecked() != 5 {
		t.Fatalf("expected index 3 to hold 5, got %v", v)
	}
}

func TestVariableTableFull(t *testing.T) {
	tbl := vars.New()
	hit := false
	for l1 := byte('A'); l1 <= 'Z' && !hit; l1++ {
		for l2 := byte('A'); l2 <= 'Z'; l2++ {
			for _, isStr := range []bool{false, true} {
				if err := tbl.Set(vars.Key{Letter1: l1, Letter2: l2, IsString: isStr}, value.Num(0)); err != nil {
					hit = true
					break
				}
			}
			if hit {
				break
			}
		}
	}
	if !hit {
		t.Fatalf("expected Variable table full error within 26*26*2 = 1352 distinct keys (cap is %d)", vars.MaxVariables)
	}
}

func TestDimInvalidSize(t *testing.T) {
	tbl := vars.New()
	key := vars.Key{Letter1: 'A'}
	if err := tbl.Dim(key, -1); err == nil {
		t.Fatalf("expected invalid array size error")
	}
}
