package sparse

import (
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestMatrixSetAndGet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.automaton")
	defer teardown()
	//
	M := NewIntMatrix(10, 10, -1)
	M.Set(2, 3, 4711)
	M.Set(0, 9, 1)
	M.Set(9, 0, 2)
	if v := M.Value(2, 3); v != 4711 {
		t.Errorf("expected M(2,3) to be 4711, is %d", v)
	}
	if v := M.Value(5, 5); v != M.NullValue() {
		t.Errorf("expected M(5,5) to be null, is %d", v)
	}
	if M.ValueCount() != 3 {
		t.Errorf("expected 3 values, have %d", M.ValueCount())
	}
	tracing.Select("lalr.automaton").Debugf("M = %v", M.values)
}

func TestMatrixPairs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.automaton")
	defer teardown()
	//
	M := NewIntMatrix(4, 4, DefaultNullValue)
	M.Add(1, 1, -1)
	M.Add(1, 1, 7)
	a, b := M.Values(1, 1)
	if a != -1 || b != 7 {
		t.Errorf("expected pair (-1,7), have (%d,%d)", a, b)
	}
	M.Set(1, 1, 3)
	a, b = M.Values(1, 1)
	if a != 3 || b != M.NullValue() {
		t.Errorf("expected single value 3 after Set, have (%d,%d)", a, b)
	}
	if M.ValueCount() != 1 {
		t.Errorf("expected 1 position, have %d", M.ValueCount())
	}
}

func TestMatrixIteratesInOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.automaton")
	defer teardown()
	//
	M := NewIntMatrix(5, 5, -1)
	M.Set(3, 1, 31)
	M.Set(0, 4, 4)
	M.Set(3, 0, 30)
	M.Set(1, 2, 12)
	var got []int32
	M.EachValue(func(i, j int, a, b int32) {
		got = append(got, a)
	})
	want := []int32{4, 12, 30, 31}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, have %d", len(want), len(got))
	}
	for k := range want {
		if got[k] != want[k] {
			t.Errorf("value #%d: expected %d, have %d", k, want[k], got[k])
		}
	}
}

func TestMatrixPanicsOutOfRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.automaton")
	defer teardown()
	//
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic for index out of range")
		}
	}()
	NewIntMatrix(2, 2, -1).Set(2, 0, 1)
}
