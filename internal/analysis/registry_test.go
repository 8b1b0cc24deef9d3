package analysis

import (
	"math"
	"reflect"
	"testing"
)

func TestRegistry_BuiltIns(t *testing.T) {
	r := NewRegistry()

	want := []string{"max", "mean", "median", "min", "stddev", "sum"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names = %v, want %v", got, want)
	}

	values := []float64{1, 2, 3, 4}
	tests := map[string]float64{
		"mean":   2.5,
		"median": 2.5,
		"min":    1,
		"max":    4,
		"sum":    10,
	}
	for name, wantV := range tests {
		got, err := r.Compute(name, values)
		if err != nil {
			t.Errorf("Compute(%s) failed: %v", name, err)
			continue
		}
		if math.Abs(got-wantV) > 1e-9 {
			t.Errorf("Compute(%s) = %v, want %v", name, got, wantV)
		}
	}
}

func TestRegistry_CustomStatistic(t *testing.T) {
	r := NewRegistry()
	r.Register("range", func(v []float64) (float64, error) {
		lo, hi := v[0], v[0]
		for _, x := range v[1:] {
			if x < lo {
				lo = x
			}
			if x > hi {
				hi = x
			}
		}
		return hi - lo, nil
	})

	got, err := r.Compute("range", []float64{3, 9, 1})
	if err != nil {
		t.Fatalf("Compute(range) failed: %v", err)
	}
	if got != 8 {
		t.Errorf("range = %v, want 8", got)
	}
}

func TestRegistry_UnknownStatistic(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Compute("mode", []float64{1}); err == nil {
		t.Error("expected error for unknown statistic")
	}
}
