package services

import (
	"math"
	"testing"
)

func TestCeilingToSignificance(t *testing.T) {
	tests := []struct {
		name         string
		x            float64
		significance float64
		expect       float64
	}{
		{"binary drift absorbed", 3.0000000000004, 1, 3},
		{"rounds up to whole", 2.1, 1, 3},
		{"rounds up to tenth", 2.11, 0.1, 2.2},
		{"rounds up to cent", 1.234, 0.01, 1.24},
		{"already a multiple", 10, 0.5, 10},
		{"zero", 0, 1, 0},
		{"zero significance is identity", 5.4321, 0, 5.4321},
		{"landed cost to cent", 99000 * 1 * 1.08 / 1, 0.01, 106920},
		{"selling price to whole", 106920 / 0.7, 1, 152743},
		{"coarse significance", 12, 5, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CeilingToSignificance(tt.x, tt.significance)
			if math.Abs(got-tt.expect) > 1e-9 {
				t.Errorf("CeilingToSignificance(%v, %v) = %v, want %v",
					tt.x, tt.significance, got, tt.expect)
			}
		})
	}
}

func TestCeilingToSignificance_NonFinitePassThrough(t *testing.T) {
	if got := CeilingToSignificance(math.Inf(1), 1); !math.IsInf(got, 1) {
		t.Errorf("expected +Inf to pass through, got %v", got)
	}
	if got := CeilingToSignificance(math.NaN(), 1); !math.IsNaN(got) {
		t.Errorf("expected NaN to pass through, got %v", got)
	}
}

func TestCeilingToSignificance_Properties(t *testing.T) {
	xs := []float64{0.001, 0.3, 1, 2.5, 3.0000000000004, 17.17, 99.999, 103.0927835, 106920.00000000001, 152742.857142857}
	sigs := []float64{0.01, 0.1, 1, 5}

	for _, s := range sigs {
		for _, x := range xs {
			once := CeilingToSignificance(x, s)
			twice := CeilingToSignificance(once, s)

			if math.Abs(once-twice) > 1e-9 {
				t.Errorf("not idempotent for x=%v s=%v: %v then %v", x, s, once, twice)
			}
			if once < x-1e-9 {
				t.Errorf("result below input for x=%v s=%v: %v", x, s, once)
			}
			q := once / s
			if math.Abs(q-math.Round(q)) > 1e-6 {
				t.Errorf("result %v is not a multiple of %v", once, s)
			}
		}
	}
}
