package services

import (
	"math"
	"testing"
)

func TestCalcLineTotal(t *testing.T) {
	tests := []struct {
		price, qty, expect float64
	}{
		{152743, 2, 305486},
		{99.5, 0.5, 49.75},
		{100, 0, 0},
	}
	for _, tt := range tests {
		if got := CalcLineTotal(tt.price, tt.qty); math.Abs(got-tt.expect) > 0.001 {
			t.Errorf("CalcLineTotal(%v, %v) = %v, want %v", tt.price, tt.qty, got, tt.expect)
		}
	}
}

func TestCalcQuoteTotals(t *testing.T) {
	lines := []LineForTotals{
		{Qty: 2, Price: 500, UnitCost: 300},
		{Qty: 1, Price: 1000, UnitCost: 600},
		{Qty: 3, Price: 100, UnitCost: 50, Optional: true},
	}

	tests := []struct {
		name     string
		discount float64
		want     QuoteTotals
	}{
		{
			name:     "ten percent discount",
			discount: 10,
			want: QuoteTotals{
				Subtotal: 2000, OptionalTotal: 300, Discount: 200,
				GrandTotal: 1800, TotalCost: 1200, Margin: 600, MarginPercent: 33.333,
			},
		},
		{
			name:     "no discount",
			discount: 0,
			want: QuoteTotals{
				Subtotal: 2000, OptionalTotal: 300, Discount: 0,
				GrandTotal: 2000, TotalCost: 1200, Margin: 800, MarginPercent: 40,
			},
		},
		{
			name:     "discount clamped to 100",
			discount: 150,
			want: QuoteTotals{
				Subtotal: 2000, OptionalTotal: 300, Discount: 2000,
				GrandTotal: 0, TotalCost: 1200, Margin: -1200, MarginPercent: 0,
			},
		},
		{
			name:     "negative discount ignored",
			discount: -5,
			want: QuoteTotals{
				Subtotal: 2000, OptionalTotal: 300, Discount: 0,
				GrandTotal: 2000, TotalCost: 1200, Margin: 800, MarginPercent: 40,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalcQuoteTotals(lines, tt.discount)
			checks := []struct {
				field     string
				got, want float64
			}{
				{"Subtotal", got.Subtotal, tt.want.Subtotal},
				{"OptionalTotal", got.OptionalTotal, tt.want.OptionalTotal},
				{"Discount", got.Discount, tt.want.Discount},
				{"GrandTotal", got.GrandTotal, tt.want.GrandTotal},
				{"TotalCost", got.TotalCost, tt.want.TotalCost},
				{"Margin", got.Margin, tt.want.Margin},
				{"MarginPercent", got.MarginPercent, tt.want.MarginPercent},
			}
			for _, c := range checks {
				if math.Abs(c.got-c.want) > 0.001 {
					t.Errorf("%s = %v, want %v", c.field, c.got, c.want)
				}
			}
		})
	}
}

func TestCalcQuoteTotals_Empty(t *testing.T) {
	got := CalcQuoteTotals(nil, 10)
	if got != (QuoteTotals{}) {
		t.Errorf("expected zero totals, got %+v", got)
	}
}
