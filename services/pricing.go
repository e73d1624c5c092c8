// Package services provides the pricing engine and export helpers for
// bills of quantities.
package services

// CalcLineTotal returns the extended amount of a BQ line.
func CalcLineTotal(price, qty float64) float64 {
	return price * qty
}

// LineForTotals is the slice of a BQ line that totals care about.
type LineForTotals struct {
	Qty      float64
	Price    float64
	UnitCost float64
	Optional bool
}

// QuoteTotals are the figures printed at the foot of a quotation.
type QuoteTotals struct {
	Subtotal      float64 `json:"subtotal"`
	OptionalTotal float64 `json:"optionalTotal"`
	Discount      float64 `json:"discount"`
	GrandTotal    float64 `json:"grandTotal"`
	TotalCost     float64 `json:"totalCost"`
	Margin        float64 `json:"margin"`
	MarginPercent float64 `json:"marginPercent"`
}

// CalcQuoteTotals sums standard lines into the subtotal, keeps optional
// lines apart, applies the discount percentage and derives the margin
// against landed cost.
func CalcQuoteTotals(lines []LineForTotals, discountPercent float64) QuoteTotals {
	var totals QuoteTotals
	for _, l := range lines {
		if l.Optional {
			totals.OptionalTotal += CalcLineTotal(l.Price, l.Qty)
			continue
		}
		totals.Subtotal += CalcLineTotal(l.Price, l.Qty)
		totals.TotalCost += l.UnitCost * l.Qty
	}

	switch {
	case discountPercent < 0:
		discountPercent = 0
	case discountPercent > 100:
		discountPercent = 100
	}
	totals.Discount = totals.Subtotal * discountPercent / 100
	totals.GrandTotal = totals.Subtotal - totals.Discount

	totals.Margin = totals.GrandTotal - totals.TotalCost
	if totals.GrandTotal != 0 {
		totals.MarginPercent = (totals.Margin / totals.GrandTotal) * 100
	}
	return totals
}
