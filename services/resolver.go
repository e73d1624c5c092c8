package services

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Fallbacks used when a cost driver is blank or unreadable.
const (
	DefaultFob           = 0
	DefaultForex         = 1
	DefaultTaxMultiplier = 1
	DefaultOpAdjustment  = 0.97
)

// ItemInputs are the raw inputs of one catalog item or BQ line.
type ItemInputs struct {
	Fob           float64
	Forex         float64
	TaxMultiplier float64
	OpAdjustment  float64

	Cost               PriceField
	SellingPrice       PriceField
	RetailSellingPrice PriceField
}

// Resolution holds the derived fields after running the chain.
type Resolution struct {
	Cost               PriceField
	SellingPrice       PriceField
	RetailSellingPrice PriceField
	Price              float64

	// UnknownStrategies lists ids that had no registered formula and
	// resolved to 0.
	UnknownStrategies []StrategyID
}

// ParseNumber converts v to a finite float64. It reports false for nil,
// blank strings, unparsable values, NaN and infinities.
func ParseNumber(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		v = s
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// CoerceNumber is ParseNumber with a fallback.
func CoerceNumber(v any, def float64) float64 {
	if f, ok := ParseNumber(v); ok {
		return f
	}
	return def
}

func finiteOr(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// NormalizeInputs replaces non-finite drivers with their defaults. The
// operational adjustment is a divisor, so zero and negative values fall
// back as well.
func NormalizeInputs(in ItemInputs) ItemInputs {
	out := in
	out.Fob = finiteOr(in.Fob, DefaultFob)
	out.Forex = finiteOr(in.Forex, DefaultForex)
	out.TaxMultiplier = finiteOr(in.TaxMultiplier, DefaultTaxMultiplier)
	out.OpAdjustment = finiteOr(in.OpAdjustment, DefaultOpAdjustment)
	if out.OpAdjustment <= 0 {
		out.OpAdjustment = DefaultOpAdjustment
	}
	return out
}

// Resolve recomputes cost, selling price and retail selling price in that
// order. It has no side effects; repeated calls on the same inputs return
// identical results.
func Resolve(in ItemInputs) Resolution {
	in = NormalizeInputs(in)
	var unknown []StrategyID

	cost := resolveField(in.Cost, CostStrategies, CostInput{
		Fob:           in.Fob,
		Forex:         in.Forex,
		TaxMultiplier: in.TaxMultiplier,
		OpAdjustment:  in.OpAdjustment,
	}, &unknown)
	selling := resolveField(in.SellingPrice, SellingStrategies, SellingInput{Cost: cost.Value}, &unknown)
	retail := resolveField(in.RetailSellingPrice, RetailStrategies, RetailInput{SellingPrice: selling.Value}, &unknown)

	return Resolution{
		Cost:               cost,
		SellingPrice:       selling,
		RetailSellingPrice: retail,
		Price:              retail.Value,
		UnknownStrategies:  unknown,
	}
}

func resolveField[In any](field PriceField, reg Registry[In], in In, unknown *[]StrategyID) PriceField {
	out := field.Clone()
	if out.Strategy == "" {
		out.Strategy = Manual
	}
	if out.Strategy == Manual {
		out.Value = out.Override()
		return out
	}
	s, ok := reg.Lookup(out.Strategy)
	if !ok {
		*unknown = append(*unknown, out.Strategy)
		out.Value = 0
		return out
	}
	out.Value = s.Calculate(in)
	return out
}
