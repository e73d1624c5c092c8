package services

import (
	"fmt"
	"strconv"
)

// StrategyID is the wire name of a pricing strategy.
type StrategyID string

// Manual marks a price field whose value is typed in by the user.
const Manual StrategyID = "MANUAL"

// Cost strategy ids.
const (
	CostRoundCents         StrategyID = "FORMULA_ROUND_0.01"
	CostRoundWhole         StrategyID = "FORMULA_ROUND_1"
	CostRoundCentsPlus30   StrategyID = "FORMULA_ROUND_0.01_PLUS_30"
	CostRoundWholePlus4000 StrategyID = "FORMULA_ROUND_1_PLUS_4000"
)

// CopySelling is the retail strategy that mirrors the selling price.
const CopySelling StrategyID = "COPY_SELLING"

// CostInput is the context handed to cost strategies.
type CostInput struct {
	Fob           float64
	Forex         float64
	TaxMultiplier float64
	OpAdjustment  float64
}

// SellingInput is the context handed to selling-price strategies.
type SellingInput struct {
	Cost float64
}

// RetailInput is the context handed to retail strategies.
type RetailInput struct {
	SellingPrice float64
}

// Strategy computes one price field from its upstream context.
type Strategy[In any] interface {
	ID() StrategyID
	Calculate(in In) float64
}

// Registry is a closed, ordered set of strategies for one price field.
type Registry[In any] struct {
	byID  map[StrategyID]Strategy[In]
	order []StrategyID
}

func newRegistry[In any](strategies ...Strategy[In]) Registry[In] {
	r := Registry[In]{byID: make(map[StrategyID]Strategy[In], len(strategies))}
	for _, s := range strategies {
		r.byID[s.ID()] = s
		r.order = append(r.order, s.ID())
	}
	return r
}

// Lookup returns the strategy registered under id.
func (r Registry[In]) Lookup(id StrategyID) (Strategy[In], bool) {
	s, ok := r.byID[id]
	return s, ok
}

// Has reports whether id is registered.
func (r Registry[In]) Has(id StrategyID) bool {
	_, ok := r.byID[id]
	return ok
}

// IDs lists the registered ids in registration order.
func (r Registry[In]) IDs() []StrategyID {
	out := make([]StrategyID, len(r.order))
	copy(out, r.order)
	return out
}

// manual bypasses the formula entirely; the resolver reads the override.
type manual[In any] struct{}

func (manual[In]) ID() StrategyID       { return Manual }
func (manual[In]) Calculate(In) float64 { return 0 }

type costFormula struct {
	id           StrategyID
	significance float64
	offset       float64
}

func (f costFormula) ID() StrategyID { return f.id }

func (f costFormula) Calculate(in CostInput) float64 {
	base := in.Fob * in.Forex * in.TaxMultiplier / in.OpAdjustment
	return CeilingToSignificance(base, f.significance) + f.offset
}

type sellingFactor struct {
	id           StrategyID
	factor       float64
	significance float64
}

func (f sellingFactor) ID() StrategyID { return f.id }

func (f sellingFactor) Calculate(in SellingInput) float64 {
	return CeilingToSignificance(in.Cost/f.factor, f.significance)
}

type copySelling struct{}

func (copySelling) ID() StrategyID                   { return CopySelling }
func (copySelling) Calculate(in RetailInput) float64 { return in.SellingPrice }

// SellingFactorID builds the id of the selling strategy for a margin factor
// and rounding significance, e.g. FACTOR_0.7_ROUND_1.
func SellingFactorID(factor, significance float64) StrategyID {
	return StrategyID(fmt.Sprintf("FACTOR_%s_ROUND_%s", trimFloat(factor), trimFloat(significance)))
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// sellingSignificances are the rounding steps offered for every factor.
var sellingSignificances = []float64{0.1, 1}

func sellingStrategies() []Strategy[SellingInput] {
	var out []Strategy[SellingInput]
	// Factors run 0.50 → 1.00 in 0.05 steps; built from integers to avoid drift.
	for pct := 50; pct <= 100; pct += 5 {
		factor := float64(pct) / 100
		for _, sig := range sellingSignificances {
			out = append(out, sellingFactor{
				id:           SellingFactorID(factor, sig),
				factor:       factor,
				significance: sig,
			})
		}
	}
	return append(out, manual[SellingInput]{})
}

// CostStrategies holds the first stage of the chain (DDP / landed cost).
var CostStrategies = newRegistry[CostInput](
	costFormula{id: CostRoundCents, significance: 0.01},
	costFormula{id: CostRoundWhole, significance: 1},
	costFormula{id: CostRoundCentsPlus30, significance: 0.01, offset: 30},
	costFormula{id: CostRoundWholePlus4000, significance: 1, offset: 4000},
	manual[CostInput]{},
)

// SellingStrategies holds the second stage (SP from cost).
var SellingStrategies = newRegistry[SellingInput](sellingStrategies()...)

// RetailStrategies holds the third stage (RSP from SP).
var RetailStrategies = newRegistry[RetailInput](
	copySelling{},
	manual[RetailInput]{},
)

// Default strategies for newly created catalog items.
var (
	DefaultCostStrategy    = CostRoundCents
	DefaultSellingStrategy = SellingFactorID(0.7, 1)
	DefaultRetailStrategy  = CopySelling
)
