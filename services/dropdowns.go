package services

// UOMOptions lists the units of measure offered for catalog items.
var UOMOptions = []string{
	"pc",
	"set",
	"lot",
	"unit",
	"m",
	"roll",
	"box",
	"pair",
	"lm",
	"kit",
	"job",
	"day",
}

// StrategyOptions groups the strategy ids available for each price field.
type StrategyOptions struct {
	Cost    []StrategyID `json:"cost"`
	Selling []StrategyID `json:"selling"`
	Retail  []StrategyID `json:"retail"`
}

// PricingStrategyOptions returns every registered strategy id per field.
func PricingStrategyOptions() StrategyOptions {
	return StrategyOptions{
		Cost:    CostStrategies.IDs(),
		Selling: SellingStrategies.IDs(),
		Retail:  RetailStrategies.IDs(),
	}
}
