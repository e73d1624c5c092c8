package models

import (
	"bqquote/services"
)

// Import row keys that do not map one-to-one onto record fields.
const (
	importCostStrategy    = "costStrategy"
	importSellingStrategy = "sellingStrategy"
	importRetailStrategy  = "retailStrategy"
	importManualCost      = "manualCost"
	importManualSelling   = "manualSellingPrice"
	importManualRetail    = "manualRetailPrice"
)

// ItemFromImportRow builds an unsaved catalog item from a validated import
// row (see services.CatalogColumns). A manual value without a strategy
// makes the field manual; a blank strategy falls back to the default for
// new items. Derived prices are not resolved.
func ItemFromImportRow(row map[string]string) MasterItem {
	rec := make(map[string]any, len(row)+3)
	for k, v := range row {
		rec[k] = v
	}
	rec[FieldCost] = importPriceField(row[importCostStrategy], row[importManualCost], services.DefaultCostStrategy)
	rec[FieldSellingPrice] = importPriceField(row[importSellingStrategy], row[importManualSelling], services.DefaultSellingStrategy)
	rec[FieldRetailSellingPrice] = importPriceField(row[importRetailStrategy], row[importManualRetail], services.DefaultRetailStrategy)
	delete(rec, FieldID)

	return SanitizeMasterItem(rec)
}

func importPriceField(strategy, manual string, def services.StrategyID) map[string]any {
	out := map[string]any{"strategy": strategy}
	if manual != "" {
		out["manualOverride"] = manual
		out["value"] = manual
	}
	if strategy == "" {
		out["strategy"] = string(def)
		if manual != "" {
			out["strategy"] = string(services.Manual)
		}
	}
	return out
}
