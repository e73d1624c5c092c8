package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"bqquote/services"
)

// ErrUnknownField is returned when a patch names a field the target does
// not accept.
var ErrUnknownField = errors.New("unknown field")

// Field names accepted in patches. They match the JSON names of the
// record fields.
const (
	FieldID                    = "id"
	FieldCategory              = "category"
	FieldItemName              = "itemName"
	FieldDescription           = "description"
	FieldQuotationDescription  = "quotationDescription"
	FieldUOM                   = "uom"
	FieldBrand                 = "brand"
	FieldSKU                   = "sku"
	FieldFobCost               = "fobCost"
	FieldForexRate             = "forexRate"
	FieldTaxMultiplier         = "taxMultiplier"
	FieldOperationalAdjustment = "operationalAdjustment"
	FieldCost                  = "cost"
	FieldSellingPrice          = "sellingPrice"
	FieldRetailSellingPrice    = "retailSellingPrice"
	FieldPrice                 = "price"
	FieldQty                   = "qty"
	FieldIsOptional            = "isOptional"
	FieldSortOrder             = "sortOrder"
)

var pricingFields = map[string]bool{
	FieldFobCost:               true,
	FieldForexRate:             true,
	FieldTaxMultiplier:         true,
	FieldOperationalAdjustment: true,
	FieldCost:                  true,
	FieldSellingPrice:          true,
	FieldRetailSellingPrice:    true,
}

// IsPricingField reports whether a change to field requires the pricing
// chain to be re-run.
func IsPricingField(field string) bool { return pricingFields[field] }

// Patch is a partial record keyed by field name.
type Patch map[string]any

// TouchesPricing reports whether any key of p is a pricing input.
func (p Patch) TouchesPricing() bool {
	for k := range p {
		if IsPricingField(k) {
			return true
		}
	}
	return false
}

// Merge returns a new patch with other's keys laid over p's.
func (p Patch) Merge(other Patch) Patch {
	out := make(Patch, len(p)+len(other))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// ID returns the "id" entry as a string.
func (p Patch) ID() string {
	return strings.TrimSpace(cast.ToString(p[FieldID]))
}

func coerceText(v any) string {
	return strings.TrimSpace(cast.ToString(v))
}

// ApplyToMaster writes p onto item. Values are coerced, never rejected:
// unreadable numbers fall back to the documented defaults. The derived
// price fields are not recomputed; callers decide when to Recalculate.
func ApplyToMaster(item *MasterItem, p Patch) error {
	for field, v := range p {
		switch field {
		case FieldID:
			// identity is never patched
		case FieldCategory:
			item.Category = coerceText(v)
		case FieldItemName:
			item.ItemName = coerceText(v)
		case FieldDescription:
			item.Description = cast.ToString(v)
		case FieldQuotationDescription:
			item.QuotationDescription = cast.ToString(v)
		case FieldUOM:
			item.UOM = coerceText(v)
		case FieldBrand:
			item.Brand = coerceText(v)
		case FieldSKU:
			item.SKU = coerceText(v)
		case FieldFobCost:
			item.FobCost = services.CoerceNumber(v, services.DefaultFob)
		case FieldForexRate:
			item.ForexRate = services.CoerceNumber(v, services.DefaultForex)
		case FieldTaxMultiplier:
			item.TaxMultiplier = services.CoerceNumber(v, services.DefaultTaxMultiplier)
		case FieldOperationalAdjustment:
			item.OperationalAdjustment = services.CoerceNumber(v, services.DefaultOpAdjustment)
		case FieldCost:
			item.Cost = services.CoercePriceField(v)
		case FieldSellingPrice:
			item.SellingPrice = services.CoercePriceField(v)
		case FieldRetailSellingPrice:
			item.RetailSellingPrice = services.CoercePriceField(v)
		case FieldPrice:
			// derived from retailSellingPrice; ignored on write
		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
	}
	return nil
}

// LineFields lists the fields a BQ line accepts in ApplyToLine.
var LineFields = []string{
	FieldCategory, FieldItemName, FieldDescription, FieldQuotationDescription,
	FieldUOM, FieldPrice, FieldQty, FieldIsOptional, FieldSortOrder,
}

// ApplyToLine writes p onto line and recomputes Total.
func ApplyToLine(line *BQItem, p Patch) error {
	for field, v := range p {
		switch field {
		case FieldID:
			// identity is never patched
		case FieldCategory:
			line.Category = coerceText(v)
		case FieldItemName:
			line.ItemName = coerceText(v)
		case FieldDescription:
			line.Description = cast.ToString(v)
		case FieldQuotationDescription:
			line.QuotationDescription = cast.ToString(v)
		case FieldUOM:
			line.UOM = coerceText(v)
		case FieldPrice:
			line.Price = services.CoerceNumber(v, line.Price)
		case FieldQty:
			line.Qty = services.CoerceNumber(v, line.Qty)
		case FieldTotal:
			// derived from price and qty
		case FieldIsOptional:
			line.IsOptional = cast.ToBool(v)
		case FieldSortOrder:
			line.SortOrder = int(services.CoerceNumber(v, float64(line.SortOrder)))
		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
	}
	line.RecalcTotal()
	return nil
}

// MasterPatch is the inverse of ApplyToMaster: every writable field of m
// as a patch. ResyncFromCatalog uses it to build update batches.
func MasterPatch(m MasterItem) Patch {
	return Patch{
		FieldID:                    m.ID,
		FieldCategory:              m.Category,
		FieldItemName:              m.ItemName,
		FieldDescription:           m.Description,
		FieldQuotationDescription:  m.QuotationDescription,
		FieldUOM:                   m.UOM,
		FieldBrand:                 m.Brand,
		FieldSKU:                   m.SKU,
		FieldFobCost:               m.FobCost,
		FieldForexRate:             m.ForexRate,
		FieldTaxMultiplier:         m.TaxMultiplier,
		FieldOperationalAdjustment: m.OperationalAdjustment,
		FieldCost:                  m.Cost.Clone(),
		FieldSellingPrice:          m.SellingPrice.Clone(),
		FieldRetailSellingPrice:    m.RetailSellingPrice.Clone(),
	}
}
