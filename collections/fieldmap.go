package collections

import (
	"fmt"
	"sort"
	"strings"

	"bqquote/models"
)

// columns maps in-memory field names to PocketBase column names.
var columns = map[string]string{
	models.FieldID:                    "id",
	models.FieldCategory:              "category",
	models.FieldItemName:              "item_name",
	models.FieldDescription:           "description",
	models.FieldQuotationDescription:  "quotation_description",
	models.FieldUOM:                   "uom",
	models.FieldBrand:                 "brand",
	models.FieldSKU:                   "sku",
	models.FieldFobCost:               "fob_cost",
	models.FieldForexRate:             "forex_rate",
	models.FieldTaxMultiplier:         "tax_multiplier",
	models.FieldOperationalAdjustment: "operational_adjustment",
	models.FieldCost:                  "cost",
	models.FieldSellingPrice:          "selling_price",
	models.FieldRetailSellingPrice:    "retail_selling_price",
	models.FieldPrice:                 "price",
	models.FieldQty:                   "qty",
	models.FieldTotal:                 "total",
	models.FieldIsOptional:            "is_optional",
	models.FieldSortOrder:             "sort_order",
	models.FieldProjectID:             "project_id",
	models.FieldVersionID:             "version_id",
	models.FieldMasterID:              "master_id",
	models.FieldActiveVersionID:       "active_version_id",
	models.FieldName:                  "name",
	models.FieldClient:                "client",
	models.FieldReference:             "reference",
	models.FieldQuoteDate:             "quote_date",
	models.FieldValidityDays:          "validity_days",
	models.FieldDiscountPercent:       "discount_percent",
	models.FieldMasterSnapshot:        "master_snapshot",
	models.FieldDeleted:               "deleted",
	models.FieldCreatedAt:             "created",
}

var fields = func() map[string]string {
	out := make(map[string]string, len(columns))
	for field, column := range columns {
		out[column] = field
	}
	return out
}()

// ColumnName returns the PocketBase column for an in-memory field name.
func ColumnName(field string) (string, bool) {
	c, ok := columns[field]
	return c, ok
}

// FieldName returns the in-memory field name for a PocketBase column.
func FieldName(column string) (string, bool) {
	f, ok := fields[column]
	return f, ok
}

// ToColumns renames the keys of a camelCase record to column names.
func ToColumns(rec map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(rec))
	var unknown []string
	for k, v := range rec {
		c, ok := columns[k]
		if !ok {
			unknown = append(unknown, k)
			continue
		}
		out[c] = v
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("no column for %s: %w", strings.Join(unknown, ", "), models.ErrUnknownField)
	}
	return out, nil
}

// FromColumns renames column keys back to camelCase. Columns without a
// field (system columns such as "updated") are dropped.
func FromColumns(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for c, v := range row {
		if f, ok := fields[c]; ok {
			out[f] = v
		}
	}
	return out
}
