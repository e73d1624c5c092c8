package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/spf13/cast"

	"bqquote/services"
)

// Record keys that are not patchable fields.
const (
	FieldProjectID       = "projectId"
	FieldVersionID       = "versionId"
	FieldMasterID        = "masterId"
	FieldActiveVersionID = "activeVersionId"
	FieldName            = "name"
	FieldClient          = "client"
	FieldReference       = "reference"
	FieldQuoteDate       = "quoteDate"
	FieldValidityDays    = "validityDays"
	FieldDiscountPercent = "discountPercent"
	FieldMasterSnapshot  = "masterSnapshot"
	FieldTotal           = "total"
	FieldDeleted         = "deleted"
	FieldCreatedAt       = "createdAt"
)

// ReferenceFields hold ids of other records and must be translated when
// local ids differ from remote ones.
var ReferenceFields = []string{FieldProjectID, FieldVersionID, FieldMasterID, FieldActiveVersionID}

func text(rec map[string]any, key string) string {
	return strings.TrimSpace(cast.ToString(rec[key]))
}

func categoryOrDefault(v string) string {
	if v == "" {
		return services.UncategorizedLabel
	}
	return v
}

// SanitizeMasterItem builds a MasterItem from an untyped record, filling
// defaults for anything missing or malformed. The derived fields are taken
// as stored; callers run Recalculate when they need them fresh.
func SanitizeMasterItem(rec map[string]any) MasterItem {
	m := MasterItem{
		ID:                    text(rec, FieldID),
		RemoteID:              text(rec, "remoteId"),
		Category:              categoryOrDefault(text(rec, FieldCategory)),
		ItemName:              text(rec, FieldItemName),
		Description:           cast.ToString(rec[FieldDescription]),
		QuotationDescription:  cast.ToString(rec[FieldQuotationDescription]),
		UOM:                   text(rec, FieldUOM),
		Brand:                 text(rec, FieldBrand),
		SKU:                   text(rec, FieldSKU),
		FobCost:               services.CoerceNumber(rec[FieldFobCost], services.DefaultFob),
		ForexRate:             services.CoerceNumber(rec[FieldForexRate], services.DefaultForex),
		TaxMultiplier:         services.CoerceNumber(rec[FieldTaxMultiplier], services.DefaultTaxMultiplier),
		OperationalAdjustment: services.CoerceNumber(rec[FieldOperationalAdjustment], services.DefaultOpAdjustment),
		Cost:                  sanitizePriceField(rec[FieldCost]),
		SellingPrice:          sanitizePriceField(rec[FieldSellingPrice]),
		RetailSellingPrice:    sanitizePriceField(rec[FieldRetailSellingPrice]),
		Deleted:               cast.ToBool(rec[FieldDeleted]),
	}
	m.Price = m.RetailSellingPrice.Value
	return m
}

// sanitizePriceField coerces v and pins manual fields to their override so
// the stored value and override never disagree.
func sanitizePriceField(v any) services.PriceField {
	p := services.CoercePriceField(v)
	if p.IsManual() {
		if p.ManualOverride == nil {
			return services.ManualPrice(p.Value)
		}
		return services.ManualPrice(p.Override())
	}
	return p
}

// SanitizeBQItem builds a BQItem from an untyped record. Total is always
// recomputed from Price and Qty.
func SanitizeBQItem(rec map[string]any) BQItem {
	b := BQItem{
		ID:                    text(rec, FieldID),
		RemoteID:              text(rec, "remoteId"),
		ProjectID:             text(rec, FieldProjectID),
		VersionID:             text(rec, FieldVersionID),
		MasterID:              text(rec, FieldMasterID),
		Category:              categoryOrDefault(text(rec, FieldCategory)),
		ItemName:              text(rec, FieldItemName),
		Description:           cast.ToString(rec[FieldDescription]),
		QuotationDescription:  cast.ToString(rec[FieldQuotationDescription]),
		UOM:                   text(rec, FieldUOM),
		Price:                 services.CoerceNumber(rec[FieldPrice], 0),
		Qty:                   services.CoerceNumber(rec[FieldQty], 0),
		FobCost:               services.CoerceNumber(rec[FieldFobCost], services.DefaultFob),
		ForexRate:             services.CoerceNumber(rec[FieldForexRate], services.DefaultForex),
		TaxMultiplier:         services.CoerceNumber(rec[FieldTaxMultiplier], services.DefaultTaxMultiplier),
		OperationalAdjustment: services.CoerceNumber(rec[FieldOperationalAdjustment], services.DefaultOpAdjustment),
		Cost:                  sanitizePriceField(rec[FieldCost]),
		SellingPrice:          sanitizePriceField(rec[FieldSellingPrice]),
		RetailSellingPrice:    sanitizePriceField(rec[FieldRetailSellingPrice]),
		IsOptional:            cast.ToBool(rec[FieldIsOptional]),
		SortOrder:             int(services.CoerceNumber(rec[FieldSortOrder], 0)),
		Deleted:               cast.ToBool(rec[FieldDeleted]),
	}
	b.RecalcTotal()
	return b
}

// SanitizeProject builds a Project from an untyped record. Versions are
// attached by the caller.
func SanitizeProject(rec map[string]any) Project {
	discount := services.CoerceNumber(rec[FieldDiscountPercent], 0)
	switch {
	case discount < 0:
		discount = 0
	case discount > 100:
		discount = 100
	}
	validity := int(services.CoerceNumber(rec[FieldValidityDays], 0))
	if validity < 0 {
		validity = 0
	}
	return Project{
		ID:       text(rec, FieldID),
		RemoteID: text(rec, "remoteId"),
		ProjectMeta: ProjectMeta{
			Name:            text(rec, FieldName),
			Client:          text(rec, FieldClient),
			Reference:       text(rec, FieldReference),
			QuoteDate:       sanitizeDate(rec[FieldQuoteDate]),
			ValidityDays:    validity,
			DiscountPercent: discount,
		},
		ActiveVersionID: text(rec, FieldActiveVersionID),
		Deleted:         cast.ToBool(rec[FieldDeleted]),
		CreatedAt:       sanitizeTime(rec[FieldCreatedAt]),
	}
}

// SanitizeVersion builds a ProjectVersion from an untyped record. The
// snapshot may arrive as decoded JSON, raw JSON bytes or typed items.
func SanitizeVersion(rec map[string]any) ProjectVersion {
	v := ProjectVersion{
		ID:             text(rec, FieldID),
		RemoteID:       text(rec, "remoteId"),
		ProjectID:      text(rec, FieldProjectID),
		Name:           text(rec, FieldName),
		CreatedAt:      sanitizeTime(rec[FieldCreatedAt]),
		MasterSnapshot: sanitizeSnapshot(rec[FieldMasterSnapshot]),
		Deleted:        cast.ToBool(rec[FieldDeleted]),
	}
	if v.Name == "" {
		v.Name = services.FirstVersionName
	}
	return v
}

func sanitizeSnapshot(v any) []MasterItem {
	switch t := v.(type) {
	case nil:
		return []MasterItem{}
	case []MasterItem:
		out, err := CloneItems(t)
		if err != nil {
			return []MasterItem{}
		}
		return out
	case []map[string]any:
		out := make([]MasterItem, 0, len(t))
		for _, rec := range t {
			out = append(out, SanitizeMasterItem(rec))
		}
		return out
	case []any:
		out := make([]MasterItem, 0, len(t))
		for _, raw := range t {
			if rec, ok := raw.(map[string]any); ok {
				out = append(out, SanitizeMasterItem(rec))
			}
		}
		return out
	case json.RawMessage:
		return decodeSnapshot(t)
	case []byte:
		return decodeSnapshot(t)
	case string:
		return decodeSnapshot([]byte(t))
	default:
		return []MasterItem{}
	}
}

func decodeSnapshot(b []byte) []MasterItem {
	var raw []any
	if err := json.Unmarshal(b, &raw); err != nil {
		return []MasterItem{}
	}
	return sanitizeSnapshot(raw)
}

func sanitizeTime(v any) time.Time {
	t, err := cast.ToTimeE(v)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func sanitizeDate(v any) string {
	s := strings.TrimSpace(cast.ToString(v))
	if s == "" {
		return ""
	}
	// PocketBase date fields read back as "2006-01-02 15:04:05.000Z".
	if len(s) >= len(QuoteDateLayout) {
		if _, err := time.Parse(QuoteDateLayout, s[:len(QuoteDateLayout)]); err == nil {
			return s[:len(QuoteDateLayout)]
		}
	}
	if t, err := cast.ToTimeE(s); err == nil {
		return t.Format(QuoteDateLayout)
	}
	return ""
}
