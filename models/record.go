package models

// The record helpers below flatten entities into the camelCase maps handed
// to the remote store. Identity fields are left out; the remote assigns
// its own ids.

func MasterRecord(m MasterItem) map[string]any {
	rec := map[string]any(MasterPatch(m))
	delete(rec, FieldID)
	rec[FieldPrice] = m.Price
	rec[FieldDeleted] = m.Deleted
	return rec
}

func LineRecord(b BQItem) map[string]any {
	return map[string]any{
		FieldProjectID:             b.ProjectID,
		FieldVersionID:             b.VersionID,
		FieldMasterID:              b.MasterID,
		FieldCategory:              b.Category,
		FieldItemName:              b.ItemName,
		FieldDescription:           b.Description,
		FieldQuotationDescription:  b.QuotationDescription,
		FieldUOM:                   b.UOM,
		FieldPrice:                 b.Price,
		FieldQty:                   b.Qty,
		FieldTotal:                 b.Total,
		FieldFobCost:               b.FobCost,
		FieldForexRate:             b.ForexRate,
		FieldTaxMultiplier:         b.TaxMultiplier,
		FieldOperationalAdjustment: b.OperationalAdjustment,
		FieldCost:                  b.Cost.Clone(),
		FieldSellingPrice:          b.SellingPrice.Clone(),
		FieldRetailSellingPrice:    b.RetailSellingPrice.Clone(),
		FieldIsOptional:            b.IsOptional,
		FieldSortOrder:             b.SortOrder,
		FieldDeleted:               b.Deleted,
	}
}

func ProjectRecord(p Project) map[string]any {
	return map[string]any{
		FieldName:            p.Name,
		FieldClient:          p.Client,
		FieldReference:       p.Reference,
		FieldQuoteDate:       p.QuoteDate,
		FieldValidityDays:    p.ValidityDays,
		FieldDiscountPercent: p.DiscountPercent,
		FieldActiveVersionID: p.ActiveVersionID,
		FieldDeleted:         p.Deleted,
	}
}

// VersionRecord stores the snapshot by value; the caller must not mutate
// v.MasterSnapshot afterwards.
func VersionRecord(v ProjectVersion) map[string]any {
	return map[string]any{
		FieldProjectID:      v.ProjectID,
		FieldName:           v.Name,
		FieldMasterSnapshot: v.MasterSnapshot,
		FieldDeleted:        v.Deleted,
	}
}
