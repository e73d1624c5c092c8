package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bqquote/services"
)

func TestSanitizeMasterItemDefaults(t *testing.T) {
	m := SanitizeMasterItem(map[string]any{
		"id":       "m1",
		"itemName": "Cable",
		"fobCost":  "not a number",
	})

	assert.Equal(t, "m1", m.ID)
	assert.Equal(t, services.UncategorizedLabel, m.Category)
	assert.Equal(t, 0.0, m.FobCost)
	assert.Equal(t, 1.0, m.ForexRate)
	assert.Equal(t, 1.0, m.TaxMultiplier)
	assert.Equal(t, 0.97, m.OperationalAdjustment)

	for _, p := range []services.PriceField{m.Cost, m.SellingPrice, m.RetailSellingPrice} {
		assert.Equal(t, services.Manual, p.Strategy)
		assert.Zero(t, p.Value)
		require.NotNil(t, p.ManualOverride)
		assert.Zero(t, *p.ManualOverride)
	}
}

func TestSanitizeMasterItemLegacyNumbers(t *testing.T) {
	m := SanitizeMasterItem(map[string]any{
		"cost":               1200.0,
		"sellingPrice":       "1500",
		"retailSellingPrice": map[string]any{"value": 1800.0, "strategy": "MANUAL"},
	})

	assert.Equal(t, services.ManualPrice(1200), m.Cost)
	assert.Equal(t, services.ManualPrice(1500), m.SellingPrice)
	assert.Equal(t, services.ManualPrice(1800), m.RetailSellingPrice)
	assert.Equal(t, 1800.0, m.Price)
}

func TestSanitizeMasterItemKeepsFormulaFields(t *testing.T) {
	m := SanitizeMasterItem(map[string]any{
		"cost": map[string]any{"value": 106920.0, "strategy": "FORMULA_ROUND_0.01"},
	})
	assert.Equal(t, services.CostRoundCents, m.Cost.Strategy)
	assert.Equal(t, 106920.0, m.Cost.Value)
	assert.Nil(t, m.Cost.ManualOverride)
}

func TestSanitizeBQItem(t *testing.T) {
	b := SanitizeBQItem(map[string]any{
		"id":         "l1",
		"projectId":  "p1",
		"versionId":  "v1",
		"price":      "250",
		"qty":        4,
		"total":      9999,
		"isOptional": "true",
		"sortOrder":  "2",
	})

	assert.Equal(t, 1000.0, b.Total, "total is recomputed, never trusted")
	assert.True(t, b.IsOptional)
	assert.Equal(t, 2, b.SortOrder)
	assert.Equal(t, services.UncategorizedLabel, b.Category)
}

func TestSanitizeProject(t *testing.T) {
	p := SanitizeProject(map[string]any{
		"id":              "p1",
		"name":            " Depot ",
		"discountPercent": 140,
		"validityDays":    "-3",
		"quoteDate":       "2026-10-19 00:00:00.000Z",
		"createdAt":       "2026-10-19T08:30:00Z",
	})

	assert.Equal(t, "Depot", p.Name)
	assert.Equal(t, 100.0, p.DiscountPercent)
	assert.Equal(t, 0, p.ValidityDays)
	assert.Equal(t, "2026-10-19", p.QuoteDate)
	assert.Equal(t, time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC), p.CreatedAt)
}

func TestSanitizeVersionSnapshotForms(t *testing.T) {
	items := []MasterItem{wallbox()}
	raw, err := json.Marshal(items)
	require.NoError(t, err)

	var decoded []any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	tests := map[string]any{
		"typed":    items,
		"decoded":  decoded,
		"raw json": json.RawMessage(raw),
		"bytes":    raw,
		"string":   string(raw),
	}

	for name, snapshot := range tests {
		t.Run(name, func(t *testing.T) {
			v := SanitizeVersion(map[string]any{"id": "v1", "projectId": "p1", "masterSnapshot": snapshot})
			require.Len(t, v.MasterSnapshot, 1)
			assert.Equal(t, "7kW Wallbox", v.MasterSnapshot[0].ItemName)
			assert.Equal(t, services.CostRoundCents, v.MasterSnapshot[0].Cost.Strategy)
		})
	}
}

func TestSanitizeVersionDefaults(t *testing.T) {
	v := SanitizeVersion(map[string]any{"id": "v1", "masterSnapshot": "garbage"})
	assert.Equal(t, services.FirstVersionName, v.Name)
	assert.NotNil(t, v.MasterSnapshot)
	assert.Empty(t, v.MasterSnapshot)
}

func TestRecordsOmitIdentity(t *testing.T) {
	m := wallbox()
	m.Recalculate()
	rec := MasterRecord(m)
	assert.NotContains(t, rec, FieldID)
	assert.Equal(t, m.Price, rec[FieldPrice])

	line := LineRecord(NewLineFromMaster(m, "p1", "v1", 1))
	assert.Equal(t, "p1", line[FieldProjectID])
	assert.Equal(t, "m1", line[FieldMasterID])

	proj := ProjectRecord(Project{ProjectMeta: ProjectMeta{Name: "Depot"}, ActiveVersionID: "v1"})
	assert.Equal(t, "v1", proj[FieldActiveVersionID])

	ver := VersionRecord(ProjectVersion{ProjectID: "p1", Name: "version-1"})
	assert.Equal(t, "version-1", ver[FieldName])
}
