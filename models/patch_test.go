package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bqquote/services"
)

func TestPatchTouchesPricing(t *testing.T) {
	assert.True(t, Patch{FieldFobCost: 1}.TouchesPricing())
	assert.True(t, Patch{FieldRetailSellingPrice: nil}.TouchesPricing())
	assert.False(t, Patch{FieldItemName: "x", FieldQty: 2}.TouchesPricing())
	assert.False(t, Patch{}.TouchesPricing())
}

func TestPatchMerge(t *testing.T) {
	base := Patch{FieldFobCost: 1, FieldItemName: "a"}
	merged := base.Merge(Patch{FieldFobCost: 2})

	assert.Equal(t, 2, merged[FieldFobCost])
	assert.Equal(t, "a", merged[FieldItemName])
	assert.Equal(t, 1, base[FieldFobCost], "Merge must not mutate the receiver")
}

func TestApplyToMaster(t *testing.T) {
	m := wallbox()

	err := ApplyToMaster(&m, Patch{
		FieldID:                    "ignored",
		FieldItemName:              "  22kW Wallbox ",
		FieldFobCost:               "120000",
		FieldForexRate:             "abc",
		FieldOperationalAdjustment: nil,
		FieldCost:                  1500,
		FieldPrice:                 1,
	})
	require.NoError(t, err)

	assert.Equal(t, "m1", m.ID)
	assert.Equal(t, "22kW Wallbox", m.ItemName)
	assert.Equal(t, 120000.0, m.FobCost)
	assert.Equal(t, services.DefaultForex, m.ForexRate)
	assert.Equal(t, services.DefaultOpAdjustment, m.OperationalAdjustment)
	assert.Equal(t, services.Manual, m.Cost.Strategy)
	assert.Equal(t, 1500.0, m.Cost.Override())
	assert.Zero(t, m.Price, "price is derived and cannot be written directly")
}

func TestApplyToMasterRejectsUnknownField(t *testing.T) {
	m := wallbox()
	err := ApplyToMaster(&m, Patch{"colour": "red"})
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestApplyToLine(t *testing.T) {
	line := BQItem{Price: 100, Qty: 2}
	line.RecalcTotal()

	require.NoError(t, ApplyToLine(&line, Patch{FieldQty: "5", FieldIsOptional: "true", FieldSortOrder: 3.0}))
	assert.Equal(t, 5.0, line.Qty)
	assert.Equal(t, 500.0, line.Total)
	assert.True(t, line.IsOptional)
	assert.Equal(t, 3, line.SortOrder)

	require.NoError(t, ApplyToLine(&line, Patch{FieldPrice: "not a number"}))
	assert.Equal(t, 100.0, line.Price, "unreadable price keeps the current one")

	require.NoError(t, ApplyToLine(&line, Patch{FieldPrice: 80}))
	assert.Equal(t, 400.0, line.Total)

	assert.ErrorIs(t, ApplyToLine(&line, Patch{FieldFobCost: 1}), ErrUnknownField)
}

func TestMasterPatchRoundTrip(t *testing.T) {
	src := wallbox()
	src.Recalculate()

	var dst MasterItem
	require.NoError(t, ApplyToMaster(&dst, MasterPatch(src)))
	dst.ID = src.ID
	dst.Recalculate()

	assert.Equal(t, src, dst)
}

func TestPatchID(t *testing.T) {
	assert.Equal(t, "abc", Patch{FieldID: " abc "}.ID())
	assert.Empty(t, Patch{}.ID())
}
