package collections

import (
	"errors"
	"testing"

	"bqquote/models"
)

func TestFieldMapRoundTrip(t *testing.T) {
	for field, column := range columns {
		got, ok := FieldName(column)
		if !ok || got != field {
			t.Errorf("FieldName(%q) = %q, %v; want %q", column, got, ok, field)
		}
	}
}

func TestToColumns(t *testing.T) {
	row, err := ToColumns(map[string]any{
		models.FieldItemName:        "Wallbox",
		models.FieldActiveVersionID: "v1",
		models.FieldIsOptional:      true,
	})
	if err != nil {
		t.Fatalf("ToColumns: %v", err)
	}
	if row["item_name"] != "Wallbox" || row["active_version_id"] != "v1" || row["is_optional"] != true {
		t.Errorf("unexpected row: %v", row)
	}

	_, err = ToColumns(map[string]any{"colour": "red", models.FieldName: "x"})
	if !errors.Is(err, models.ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestFromColumnsDropsSystemColumns(t *testing.T) {
	rec := FromColumns(map[string]any{
		"id":               "abc",
		"item_name":        "Wallbox",
		"updated":          "2026-10-19",
		"collectionName":   "master_items",
		"discount_percent": 5.0,
	})

	if len(rec) != 3 {
		t.Errorf("expected 3 keys, got %v", rec)
	}
	if rec[models.FieldID] != "abc" || rec[models.FieldItemName] != "Wallbox" || rec[models.FieldDiscountPercent] != 5.0 {
		t.Errorf("unexpected record: %v", rec)
	}
}
