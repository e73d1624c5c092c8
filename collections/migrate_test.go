package collections_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"bqquote/collections"
	"bqquote/services"
	"bqquote/store"
	"bqquote/testhelpers"
)

func TestMigrateLegacyPriceFields_RewritesBareNumbers(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rec := testhelpers.CreateTestMasterItem(t, app, "Conduit", 250)

	n, err := collections.MigrateLegacyPriceFields(app, zerolog.Nop())
	if err != nil {
		t.Fatalf("MigrateLegacyPriceFields() error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 migrated record, got %d", n)
	}

	reloaded, err := app.FindRecordById("master_items", rec.Id)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	raw := reloaded.GetString("cost")
	if !strings.HasPrefix(strings.TrimSpace(raw), "{") || !strings.Contains(raw, `"MANUAL"`) {
		t.Errorf("cost was not rewritten as a manual object: %s", raw)
	}

	s := store.New(store.Options{Logger: zerolog.Nop(), Remote: collections.NewPocketBaseRemote(app, zerolog.Nop())})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	item, err := s.Item(rec.Id)
	if err != nil {
		t.Fatalf("Item: %v", err)
	}
	if item.Cost.Strategy != services.Manual || item.Cost.Value != 250 || item.Price != 500 {
		t.Errorf("unexpected pricing after migration: cost %+v price %v", item.Cost, item.Price)
	}
}

func TestMigrateLegacyPriceFields_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestMasterItem(t, app, "Conduit", 250)

	if _, err := collections.MigrateLegacyPriceFields(app, zerolog.Nop()); err != nil {
		t.Fatalf("first run error: %v", err)
	}
	n, err := collections.MigrateLegacyPriceFields(app, zerolog.Nop())
	if err != nil {
		t.Fatalf("second run error: %v", err)
	}
	if n != 0 {
		t.Errorf("second run migrated %d records, want 0", n)
	}
}
