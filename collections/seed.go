package collections

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pocketbase/pocketbase/core"
	"github.com/rs/zerolog"

	"bqquote/models"
	"bqquote/services"
	"bqquote/store"
)

// SeedCatalog fills an empty master_items collection from a .csv or .xlsx
// catalog file. It does nothing when path is empty or the catalog already
// has items, which makes it safe to call on every startup. Rows that fail
// validation are logged and skipped. It returns the number of items
// created.
func SeedCatalog(app core.App, log zerolog.Logger, path string) (int, error) {
	if path == "" {
		return 0, nil
	}

	existing, err := app.CountRecords(store.CollectionMasterItems)
	if err != nil {
		return 0, fmt.Errorf("seed: count catalog: %w", err)
	}
	if existing > 0 {
		log.Debug().Int64("items", existing).Msg("seed: catalog not empty, skipping")
		return 0, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	defer f.Close()

	result, err := services.ParseCatalogFile(f, filepath.Base(path))
	if err != nil {
		return 0, fmt.Errorf("seed: parse %s: %w", path, err)
	}
	for _, e := range result.Errors {
		log.Warn().Int("row", e.Row).Str("field", e.Field).Str("reason", e.Message).Msg("seed: row rejected")
	}

	created := 0
	err = app.RunInTransaction(func(txApp core.App) error {
		tx := NewPocketBaseRemote(txApp, log)
		for _, row := range result.Rows {
			m := models.ItemFromImportRow(row)
			m.Recalculate()
			if _, err := tx.Insert(context.Background(), store.CollectionMasterItems, models.MasterRecord(m)); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}

	log.Info().Int("items", created).Int("rejected", result.ErrorRows).Str("file", path).Msg("seed: catalog created")
	return created, nil
}
