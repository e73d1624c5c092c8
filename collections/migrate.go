package collections

import (
	"bytes"
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
	"github.com/rs/zerolog"

	"bqquote/services"
	"bqquote/store"
)

var priceColumns = []string{"cost", "selling_price", "retail_selling_price"}

// MigrateLegacyPriceFields rewrites price columns still holding a bare
// number (or nothing) into the object form, as manual fields pinned to
// that number. Safe to call on every startup; it returns the number of
// records rewritten.
func MigrateLegacyPriceFields(app core.App, log zerolog.Logger) (int, error) {
	migrated := 0
	for _, collection := range []string{store.CollectionMasterItems, store.CollectionBQItems} {
		recs, err := app.FindAllRecords(collection)
		if err != nil {
			return migrated, fmt.Errorf("migrate: load %s: %w", collection, err)
		}
		for _, rec := range recs {
			changed := false
			for _, column := range priceColumns {
				raw, _ := rec.Get(column).(types.JSONRaw)
				if isPriceObject(raw) {
					continue
				}
				rec.Set(column, services.CoercePriceField([]byte(raw)))
				changed = true
			}
			if !changed {
				continue
			}
			if err := app.Save(rec); err != nil {
				log.Error().Err(err).Str("collection", collection).Str("id", rec.Id).Msg("migrate: price fields not rewritten")
				continue
			}
			migrated++
		}
	}
	if migrated > 0 {
		log.Info().Int("records", migrated).Msg("migrate: legacy price fields rewritten")
	}
	return migrated, nil
}

func isPriceObject(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
