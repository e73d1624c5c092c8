package collections

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
	"github.com/rs/zerolog"

	"bqquote/store"
)

// activeFilter excludes soft-deleted rows.
const activeFilter = "deleted = false"

// PocketBaseRemote stores records in the app's collections. Records cross
// this boundary with camelCase keys and are renamed through the field map.
type PocketBaseRemote struct {
	app core.App
	log zerolog.Logger
}

var _ store.Remote = (*PocketBaseRemote)(nil)

func NewPocketBaseRemote(app core.App, log zerolog.Logger) *PocketBaseRemote {
	return &PocketBaseRemote{app: app, log: log.With().Str("component", "pocketbase_remote").Logger()}
}

func (r *PocketBaseRemote) Insert(ctx context.Context, collection string, record map[string]any) (string, error) {
	col, err := r.app.FindCollectionByNameOrId(collection)
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	row, err := ToColumns(record)
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}

	rec := core.NewRecord(col)
	for k, v := range row {
		if k == "id" || k == "created" {
			continue
		}
		rec.Set(k, v)
	}
	if err := r.app.SaveWithContext(ctx, rec); err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	return rec.Id, nil
}

func (r *PocketBaseRemote) Update(ctx context.Context, collection, id string, patch map[string]any) error {
	rec, err := r.app.FindRecordById(collection, id)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	row, err := ToColumns(patch)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	for k, v := range row {
		if k == "id" || k == "created" {
			continue
		}
		rec.Set(k, v)
	}
	if err := r.app.SaveWithContext(ctx, rec); err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (r *PocketBaseRemote) SoftDelete(ctx context.Context, collection, id string) error {
	rec, err := r.app.FindRecordById(collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	rec.Set("deleted", true)
	if err := r.app.SaveWithContext(ctx, rec); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// BulkFetch returns every non-deleted record of collection that matches
// filter, a PocketBase filter expression over column names ("" for all).
func (r *PocketBaseRemote) BulkFetch(ctx context.Context, collection, filter string) ([]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	expr := activeFilter
	if filter != "" {
		expr = "(" + filter + ") && " + activeFilter
	}
	recs, err := r.app.FindRecordsByFilter(collection, expr, "created", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", collection, err)
	}

	out := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		out = append(out, recordToMap(rec))
	}
	r.log.Debug().Str("collection", collection).Int("records", len(out)).Msg("bulk fetch")
	return out, nil
}

// recordToMap flattens a record into camelCase keys. JSON columns are
// handed over as raw JSON and timestamps as time.Time.
func recordToMap(rec *core.Record) map[string]any {
	row := make(map[string]any, len(columns))
	row["id"] = rec.Id
	for _, f := range rec.Collection().Fields {
		name := f.GetName()
		switch v := rec.Get(name).(type) {
		case types.JSONRaw:
			row[name] = json.RawMessage(v)
		case types.DateTime:
			if !v.IsZero() {
				row[name] = v.Time()
			}
		default:
			row[name] = v
		}
	}
	return FromColumns(row)
}
