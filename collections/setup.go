// Package collections owns the PocketBase schema and the PocketBase-backed
// implementation of store.Remote.
package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"github.com/rs/zerolog"

	"bqquote/store"
)

// snapshotMaxSize bounds a version's master_snapshot JSON.
const snapshotMaxSize = 32 << 20

// Setup creates the master_items, projects, project_versions and bq_items
// collections when they do not exist yet. Existing collections are left
// untouched.
func Setup(app core.App, log zerolog.Logger) error {
	steps := []struct {
		name      string
		addFields func(*core.Collection)
	}{
		{store.CollectionMasterItems, func(c *core.Collection) {
			addText(c, "category", "item_name", "description", "quotation_description", "uom", "brand", "sku")
			addNumber(c, "fob_cost", "forex_rate", "tax_multiplier", "operational_adjustment", "price")
			addJSON(c, 0, "cost", "selling_price", "retail_selling_price")
			addBookkeeping(c)
			c.AddIndex("idx_master_items_category", false, "category", "")
		}},
		{store.CollectionProjects, func(c *core.Collection) {
			c.Fields.Add(&core.TextField{Name: "name", Required: true, Max: 200})
			addText(c, "client", "reference", "quote_date", "active_version_id")
			addNumber(c, "validity_days", "discount_percent")
			addBookkeeping(c)
		}},
		{store.CollectionProjectVersions, func(c *core.Collection) {
			addText(c, "project_id", "name")
			addJSON(c, snapshotMaxSize, "master_snapshot")
			addBookkeeping(c)
			c.AddIndex("idx_project_versions_project", false, "project_id", "")
		}},
		{store.CollectionBQItems, func(c *core.Collection) {
			addText(c, "project_id", "version_id", "master_id",
				"category", "item_name", "description", "quotation_description", "uom")
			addNumber(c, "price", "qty", "total",
				"fob_cost", "forex_rate", "tax_multiplier", "operational_adjustment", "sort_order")
			addJSON(c, 0, "cost", "selling_price", "retail_selling_price")
			c.Fields.Add(&core.BoolField{Name: "is_optional"})
			addBookkeeping(c)
			c.AddIndex("idx_bq_items_version", false, "version_id", "")
		}},
	}

	for _, step := range steps {
		if _, err := ensureCollection(app, log, step.name, step.addFields); err != nil {
			return err
		}
	}
	return nil
}

func addText(c *core.Collection, names ...string) {
	for _, n := range names {
		c.Fields.Add(&core.TextField{Name: n})
	}
}

func addNumber(c *core.Collection, names ...string) {
	for _, n := range names {
		c.Fields.Add(&core.NumberField{Name: n})
	}
}

func addJSON(c *core.Collection, maxSize int64, names ...string) {
	for _, n := range names {
		c.Fields.Add(&core.JSONField{Name: n, MaxSize: maxSize})
	}
}

// addBookkeeping adds the soft-delete flag and timestamps every collection
// carries.
func addBookkeeping(c *core.Collection) {
	c.Fields.Add(&core.BoolField{Name: "deleted"})
	c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	c.AddIndex("idx_"+c.Name+"_deleted", false, "deleted", "")
}

// ensureCollection returns the existing collection called name or creates
// it with the fields added by addFields.
func ensureCollection(app core.App, log zerolog.Logger, name string, addFields func(*core.Collection)) (*core.Collection, error) {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Debug().Str("collection", name).Msg("collection exists, skipping creation")
		return existing, nil
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		return nil, fmt.Errorf("create collection %q: %w", name, err)
	}

	log.Info().Str("collection", name).Str("id", collection.Id).Msg("collection created")
	return collection, nil
}
