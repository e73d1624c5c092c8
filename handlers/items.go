package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"bqquote/models"
	"bqquote/services"
)

// HandleItemList returns the active catalog, narrowed by the optional
// ?q= search text and ?category= filter.
// Route: GET /api/bq/items
func HandleItemList(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		query := e.Request.URL.Query()
		items := d.Store.FilteredCatalog(query.Get("q"), query.Get("category"))
		return ok(e, map[string]any{
			"items": items,
			"count": len(items),
		})
	}
}

// HandleItemCategories returns the distinct categories of active items.
// Route: GET /api/bq/items/categories
func HandleItemCategories(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return ok(e, map[string]any{"categories": d.Store.Categories()})
	}
}

// HandleItemOptions returns the dropdown values of the catalog form.
// Route: GET /api/bq/items/options
func HandleItemOptions(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return ok(e, map[string]any{
			"uom":        services.UOMOptions,
			"strategies": services.PricingStrategyOptions(),
		})
	}
}

// HandleItemView returns one catalog item.
// Route: GET /api/bq/items/{id}
func HandleItemView(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		item, err := d.Store.Item(e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, d.Log, err)
		}
		return ok(e, item)
	}
}

// HandleItemCreate adds a catalog item. The body is a field patch applied
// over the catalog defaults; itemName is required.
// Route: POST /api/bq/items
func HandleItemCreate(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var patch models.Patch
		if err := e.BindBody(&patch); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid request body")
		}

		item := models.SanitizeMasterItem(nil)
		if err := models.ApplyToMaster(&item, patch); err != nil {
			return respondError(e, d.Log, err)
		}
		item.ItemName = strings.TrimSpace(item.ItemName)
		if err := models.Validator().Var(item.ItemName, "required,max=200"); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Item name is required")
		}

		created := d.Store.AddItem(item)
		SetToast(e, "success", "Item added")
		return e.JSON(http.StatusCreated, created)
	}
}

// HandleItemUpdate merges a field patch into a catalog item. Prices are
// re-resolved when a pricing input changes.
// Route: PATCH /api/bq/items/{id}
func HandleItemUpdate(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var patch models.Patch
		if err := e.BindBody(&patch); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid request body")
		}

		item, err := d.Store.UpdateItem(e.Request.PathValue("id"), patch)
		if err != nil {
			return respondError(e, d.Log, err)
		}
		return ok(e, item)
	}
}

// HandleItemDelete soft-deletes a catalog item.
// Route: DELETE /api/bq/items/{id}
func HandleItemDelete(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := d.Store.DeleteItem(e.Request.PathValue("id")); err != nil {
			return respondError(e, d.Log, err)
		}
		SetToast(e, "success", "Item deleted")
		return e.NoContent(http.StatusNoContent)
	}
}
