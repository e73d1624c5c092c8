package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"bqquote/models"
)

type syncQtyRequest struct {
	MasterID string   `json:"masterId" validate:"required"`
	Qty      *float64 `json:"qty" validate:"required"`
}

// HandleBOQSync reconciles a catalog quantity into the version: a new line
// is inserted, an existing one is updated, or removed when qty <= 0.
// Route: POST /api/bq/projects/{projectId}/versions/{versionId}/sync
func HandleBOQSync(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req syncQtyRequest
		if err := bindBody(e, &req); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "masterId and qty are required")
		}

		action, err := d.Store.SyncCatalogQty(
			e.Request.PathValue("projectId"),
			e.Request.PathValue("versionId"),
			req.MasterID,
			*req.Qty,
		)
		if err != nil {
			return respondError(e, d.Log, err)
		}
		return ok(e, map[string]string{"action": string(action)})
	}
}

type customLineRequest struct {
	Category    string  `json:"category" validate:"max=200"`
	ItemName    string  `json:"itemName" validate:"required,max=200"`
	Description string  `json:"description"`
	UOM         string  `json:"uom" validate:"max=20"`
	Price       float64 `json:"price" validate:"gte=0"`
	Qty         float64 `json:"qty" validate:"gt=0"`
	IsOptional  bool    `json:"isOptional"`
}

// HandleBOQAddCustomLine adds a line that is not linked to the catalog.
// Route: POST /api/bq/projects/{projectId}/versions/{versionId}/lines
func HandleBOQAddCustomLine(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req customLineRequest
		if err := bindBody(e, &req); err != nil {
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		line := models.BQItem{
			Category:    req.Category,
			ItemName:    req.ItemName,
			Description: req.Description,
			UOM:         req.UOM,
			Price:       req.Price,
			Qty:         req.Qty,
			IsOptional:  req.IsOptional,
		}
		line.RecalcTotal()

		created, err := d.Store.AddCustomLine(e.Request.PathValue("projectId"), e.Request.PathValue("versionId"), line)
		if err != nil {
			return respondError(e, d.Log, err)
		}
		return e.JSON(http.StatusCreated, created)
	}
}

type lineFieldRequest struct {
	Field string `json:"field" validate:"required"`
	Value any    `json:"value"`
}

// HandleBOQUpdateLine sets one field of a line. Setting qty to zero or
// below removes the line.
// Route: PATCH /api/bq/lines/{lineId}
func HandleBOQUpdateLine(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req lineFieldRequest
		if err := bindBody(e, &req); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Missing field")
		}

		line, err := d.Store.UpdateLineField(e.Request.PathValue("lineId"), req.Field, req.Value)
		if err != nil {
			return respondError(e, d.Log, err)
		}
		return ok(e, line)
	}
}

// HandleBOQRemoveLine soft-deletes a line.
// Route: DELETE /api/bq/lines/{lineId}
func HandleBOQRemoveLine(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := d.Store.RemoveLine(e.Request.PathValue("lineId")); err != nil {
			return respondError(e, d.Log, err)
		}
		return e.NoContent(http.StatusNoContent)
	}
}
