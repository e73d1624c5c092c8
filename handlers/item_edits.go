package handlers

import (
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"bqquote/models"
	"bqquote/store"
)

type stageEditRequest struct {
	ID    string `json:"id" validate:"required"`
	Field string `json:"field" validate:"required"`
	Value any    `json:"value"`
}

type pendingEdit struct {
	ID      string       `json:"id"`
	Pending models.Patch `json:"pending"`
	Preview any          `json:"preview"`
}

// stagedBuffer is the part of store.StagedEdits the edit routes use.
type stagedBuffer[T any] interface {
	Stage(id, field string, value any) error
	Commit() int
	Discard()
	PendingIDs() []string
	Pending(id string) (models.Patch, bool)
	Preview(id string) (T, error)
}

var (
	_ stagedBuffer[models.MasterItem] = (*store.StagedEdits[models.MasterItem])(nil)
	_ stagedBuffer[models.BQItem]     = (*store.StagedEdits[models.BQItem])(nil)
)

func handleStage[T any](d Deps, buf stagedBuffer[T]) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req stageEditRequest
		if err := bindBody(e, &req); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := buf.Stage(req.ID, req.Field, req.Value); err != nil {
			return respondError(e, d.Log, err)
		}
		pending, _ := buf.Pending(req.ID)
		preview, err := buf.Preview(req.ID)
		if err != nil {
			return respondError(e, d.Log, err)
		}
		return ok(e, pendingEdit{ID: req.ID, Pending: pending, Preview: preview})
	}
}

func handlePending[T any](d Deps, buf stagedBuffer[T]) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		ids := buf.PendingIDs()
		edits := make([]pendingEdit, 0, len(ids))
		for _, id := range ids {
			pending, found := buf.Pending(id)
			if !found {
				continue
			}
			preview, err := buf.Preview(id)
			if err != nil {
				// the entity went away after staging; commit will skip it
				d.Log.Debug().Err(err).Str("id", id).Msg("pending edit has no preview")
				edits = append(edits, pendingEdit{ID: id, Pending: pending})
				continue
			}
			edits = append(edits, pendingEdit{ID: id, Pending: pending, Preview: preview})
		}
		return ok(e, map[string]any{
			"hasPendingChanges": len(edits) > 0,
			"edits":             edits,
		})
	}
}

func handleCommit[T any](buf stagedBuffer[T]) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		n := buf.Commit()
		SetToast(e, "success", fmt.Sprintf("%d changes saved", n))
		return ok(e, map[string]int{"committed": n})
	}
}

func handleDiscard[T any](buf stagedBuffer[T]) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		buf.Discard()
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleItemEditStage buffers one catalog field edit.
// Route: POST /api/bq/items/edits
func HandleItemEditStage(d Deps) func(*core.RequestEvent) error {
	return handleStage(d, d.Store.CatalogEdits)
}

// HandleItemEditPending lists buffered catalog edits with their previews.
// Route: GET /api/bq/items/edits
func HandleItemEditPending(d Deps) func(*core.RequestEvent) error {
	return handlePending(d, d.Store.CatalogEdits)
}

// HandleItemEditCommit applies buffered catalog edits.
// Route: POST /api/bq/items/edits/commit
func HandleItemEditCommit(d Deps) func(*core.RequestEvent) error {
	return handleCommit(d.Store.CatalogEdits)
}

// HandleItemEditDiscard drops buffered catalog edits.
// Route: DELETE /api/bq/items/edits
func HandleItemEditDiscard(d Deps) func(*core.RequestEvent) error {
	return handleDiscard(d.Store.CatalogEdits)
}

// HandleQuoteEditStage buffers one quotation line edit.
// Route: POST /api/bq/quote-edits
func HandleQuoteEditStage(d Deps) func(*core.RequestEvent) error {
	return handleStage(d, d.Store.QuoteEdits)
}

// Route: GET /api/bq/quote-edits
func HandleQuoteEditPending(d Deps) func(*core.RequestEvent) error {
	return handlePending(d, d.Store.QuoteEdits)
}

// Route: POST /api/bq/quote-edits/commit
func HandleQuoteEditCommit(d Deps) func(*core.RequestEvent) error {
	return handleCommit(d.Store.QuoteEdits)
}

// Route: DELETE /api/bq/quote-edits
func HandleQuoteEditDiscard(d Deps) func(*core.RequestEvent) error {
	return handleDiscard(d.Store.QuoteEdits)
}
