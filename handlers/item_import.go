package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"bqquote/models"
	"bqquote/services"
)

// HandleItemImportValidate receives a .csv or .xlsx upload and returns the
// per-row validation result. Valid rows are echoed back so the client can
// post them to the commit route.
// Route: POST /api/bq/items/import
func HandleItemImportValidate(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		// Parse multipart form (max 10MB)
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		result, err := services.ParseCatalogFile(file, header.Filename)
		if err != nil {
			d.Log.Debug().Err(err).Str("file", header.Filename).Msg("catalog import rejected")
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		return ok(e, map[string]any{
			"result": result,
			"rows":   result.Rows,
		})
	}
}

type importCommitRequest struct {
	Rows []map[string]string `json:"rows" validate:"required,min=1"`
}

// HandleItemImportCommit adds every posted row to the catalog.
// Route: POST /api/bq/items/import/commit
func HandleItemImportCommit(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req importCommitRequest
		if err := bindBody(e, &req); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "File data missing. Please re-upload and try again.")
		}

		items := make([]models.MasterItem, 0, len(req.Rows))
		for _, row := range req.Rows {
			items = append(items, d.Store.AddItem(models.ItemFromImportRow(row)))
		}

		d.Log.Info().Int("items", len(items)).Msg("catalog import committed")
		SetToast(e, "success", fmt.Sprintf("%d items imported successfully", len(items)))
		return e.JSON(http.StatusCreated, map[string]any{
			"imported": len(items),
			"items":    items,
		})
	}
}

// HandleItemImportErrorReport turns posted validation errors into an xlsx
// download.
// Route: POST /api/bq/items/import/errors
func HandleItemImportErrorReport(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var errs []services.ValidationError
		if err := e.BindBody(&errs); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid error data")
		}

		xlsxBytes, err := services.GenerateErrorReport(errs)
		if err != nil {
			return respondError(e, d.Log, fmt.Errorf("error report: %w", err))
		}

		filename := fmt.Sprintf("Catalog_Errors_%s.xlsx", time.Now().Format("2006-01-02"))
		return sendFile(e, xlsxContentType, filename, xlsxBytes)
	}
}
