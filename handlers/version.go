package handlers

import (
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"bqquote/models"
)

// HandleVersionList returns the versions of a project in creation order.
// Route: GET /api/bq/projects/{projectId}/versions
func HandleVersionList(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		versions, err := d.Store.Versions(e.Request.PathValue("projectId"))
		if err != nil {
			return respondError(e, d.Log, err)
		}
		return ok(e, map[string]any{"versions": versions})
	}
}

// HandleVersionSuggestName proposes the name a copy of ?source= would get.
// Route: GET /api/bq/projects/{projectId}/versions/suggest-name
func HandleVersionSuggestName(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		source := e.Request.URL.Query().Get("source")
		if source == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing source version")
		}
		name, err := d.Store.SuggestVersionName(e.Request.PathValue("projectId"), source)
		if err != nil {
			return respondError(e, d.Log, err)
		}
		return ok(e, map[string]string{"name": name})
	}
}

type createVersionRequest struct {
	SourceVersionID string `json:"sourceVersionId" validate:"required"`
	Name            string `json:"name" validate:"max=100"`
}

// HandleVersionCreate duplicates a version, snapshot and lines included.
// An empty name gets the suggested one. The copy becomes active.
// Route: POST /api/bq/projects/{projectId}/versions
func HandleVersionCreate(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req createVersionRequest
		if err := bindBody(e, &req); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Missing source version")
		}

		version, err := d.Store.CreateVersion(e.Request.PathValue("projectId"), req.SourceVersionID, req.Name)
		if err != nil {
			return respondError(e, d.Log, err)
		}

		SetToast(e, "success", fmt.Sprintf("Version %q created", version.Name))
		return e.JSON(http.StatusCreated, version)
	}
}

type renameVersionRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// HandleVersionRename renames a version.
// Route: PATCH /api/bq/projects/{projectId}/versions/{versionId}
func HandleVersionRename(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req renameVersionRequest
		if err := bindBody(e, &req); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Version name is required")
		}

		projectID := e.Request.PathValue("projectId")
		versionID := e.Request.PathValue("versionId")
		if err := d.Store.RenameVersion(projectID, versionID, req.Name); err != nil {
			return respondError(e, d.Log, err)
		}
		version, err := d.Store.Version(projectID, versionID)
		if err != nil {
			return respondError(e, d.Log, err)
		}
		return ok(e, version)
	}
}

// HandleVersionDelete deletes a version and its lines. The last version of
// a project cannot be deleted.
// Route: DELETE /api/bq/projects/{projectId}/versions/{versionId}
func HandleVersionDelete(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		err := d.Store.DeleteVersion(e.Request.PathValue("projectId"), e.Request.PathValue("versionId"))
		if err != nil {
			return respondError(e, d.Log, err)
		}
		SetToast(e, "success", "Version deleted")
		return e.NoContent(http.StatusNoContent)
	}
}

type resyncRequest struct {
	// Updates are catalog-shaped patches keyed by "id". Empty means pull
	// every entry from the live catalog.
	Updates []models.Patch `json:"updates"`
}

// HandleVersionResync reprices a version's snapshot and the lines that
// point at the changed entries.
// Route: POST /api/bq/projects/{projectId}/versions/{versionId}/resync
func HandleVersionResync(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req resyncRequest
		if err := e.BindBody(&req); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid request body")
		}

		projectID := e.Request.PathValue("projectId")
		versionID := e.Request.PathValue("versionId")

		var repriced int
		var err error
		if len(req.Updates) == 0 {
			repriced, err = d.Store.ResyncFromCatalog(projectID, versionID)
		} else {
			repriced, err = d.Store.ResyncSnapshot(projectID, versionID, req.Updates)
		}
		if err != nil {
			return respondError(e, d.Log, err)
		}

		SetToast(e, "success", fmt.Sprintf("%d lines repriced", repriced))
		return ok(e, map[string]int{"repriced": repriced})
	}
}
