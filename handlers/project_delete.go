package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"
)

// HandleProjectDelete soft-deletes a project with its versions and lines.
// Route: DELETE /api/bq/projects/{projectId}
func HandleProjectDelete(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := d.Store.DeleteProject(e.Request.PathValue("projectId")); err != nil {
			return respondError(e, d.Log, err)
		}
		SetToast(e, "success", "Project deleted")
		return e.NoContent(http.StatusNoContent)
	}
}
