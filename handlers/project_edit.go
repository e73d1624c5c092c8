package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"bqquote/models"
)

// HandleProjectUpdate replaces the editable header of a project.
// Route: PUT /api/bq/projects/{projectId}
func HandleProjectUpdate(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var meta models.ProjectMeta
		if err := e.BindBody(&meta); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid request body")
		}

		project, err := d.Store.UpdateProject(e.Request.PathValue("projectId"), meta)
		if err != nil {
			return respondError(e, d.Log, err)
		}

		SetToast(e, "success", "Project saved")
		return ok(e, project)
	}
}
