package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"bqquote/models"
)

// HandleProjectCreate creates a project and its first version, which holds
// a snapshot of the current catalog.
// Route: POST /api/bq/projects
func HandleProjectCreate(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var meta models.ProjectMeta
		if err := e.BindBody(&meta); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid request body")
		}

		project, err := d.Store.CreateProject(meta)
		if err != nil {
			return respondError(e, d.Log, err)
		}

		SetToast(e, "success", "Project created")
		return e.JSON(http.StatusCreated, project)
	}
}
