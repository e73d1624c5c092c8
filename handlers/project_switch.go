package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"
)

type activeVersionRequest struct {
	VersionID string `json:"versionId" validate:"required"`
}

// HandleProjectSwitchVersion makes another version of the project active.
// Route: POST /api/bq/projects/{projectId}/active-version
func HandleProjectSwitchVersion(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req activeVersionRequest
		if err := bindBody(e, &req); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Missing version")
		}

		projectID := e.Request.PathValue("projectId")
		if err := d.Store.SetActiveVersion(projectID, req.VersionID); err != nil {
			return respondError(e, d.Log, err)
		}
		return ok(e, map[string]string{
			"projectId":       projectID,
			"activeVersionId": req.VersionID,
		})
	}
}
