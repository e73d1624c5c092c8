package handlers

import (
	"github.com/pocketbase/pocketbase/core"

	"bqquote/models"
	"bqquote/services"
)

// ProjectView is a project with its versions and the totals of its active
// version.
type ProjectView struct {
	models.Project
	ValidUntil   string                  `json:"validUntil"`
	VersionList  []models.ProjectVersion `json:"versionList"`
	ActiveTotals services.QuoteTotals    `json:"activeTotals"`
}

// HandleProjectView returns one project.
// Route: GET /api/bq/projects/{projectId}
func HandleProjectView(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")

		project, err := d.Store.Project(projectID)
		if err != nil {
			return respondError(e, d.Log, err)
		}
		versions, err := d.Store.Versions(projectID)
		if err != nil {
			return respondError(e, d.Log, err)
		}
		totals, err := d.Store.Totals(projectID, project.ActiveVersionID)
		if err != nil {
			return respondError(e, d.Log, err)
		}

		return ok(e, ProjectView{
			Project:      project,
			ValidUntil:   project.ValidUntil(),
			VersionList:  versions,
			ActiveTotals: totals,
		})
	}
}
