package handlers

import (
	"github.com/pocketbase/pocketbase/core"
)

// HandleProjectList returns every project in creation order.
// Route: GET /api/bq/projects
func HandleProjectList(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projects := d.Store.Projects()
		return ok(e, map[string]any{
			"projects": projects,
			"count":    len(projects),
		})
	}
}
