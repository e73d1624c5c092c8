package handlers

import (
	"github.com/pocketbase/pocketbase/core"
)

// HandleBOQLines returns the lines of a version ordered by sort order.
// Route: GET /api/bq/projects/{projectId}/versions/{versionId}/lines
func HandleBOQLines(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		lines, err := d.Store.Lines(e.Request.PathValue("projectId"), e.Request.PathValue("versionId"))
		if err != nil {
			return respondError(e, d.Log, err)
		}
		return ok(e, map[string]any{
			"lines": lines,
			"count": len(lines),
		})
	}
}

// HandleBOQTotals returns the quotation totals of a version.
// Route: GET /api/bq/projects/{projectId}/versions/{versionId}/totals
func HandleBOQTotals(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		totals, err := d.Store.Totals(e.Request.PathValue("projectId"), e.Request.PathValue("versionId"))
		if err != nil {
			return respondError(e, d.Log, err)
		}
		return ok(e, totals)
	}
}

// HandleBOQRows returns the print projection of a version.
// Route: GET /api/bq/projects/{projectId}/versions/{versionId}/rows
func HandleBOQRows(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rows, err := d.Store.RenderRows(e.Request.PathValue("projectId"), e.Request.PathValue("versionId"))
		if err != nil {
			return respondError(e, d.Log, err)
		}
		return ok(e, map[string]any{"rows": rows})
	}
}
