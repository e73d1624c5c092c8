package handlers

import (
	"github.com/pocketbase/pocketbase/core"
)

// HandleOutboxStats reports remote writes per state.
// Route: GET /api/bq/outbox
func HandleOutboxStats(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return ok(e, d.Store.OutboxStats())
	}
}
