package store

import "context"

// Remote collection names.
const (
	CollectionMasterItems     = "master_items"
	CollectionProjects        = "projects"
	CollectionProjectVersions = "project_versions"
	CollectionBQItems         = "bq_items"
)

// Remote is the persistence backend mirrored by the outbox. Records use
// camelCase keys; translating them to the backend's naming is the
// implementation's job.
type Remote interface {
	Insert(ctx context.Context, collection string, record map[string]any) (string, error)
	Update(ctx context.Context, collection, id string, patch map[string]any) error
	SoftDelete(ctx context.Context, collection, id string) error
	// BulkFetch returns every non-deleted record matching filter; an empty
	// filter returns the whole collection.
	BulkFetch(ctx context.Context, collection, filter string) ([]map[string]any, error)
}
