package ports

import (
	"context"

	"comparador/domain/catalog"
	"comparador/domain/table"
)

// Catalog is the read-only surface of a remote open-data catalog. Every
// operation returns an explicit error; callers surface it as a non-fatal
// warning and continue with an empty result.
type Catalog interface {
	// Organizations lists active publishing institutions.
	Organizations(ctx context.Context) ([]string, error)

	// Datasets lists the packages of one institution, capped server-side.
	Datasets(ctx context.Context, orgID string) ([]catalog.Dataset, error)

	// Resources lists the downloadable files of one dataset.
	Resources(ctx context.Context, datasetID string) ([]catalog.Resource, error)

	// ResourceSize resolves a resource's byte size; 0 means unknown.
	ResourceSize(ctx context.Context, resourceID string) (int64, error)

	// Download fetches and parses a resource into a table.
	Download(ctx context.Context, resourceID string) (*table.Table, error)
}
