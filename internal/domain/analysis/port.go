package analysis

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, a *Analysis) error
	Get(ctx context.Context, tenant string, id AnalysisID) (*Analysis, error)
	Latest(ctx context.Context, tenant string, limit int) ([]*Analysis, error)
	Paginate(ctx context.Context, tenant string, page, pageSize int, filters map[string]interface{}) (PaginatedResult, error)
}

// ArtifactStore port (interface untuk penyimpanan laporan per section)
type ArtifactStore interface {
	UploadText(ctx context.Context, key, content, contentType string) (string, error)
}

// SnapshotStore port: holds the last produced Analysis per tenant so the
// dashboard can load it without re-running the pipeline.
type SnapshotStore interface {
	Put(tenant string, a *Analysis) error
	Get(tenant string) (*Analysis, error)
}
