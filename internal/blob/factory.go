package blob

import (
	"context"
	"fmt"

	"github.com/Lllllllleong/sanctionlistflow/internal/config"
	"github.com/Lllllllleong/sanctionlistflow/internal/gcp"
)

// Backend names accepted by New.
const (
	BackendGCS   = "gcs"
	BackendLocal = "local"
)

// New builds the store named by cfg. Settings are validated before any
// client is dialed so misconfiguration surfaces immediately.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case BackendGCS:
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("storage backend %q requires a bucket name", cfg.Backend)
		}
		client, err := gcp.NewStorageClient(ctx)
		if err != nil {
			return nil, err
		}
		return NewGCSStore(client, cfg.Bucket, cfg.Prefix), nil
	case BackendLocal:
		if cfg.BaseDir == "" {
			return nil, fmt.Errorf("storage backend %q requires a base directory", cfg.Backend)
		}
		return NewLocalStore(cfg.BaseDir), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
