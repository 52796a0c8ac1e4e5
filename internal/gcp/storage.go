package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
)

// NewStorageClient creates and returns a new Cloud Storage client. It
// centralizes client creation so the blob layer stays free of credentials
// logic.
func NewStorageClient(ctx context.Context) (*storage.Client, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return client, nil
}
