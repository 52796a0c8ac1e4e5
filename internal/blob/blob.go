// Package blob abstracts the object store the watcher reads its state from
// and publishes list snapshots to.
package blob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotExist reports that no object lives under the requested key. Callers
// test for it with errors.Is; an absent object is distinct from an empty one.
var ErrNotExist = errors.New("blob: object does not exist")

// Store is a flat key-addressed object store. Keys use forward slashes
// regardless of backend.
type Store interface {
	// Get returns the full contents of the object at key, or ErrNotExist.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put writes data under key, replacing any previous object.
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// PutJSON marshals v with two-space indentation and writes it under key.
func PutJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", key, err)
	}
	return s.Put(ctx, key, data, "application/json")
}
