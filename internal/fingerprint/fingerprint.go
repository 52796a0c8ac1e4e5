// Package fingerprint decides whether freshly downloaded content differs
// from what the last successful run processed.
//
// The fingerprint of a document is the SHA-256 digest of its bytes, so a
// republished file at the same URL is still detected and a renamed link to
// identical bytes is correctly ignored. The stored value always reflects the
// last fully processed input: callers persist it only after every downstream
// write of the run has succeeded.
package fingerprint

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/Lllllllleong/sanctionlistflow/internal/blob"
)

// Digest returns the lowercase hex SHA-256 of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Changed reports whether processing should run. A missing stored
// fingerprint always counts as changed.
func Changed(current, stored string, storedExists bool) bool {
	if !storedExists {
		return true
	}
	return current != stored
}

// Store persists one fingerprint per source key.
type Store interface {
	// Load returns the stored fingerprint and whether one exists. Absence
	// is not an error.
	Load(ctx context.Context, key string) (value string, exists bool, err error)
	// Save overwrites the stored fingerprint.
	Save(ctx context.Context, key, value string) error
}

// BlobStore keeps fingerprints as small text objects in a blob store,
// alongside the snapshots they guard.
type BlobStore struct {
	blobs blob.Store
}

func NewBlobStore(blobs blob.Store) *BlobStore {
	return &BlobStore{blobs: blobs}
}

func (s *BlobStore) Load(ctx context.Context, key string) (string, bool, error) {
	data, err := s.blobs.Get(ctx, key)
	if errors.Is(err, blob.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("could not load fingerprint %s: %w", key, err)
	}
	return strings.TrimSpace(string(data)), true, nil
}

func (s *BlobStore) Save(ctx context.Context, key, value string) error {
	if err := s.blobs.Put(ctx, key, []byte(value), "text/plain"); err != nil {
		return fmt.Errorf("could not save fingerprint %s: %w", key, err)
	}
	return nil
}
