package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// GCSStore serves blobs out of one GCS bucket, optionally under a key
// prefix.
type GCSStore struct {
	client *storage.Client
	bucket string
	prefix string
}

func NewGCSStore(client *storage.Client, bucket, prefix string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket, prefix: prefix}
}

func (s *GCSStore) objectName(key string) string {
	return path.Join(s.prefix, key)
}

func (s *GCSStore) Get(ctx context.Context, key string) ([]byte, error) {
	name := s.objectName(key)
	reader, err := s.client.Bucket(s.bucket).Object(name).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("could not open gs://%s/%s: %w", s.bucket, name, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("could not read gs://%s/%s: %w", s.bucket, name, err)
	}
	return data, nil
}

// Put uploads with retries. Transient failures back off and try again; 4xx
// responses are permanent and fail immediately.
func (s *GCSStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	const maxRetries = 4
	var backoff = 1 * time.Second
	var lastErr error

	name := s.objectName(key)
	for i := 0; i < maxRetries; i++ {
		err := func() error {
			writeCtx, cancel := context.WithTimeout(ctx, time.Second*50)
			defer cancel()

			writer := s.client.Bucket(s.bucket).Object(name).NewWriter(writeCtx)
			writer.ContentType = contentType
			if _, err := writer.Write(data); err != nil {
				_ = writer.Close()
				return fmt.Errorf("could not write to gs://%s/%s: %w", s.bucket, name, err)
			}
			if err := writer.Close(); err != nil {
				return fmt.Errorf("could not finalize gs://%s/%s: %w", s.bucket, name, err)
			}
			return nil
		}()

		if err == nil {
			return nil // Success!
		}

		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code >= 400 && gerr.Code < 500 {
			return err
		}

		lastErr = err
		slog.Warn(
			"Upload failed, will retry.",
			"gcsObject", name,
			"attempt", i+1,
			"maxRetries", maxRetries,
			"backoff", backoff.String(),
			"error", err,
		)

		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			slog.Error("Context cancelled during backoff. Aborting retries.", "gcsObject", name, "error", ctx.Err())
			return ctx.Err()
		}
	}
	slog.Error("Upload failed after all retries.", "gcsObject", name, "error", lastErr)
	return fmt.Errorf("upload for %s failed after all retries: %w", name, lastErr)
}
