package gcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// NewStorageClient creates a GCS client. A non-empty endpoint points it at an
// emulator such as fake-gcs-server.
func NewStorageClient(ctx context.Context, endpoint string) (*storage.Client, error) {
	var opts []option.ClientOption
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return client, nil
}

// GCSStore writes output artifacts to GCS and opens source objects for the
// page check.
type GCSStore struct {
	client *storage.Client
}

func NewGCSStore(client *storage.Client) *GCSStore {
	return &GCSStore{client: client}
}

// PutJSON writes body to gs://bucket/key, replacing any existing object.
// Repeated writes of the same body leave the same object behind.
func (s *GCSStore) PutJSON(ctx context.Context, bucket, key string, body []byte) error {
	writer := s.client.Bucket(bucket).Object(key).NewWriter(ctx)
	writer.ContentType = "application/json"

	if _, err := io.Copy(writer, bytes.NewReader(body)); err != nil {
		_ = writer.Close()
		slog.Error("Failed to copy content to GCS object", "gcsBucket", bucket, "gcsObject", key, "error", err)
		return fmt.Errorf("failed to write to GCS: %w", err)
	}

	if err := writer.Close(); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			slog.Error("GCS rejected object write", "gcsBucket", bucket, "gcsObject", key, "code", gerr.Code, "error", gerr.Message)
		}
		return fmt.Errorf("failed to finalize GCS write for gs://%s/%s: %w", bucket, key, err)
	}
	return nil
}

// Open returns a reader for gs://bucket/key. The caller closes it.
func (s *GCSStore) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	reader, err := s.client.Bucket(bucket).Object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("source object gs://%s/%s does not exist", bucket, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get GCS object reader for gs://%s/%s: %w", bucket, key, err)
	}
	return reader, nil
}
