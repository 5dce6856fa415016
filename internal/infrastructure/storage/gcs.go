package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/sangkips/stockledger-api/internal/config"
	"google.golang.org/api/option"
)

// GCSPhotoStore keeps photos in a Google Cloud Storage bucket
type GCSPhotoStore struct {
	client    *storage.Client
	bucket    string
	processor imageProcessor
}

// NewGCSPhotoStore prefers GCS_CREDENTIALS_JSON and falls back to application default credentials
func NewGCSPhotoStore(ctx context.Context, cfg config.StorageConfig) (*GCSPhotoStore, error) {
	if cfg.GCSBucket == "" {
		return nil, errors.New("GCS_BUCKET is required")
	}

	var opts []option.ClientOption
	if creds := strings.TrimSpace(cfg.GCSCredentialsJSON); creds != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(creds)))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcs client: %w", err)
	}

	return &GCSPhotoStore{
		client:    client,
		bucket:    cfg.GCSBucket,
		processor: newImageProcessor(cfg),
	}, nil
}

func (s *GCSPhotoStore) Upload(ctx context.Context, payload string) (*Photo, error) {
	data, err := s.processor.Process(payload)
	if err != nil {
		return nil, err
	}

	id := newPhotoID()
	wc := s.client.Bucket(s.bucket).Object(id).NewWriter(ctx)
	wc.ContentType = "image/jpeg"

	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return nil, fmt.Errorf("failed to upload photo to gcs: %w", err)
	}
	if err := wc.Close(); err != nil {
		return nil, fmt.Errorf("failed to close gcs writer: %w", err)
	}

	return &Photo{URL: s.objectURL(id), ID: id}, nil
}

func (s *GCSPhotoStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	err := s.client.Bucket(s.bucket).Object(id).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

// Close releases the underlying client
func (s *GCSPhotoStore) Close() error {
	return s.client.Close()
}

func (s *GCSPhotoStore) objectURL(id string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, id)
}
