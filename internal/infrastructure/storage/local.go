package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sangkips/stockledger-api/internal/config"
)

// LocalPhotoStore keeps photos on disk under a root served at PublicURL
type LocalPhotoStore struct {
	root      string
	publicURL string
	processor imageProcessor
}

func NewLocalPhotoStore(cfg config.StorageConfig) (*LocalPhotoStore, error) {
	if err := os.MkdirAll(filepath.Join(cfg.Path, "products"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalPhotoStore{
		root:      cfg.Path,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		processor: newImageProcessor(cfg),
	}, nil
}

// Root is the directory photos are written to
func (s *LocalPhotoStore) Root() string {
	return s.root
}

func (s *LocalPhotoStore) Upload(ctx context.Context, payload string) (*Photo, error) {
	data, err := s.processor.Process(payload)
	if err != nil {
		return nil, err
	}

	id := newPhotoID()
	if err := os.WriteFile(s.pathFor(id), data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write photo: %w", err)
	}

	return &Photo{URL: s.publicURL + "/" + id, ID: id}, nil
}

func (s *LocalPhotoStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	clean := path.Clean("/" + id)[1:]
	if clean != id {
		return fmt.Errorf("invalid photo id %q", id)
	}

	err := os.Remove(s.pathFor(id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}

func (s *LocalPhotoStore) pathFor(id string) string {
	return filepath.Join(s.root, filepath.FromSlash(id))
}
