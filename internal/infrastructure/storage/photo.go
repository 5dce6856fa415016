package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/sangkips/stockledger-api/internal/config"
	"github.com/sangkips/stockledger-api/pkg/apperror"
)

// Photo is a stored product image
type Photo struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}

// PhotoStore uploads and releases product photos
type PhotoStore interface {
	// Upload accepts raw base64 or a data URL
	Upload(ctx context.Context, payload string) (*Photo, error)
	// Delete releases a photo. Deleting a missing photo is not an error.
	Delete(ctx context.Context, id string) error
}

// New builds the photo store selected by STORAGE_PROVIDER
func New(ctx context.Context, cfg config.StorageConfig) (PhotoStore, error) {
	switch cfg.Provider {
	case "gcs":
		return NewGCSPhotoStore(ctx, cfg)
	case "local", "":
		return NewLocalPhotoStore(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage provider %q", cfg.Provider)
	}
}

// imageProcessor decodes, bounds and re-encodes uploads as JPEG
type imageProcessor struct {
	maxSize      int64
	maxDimension int
}

func newImageProcessor(cfg config.StorageConfig) imageProcessor {
	return imageProcessor{maxSize: cfg.UploadMaxSize, maxDimension: cfg.MaxImageDimension}
}

// Process turns a base64 payload into JPEG bytes.
// Bad input is reported as a validation error on the photo field.
func (p imageProcessor) Process(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if i := strings.Index(payload, ","); strings.HasPrefix(payload, "data:") && i >= 0 {
		payload = payload[i+1:]
	}
	if payload == "" {
		return nil, apperror.NewFieldValidationError("photo", "photo payload is empty")
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, apperror.NewFieldValidationError("photo", "photo is not valid base64")
	}
	if p.maxSize > 0 && int64(len(raw)) > p.maxSize {
		return nil, apperror.NewFieldValidationError("photo", fmt.Sprintf("photo exceeds %d bytes", p.maxSize))
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperror.NewFieldValidationError("photo", "photo is not a supported image")
	}

	if p.maxDimension > 0 {
		bounds := img.Bounds()
		if bounds.Dx() > p.maxDimension || bounds.Dy() > p.maxDimension {
			img = imaging.Fit(img, p.maxDimension, p.maxDimension, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to encode photo: %w", err)
	}
	return buf.Bytes(), nil
}

func newPhotoID() string {
	return "products/" + uuid.NewString() + ".jpg"
}
