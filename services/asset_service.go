package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// MaxUploadSize caps uploaded floor maps at 5 MiB. Uploads are buffered fully
// in memory, so the cap also bounds memory per concurrent upload.
const MaxUploadSize = 5 << 20

const (
	maxMapWidth    = 2000
	maxMapHeight   = 2000
	mapJPEGQuality = 80
)

// AssetStore persists a transformed floor map and returns its public URL.
// One variant per backend; selected at startup.
type AssetStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// AssetService validates, transforms and persists uploaded floor-map images.
type AssetService struct {
	store AssetStore
}

func NewAssetService(store AssetStore) *AssetService {
	return &AssetService{store: store}
}

// SaveFloorMap runs the full ingestion pipeline: reject anything that is not
// a reasonably sized image, normalize it to at most 2000x2000 JPEG, persist
// it, and return the durable public URL. Nothing is written to the store when
// validation fails.
func (s *AssetService) SaveFloorMap(ctx context.Context, data []byte, contentType string) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", NewValidationError("Only image files are allowed")
	}
	if len(data) > MaxUploadSize {
		return "", NewValidationError("File exceeds the 5MB limit")
	}
	if len(data) == 0 {
		return "", NewValidationError("No file uploaded")
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", NewValidationError("File is not a valid image")
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxMapWidth || bounds.Dy() > maxMapHeight {
		img = imaging.Fit(img, maxMapWidth, maxMapHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(mapJPEGQuality)); err != nil {
		return "", fmt.Errorf("%w: encode image: %v", ErrUploadFailed, err)
	}

	name := fmt.Sprintf("floor-map-%d-%s.jpg", time.Now().UnixMilli(), uuid.NewString())
	url, err := s.store.Save(ctx, name, buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return url, nil
}

func publicMapURL(baseURL, name string) string {
	return strings.TrimRight(baseURL, "/") + "/uploads/floor-maps/" + name
}
