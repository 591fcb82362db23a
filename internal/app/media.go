package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"defnixsite/pkg/domain"
)

var allowedUploadTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/gif":       {},
	"image/webp":      {},
	"image/svg+xml":   {},
	"application/pdf": {},
}

// UploadMedia stores the binary under a random key (original extension
// preserved) and records its metadata.
func (a *App) UploadMedia(ctx context.Context, filename, contentType string, size int64, r io.Reader) (domain.MediaAsset, error) {
	if size <= 0 {
		return domain.MediaAsset{}, validationError(map[string]string{"file": "file is required"})
	}
	if size > a.maxUploadBytes {
		return domain.MediaAsset{}, validationError(map[string]string{
			"file": fmt.Sprintf("file exceeds the %d byte limit", a.maxUploadBytes),
		})
	}
	if _, ok := allowedUploadTypes[strings.ToLower(contentType)]; !ok {
		return domain.MediaAsset{}, validationError(map[string]string{
			"file": "unsupported file type",
		})
	}

	key := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	if err := a.objects.Put(ctx, key, r, size, contentType); err != nil {
		return domain.MediaAsset{}, fmt.Errorf("store object: %w", err)
	}

	asset := domain.MediaAsset{
		ID:         key,
		Filename:   filepath.Base(filename),
		URL:        a.objects.URL(key),
		MimeType:   contentType,
		Size:       size,
		UploadedAt: time.Now().UTC(),
	}
	if err := a.store.SaveMediaAsset(asset); err != nil {
		if derr := a.objects.Delete(ctx, key); derr != nil {
			slog.Warn("orphaned upload left behind", "key", key, "error", derr)
		}
		return domain.MediaAsset{}, fmt.Errorf("save media asset: %w", err)
	}
	return asset, nil
}

// ListMedia returns all uploaded assets, newest first.
func (a *App) ListMedia() ([]domain.MediaAsset, error) {
	return a.store.ListMediaAssets()
}

// DeleteMedia removes the metadata record and, best effort, the binary.
func (a *App) DeleteMedia(ctx context.Context, id string) error {
	asset, ok, err := a.store.GetMediaAssetByID(id)
	if err != nil {
		return fmt.Errorf("fetch media asset: %w", err)
	}
	if !ok {
		return ErrMediaNotFound
	}
	if err := a.store.DeleteMediaAsset(id); err != nil {
		return fmt.Errorf("delete media asset: %w", err)
	}
	if err := a.objects.Delete(ctx, asset.ID); err != nil {
		slog.Warn("object removal failed", "key", asset.ID, "error", err)
	}
	return nil
}
