package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/furniture-server/internal/model"
)

// uploadImage stores one upload under prefix and returns its image reference.
func uploadImage(ctx context.Context, storage model.ImageStorage, prefix string, u model.Upload) (model.Image, error) {
	key := prefix + "/" + uuid.NewString() + strings.ToLower(filepath.Ext(u.Filename))

	size := u.Size
	if size <= 0 {
		size = -1
	}
	if err := storage.Upload(ctx, key, u.Body, size, u.ContentType); err != nil {
		return model.Image{}, fmt.Errorf("failed to upload image %q: %w", u.Filename, err)
	}

	return model.Image{URL: storage.URL(key), StorageKey: key}, nil
}
