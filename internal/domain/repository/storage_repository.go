package repository

import (
	"context"
	"io"
	"time"
)

// StorageRepository is the blob store for location pictures and user
// avatars. Keys are opaque; rows in postgres own them.
type StorageRepository interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}
