package repository

import (
	"context"
	"time"

	"github.com/place-directory/internal/domain"
)

// SessionRepository stores authenticated sessions keyed by opaque id.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}
