package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/place-directory/internal/domain"
	"github.com/place-directory/internal/domain/repository"
)

type sessionRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewSessionRepository stores authenticated sessions in redis, keyed by
// opaque session id with a TTL.
func NewSessionRepository(redisConn *Redis) repository.SessionRepository {
	return &sessionRepository{
		client: redisConn.Client(),
		logger: redisConn.logger,
	}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(session.ID), payload, ttl).Err(); err != nil {
		r.logger.Error("Failed to store session", zap.Error(err))
		return fmt.Errorf("session store error: %w", err)
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	payload, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil // Expired or never existed
	}
	if err != nil {
		r.logger.Error("Failed to load session", zap.Error(err))
		return nil, fmt.Errorf("session load error: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		r.logger.Error("Failed to delete session", zap.Error(err))
		return fmt.Errorf("session delete error: %w", err)
	}
	return nil
}
