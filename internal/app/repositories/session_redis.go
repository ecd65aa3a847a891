package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"

	"llm-dashboard/internal/app/models"
)

const (
	sessionKeyPrefix = "dashboard:session:"
	lockKeyPrefix    = "dashboard:lock:session:"
	lockExpiry       = 10 * time.Second
)

// RedisSessionRepository 多实例部署时共享会话，读-改-写由 redsync 分布式锁保护
type RedisSessionRepository struct {
	rdb *redis.Client
	rs  *redsync.Redsync
	ttl time.Duration
}

func NewRedisSessionRepository(rdb *redis.Client, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{
		rdb: rdb,
		rs:  redsync.New(goredis.NewPool(rdb)),
		ttl: ttl,
	}
}

func (r *RedisSessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	return r.load(ctx, id)
}

func (r *RedisSessionRepository) Update(ctx context.Context, id string, fn func(s *models.Session) error) (*models.Session, error) {
	mutex := r.rs.NewMutex(lockKeyPrefix+id, redsync.WithExpiry(lockExpiry), redsync.WithTries(64))
	if err := mutex.LockContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to lock session %s: %w", id, err)
	}
	defer func() {
		_, _ = mutex.UnlockContext(context.WithoutCancel(ctx))
	}()

	session, err := r.load(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
		session = models.NewSession(id)
	}
	if err = fn(session); err != nil {
		return nil, err
	}
	session.UpdatedAt = time.Now()
	if err = r.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

func (r *RedisSessionRepository) load(ctx context.Context, id string) (*models.Session, error) {
	raw, err := r.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	var session models.Session
	if err = json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", id, err)
	}
	if session.Messages == nil {
		session.Messages = make([]models.Message, 0)
	}
	return &session, nil
}

func (r *RedisSessionRepository) save(ctx context.Context, session *models.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err = r.rdb.Set(ctx, sessionKey(session.ID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	return nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}
