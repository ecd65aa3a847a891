package repositories

import (
	"context"
	"errors"
	"sync"
	"time"

	"llm-dashboard/internal/app/models"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository 会话状态存储
//
// Update 对同一会话的读-改-写串行执行；fn 返回错误时不保存。
type SessionRepository interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Update(ctx context.Context, id string, fn func(s *models.Session) error) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]*models.Session)}
}

func (r *MemorySessionRepository) Get(_ context.Context, id string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.Clone(), nil
}

// Update 会话不存在时先创建
func (r *MemorySessionRepository) Update(_ context.Context, id string, fn func(s *models.Session) error) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.sessions[id]
	if !ok {
		current = models.NewSession(id)
	}
	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	working.UpdatedAt = time.Now()
	r.sessions[id] = working
	return working.Clone(), nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}
