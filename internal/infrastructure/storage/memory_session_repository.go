package storage

import (
	"context"
	"sync"

	"adscore-bot/internal/domain/entity"
	"adscore-bot/internal/domain/port"
)

// MemorySessionRepository in-memory хранилище сессий бота
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[int64]*entity.Session
}

// NewMemorySessionRepository создаёт новое in-memory хранилище
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[int64]*entity.Session),
	}
}

// Get возвращает копию сессии по ID пользователя, создаёт новую если не найдена
func (r *MemorySessionRepository) Get(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	r.mu.RLock()
	session, exists := r.sessions[userID]
	r.mu.RUnlock()

	if exists {
		cp := *session
		return &cp, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Сессию мог создать параллельный запрос
	if session, exists = r.sessions[userID]; !exists {
		session = entity.NewSession(userID, chatID)
		r.sessions[userID] = session
	}
	cp := *session
	return &cp, nil
}

// Save сохраняет состояние сессии
func (r *MemorySessionRepository) Save(ctx context.Context, session *entity.Session) error {
	cp := *session

	r.mu.Lock()
	r.sessions[session.UserID] = &cp
	r.mu.Unlock()

	return nil
}

// UpdateState обновляет состояние сессии
func (r *MemorySessionRepository) UpdateState(ctx context.Context, userID int64, state entity.SessionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, exists := r.sessions[userID]; exists {
		session.SetState(state)
	}

	return nil
}

// Проверка реализации интерфейса
var _ port.SessionRepository = (*MemorySessionRepository)(nil)
