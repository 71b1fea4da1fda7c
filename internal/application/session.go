package app

import (
	"context"
	"strings"
	"sync"

	"adscore-bot/internal/domain/entity"
	"adscore-bot/internal/domain/port"
)

// SessionService ведёт сценарий диалога пользователя с ботом
type SessionService struct {
	repo port.SessionRepository
	mu   sync.Mutex // сериализует проверку и захват processing
}

func NewSessionService(repo port.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

func (s *SessionService) Get(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *SessionService) SetState(ctx context.Context, userID, chatID int64, state entity.SessionState) (*entity.Session, error) {
	session, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	session.SetState(state)
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *SessionService) BeginPalette(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingPhoto)
}

func (s *SessionService) BeginScore(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingLayout)
}

func (s *SessionService) BeginABTest(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingVariants)
}

// StartProcessing переводит сессию в обработку и возвращает состояние, в котором
// пользователь был до этого. ok=false, если обработка уже идёт.
func (s *SessionService) StartProcessing(ctx context.Context, userID, chatID int64) (previous entity.SessionState, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return "", false, err
	}
	if session.Busy() {
		return session.State, false, nil
	}

	previous = session.State
	session.SetState(entity.StateProcessing)
	if err := s.repo.Save(ctx, session); err != nil {
		return "", false, err
	}
	return previous, true, nil
}

// Cancel возвращает пользователя в главное меню
func (s *SessionService) Cancel(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	if err := s.repo.UpdateState(ctx, userID, entity.StateMainMenu); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID, chatID)
}

// SetIndustry запоминает отрасль для бенчмарков CTR
func (s *SessionService) SetIndustry(ctx context.Context, userID, chatID int64, industry string) (*entity.Session, error) {
	session, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	session.Industry = strings.ToLower(strings.TrimSpace(industry))
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}
