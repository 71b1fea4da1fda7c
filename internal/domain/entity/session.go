package entity

// SessionState состояние диалога с пользователем бота
type SessionState string

const (
	StateMainMenu         SessionState = "main_menu"         // В главном меню
	StateAwaitingPhoto    SessionState = "awaiting_photo"    // Ожидание изображения для палитры
	StateAwaitingLayout   SessionState = "awaiting_layout"   // Ожидание JSON-макета
	StateAwaitingVariants SessionState = "awaiting_variants" // Ожидание списка вариантов
	StateProcessing       SessionState = "processing"        // Идёт расчёт
)

// Session представляет пользователя бота и его текущий сценарий
type Session struct {
	UserID   int64        // Telegram User ID
	ChatID   int64        // Telegram Chat ID
	State    SessionState // Текущее состояние
	Industry string       // Отрасль для бенчмарков CTR
}

// NewSession создаёт сессию в главном меню
func NewSession(userID, chatID int64) *Session {
	return &Session{
		UserID: userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние сессии
func (s *Session) SetState(state SessionState) {
	s.State = state
}

// Busy идёт обработка, новые задачи не принимаются
func (s *Session) Busy() bool {
	return s.State == StateProcessing
}
