package storage

import (
	"context"
	"sync"

	"tomato-health/internal/domain/entity"
	"tomato-health/internal/domain/port"
)

// MemoryChatRepository in-memory хранилище состояний диалога
type MemoryChatRepository struct {
	mu       sync.RWMutex
	sessions map[int64]*entity.ChatSession
}

// NewMemoryChatRepository создаёт новое in-memory хранилище
func NewMemoryChatRepository() *MemoryChatRepository {
	return &MemoryChatRepository{
		sessions: make(map[int64]*entity.ChatSession),
	}
}

// Get возвращает сессию по Telegram ID, создаёт новую если не найдена
func (r *MemoryChatRepository) Get(ctx context.Context, telegramID, chatID int64) (*entity.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, exists := r.sessions[telegramID]; exists {
		copied := *session
		return &copied, nil
	}

	// Создаём новую сессию
	session := entity.NewChatSession(telegramID, chatID)
	r.sessions[telegramID] = session

	copied := *session
	return &copied, nil
}

// Save сохраняет состояние сессии
func (r *MemoryChatRepository) Save(ctx context.Context, session *entity.ChatSession) error {
	copied := *session

	r.mu.Lock()
	r.sessions[session.TelegramID] = &copied
	r.mu.Unlock()

	return nil
}

// Проверка реализации интерфейса
var _ port.ChatSessionRepository = (*MemoryChatRepository)(nil)
