package port

import (
	"context"

	"tomato-health/internal/domain/entity"
)

// UserRepository интерфейс хранилища пользователей
type UserRepository interface {
	// Create сохраняет нового пользователя и заполняет его ID
	Create(ctx context.Context, user *entity.User) error

	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*entity.User, error)
}

// PredictionRepository интерфейс хранилища результатов диагностики
type PredictionRepository interface {
	// Create сохраняет запись и заполняет её ID
	Create(ctx context.Context, record *entity.PredictionRecord) error

	// ListByUser возвращает записи пользователя, новые первыми
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]entity.PredictionRecord, error)

	CountByUser(ctx context.Context, userID int64) (int, error)
	GetByID(ctx context.Context, id int64) (*entity.PredictionRecord, error)
	Delete(ctx context.Context, id int64) error
}

// ChatSessionRepository интерфейс хранилища состояний диалога
type ChatSessionRepository interface {
	// Get возвращает сессию по Telegram ID, создаёт новую если не найдена
	Get(ctx context.Context, telegramID, chatID int64) (*entity.ChatSession, error)

	// Save сохраняет состояние сессии
	Save(ctx context.Context, session *entity.ChatSession) error
}
