package storage

import (
	"context"
	"strings"
	"sync"

	"tomato-health/internal/domain/entity"
	"tomato-health/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище пользователей
type MemoryUserRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]entity.User
}

// NewMemoryUserRepository создаёт новое in-memory хранилище
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]entity.User),
	}
}

// Create сохраняет пользователя, имя и почта должны быть уникальны
func (r *MemoryUserRepository) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
			return port.ErrConflict
		}
		if user.TelegramID != 0 && u.TelegramID == user.TelegramID {
			return port.ErrConflict
		}
	}

	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ID == id })
}

func (r *MemoryUserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username == username })
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *MemoryUserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*entity.User, error) {
	if telegramID == 0 {
		return nil, port.ErrNotFound
	}
	return r.find(func(u entity.User) bool { return u.TelegramID == telegramID })
}

func (r *MemoryUserRepository) find(match func(entity.User) bool) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, port.ErrNotFound
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*MemoryUserRepository)(nil)
