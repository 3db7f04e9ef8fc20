package entity

import "time"

// User представляет зарегистрированного пользователя сервиса
type User struct {
	ID           int64     // идентификатор в хранилище
	Username     string    // уникальное имя для входа
	Email        string    // уникальный адрес почты
	PasswordHash string    // bcrypt-хеш пароля
	TelegramID   int64     // Telegram User ID, 0 если аккаунт не привязан
	CreatedAt    time.Time // момент регистрации
}

// NewUser создаёт пользователя с текущим временем регистрации
func NewUser(username, email, passwordHash string) *User {
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
}

// HasTelegram сообщает, привязан ли к аккаунту Telegram
func (u *User) HasTelegram() bool {
	return u.TelegramID != 0
}
