package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"tomato-health/internal/domain/entity"
	"tomato-health/internal/domain/port"
)

const minPasswordLength = 6

// Имена и почта Telegram-аккаунтов, недоступные для регистрации через форму.
const (
	telegramUsernamePrefix = "tg_"
	telegramEmailDomain    = "@telegram.local"
)

// FormError ошибка ввода, текст которой показывается пользователю как есть.
type FormError struct {
	Message string
}

func (e *FormError) Error() string {
	return e.Message
}

var (
	ErrPasswordMismatch   = &FormError{Message: "Passwords do not match"}
	ErrPasswordTooShort   = &FormError{Message: "Password must be at least 6 characters long"}
	ErrUsernameTaken      = &FormError{Message: "Username already exists"}
	ErrEmailTaken         = &FormError{Message: "Email already registered"}
	ErrMissingFields      = &FormError{Message: "Username, email and password are required"}
	ErrInvalidCredentials = &FormError{Message: "Invalid username or password"}
	ErrUsernameReserved   = &FormError{Message: "Usernames starting with tg_ are reserved"}
	ErrEmailReserved      = &FormError{Message: "Email domain telegram.local is reserved"}
)

// RegisterInput данные формы регистрации.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

type UserService struct {
	repo       port.UserRepository
	bcryptCost int
}

func NewUserService(repo port.UserRepository, bcryptCost int) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{repo: repo, bcryptCost: bcryptCost}
}

// Register проверяет форму и создаёт пользователя.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}
	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if len(in.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if strings.HasPrefix(strings.ToLower(username), telegramUsernamePrefix) {
		return nil, ErrUsernameReserved
	}
	if strings.HasSuffix(email, telegramEmailDomain) {
		return nil, ErrEmailReserved
	}

	_, err := s.repo.GetByUsername(ctx, username)
	if err := takenOr(err, ErrUsernameTaken); err != nil {
		return nil, err
	}
	_, err = s.repo.GetByEmail(ctx, email)
	if err := takenOr(err, ErrEmailTaken); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := entity.NewUser(username, email, string(hash))
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, port.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// takenOr переводит результат поиска в ошибку занятости.
func takenOr(err error, taken error) error {
	switch {
	case err == nil:
		return taken
	case errors.Is(err, port.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("lookup user: %w", err)
	}
}

// Authenticate проверяет имя и пароль.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, port.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*entity.User, error) {
	return s.repo.GetByID(ctx, id)
}

// EnsureTelegramUser возвращает пользователя, привязанного к Telegram ID,
// и создаёт его при первом обращении. Такой аккаунт не имеет пароля.
func (s *UserService) EnsureTelegramUser(ctx context.Context, telegramID int64) (*entity.User, error) {
	user, err := s.repo.GetByTelegramID(ctx, telegramID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, port.ErrNotFound) {
		return nil, fmt.Errorf("lookup telegram user: %w", err)
	}

	user = entity.NewUser(
		fmt.Sprintf("%s%d", telegramUsernamePrefix, telegramID),
		fmt.Sprintf("%d%s", telegramID, telegramEmailDomain),
		"",
	)
	user.TelegramID = telegramID
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create telegram user: %w", err)
	}
	return user, nil
}
