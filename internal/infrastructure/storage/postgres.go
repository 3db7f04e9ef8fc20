package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "embed"

	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"

	"tomato-health/internal/domain/entity"
	"tomato-health/internal/domain/port"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

// PostgresStore хранит пользователей и диагнозы в PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore подключается к базе и применяет схему
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Debug("database pinged")

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	log.Info("database schema is up to date")

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Users возвращает репозиторий пользователей поверх той же базы
func (s *PostgresStore) Users() *PostgresUserRepository {
	return &PostgresUserRepository{db: s.db}
}

// Predictions возвращает репозиторий диагнозов поверх той же базы
func (s *PostgresStore) Predictions() *PostgresPredictionRepository {
	return &PostgresPredictionRepository{db: s.db}
}

type PostgresUserRepository struct {
	db *sql.DB
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *entity.User) error {
	const createUser = `
	INSERT INTO users (username, email, password_hash, telegram_id, created_at)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id
	`

	telegramID := sql.NullInt64{Int64: user.TelegramID, Valid: user.TelegramID != 0}
	row := r.db.QueryRowContext(ctx, createUser, user.Username, user.Email, user.PasswordHash, telegramID, user.CreatedAt)
	if err := row.Scan(&user.ID); err != nil {
		return translate(err)
	}
	return nil
}

const selectUser = `
	SELECT
		id,
		username,
		email,
		password_hash,
		telegram_id,
		created_at
	FROM users
	`

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.getOne(ctx, selectUser+"WHERE id = $1", id)
}

func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, selectUser+"WHERE username = $1", username)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, selectUser+"WHERE lower(email) = lower($1)", email)
}

func (r *PostgresUserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*entity.User, error) {
	return r.getOne(ctx, selectUser+"WHERE telegram_id = $1", telegramID)
}

func (r *PostgresUserRepository) getOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var (
		u          entity.User
		telegramID sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&telegramID,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	u.TelegramID = telegramID.Int64
	return &u, nil
}

type PostgresPredictionRepository struct {
	db *sql.DB
}

func (r *PostgresPredictionRepository) Create(ctx context.Context, record *entity.PredictionRecord) error {
	const createPrediction = `
	INSERT INTO predictions (user_id, image_key, prediction, confidence, created_at)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id
	`

	row := r.db.QueryRowContext(ctx, createPrediction,
		record.UserID, record.ImageKey, record.Label, record.Confidence, record.CreatedAt)
	if err := row.Scan(&record.ID); err != nil {
		return translate(err)
	}
	return nil
}

const selectPrediction = `
	SELECT
		id,
		user_id,
		image_key,
		prediction,
		confidence,
		created_at
	FROM predictions
	`

func (r *PostgresPredictionRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]entity.PredictionRecord, error) {
	query := selectPrediction + "WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3"

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]entity.PredictionRecord, 0, limit)
	for rows.Next() {
		var p entity.PredictionRecord
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.ImageKey,
			&p.Label,
			&p.Confidence,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *PostgresPredictionRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM predictions WHERE user_id = $1", userID).Scan(&count)
	return count, err
}

func (r *PostgresPredictionRepository) GetByID(ctx context.Context, id int64) (*entity.PredictionRecord, error) {
	var p entity.PredictionRecord
	err := r.db.QueryRowContext(ctx, selectPrediction+"WHERE id = $1", id).Scan(
		&p.ID,
		&p.UserID,
		&p.ImageKey,
		&p.Label,
		&p.Confidence,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *PostgresPredictionRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM predictions WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return port.ErrNotFound
	}
	return nil
}

// translate приводит ошибки драйвера к ошибкам портов
func translate(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return port.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", port.ErrConflict, pqErr.Constraint)
	}
	return err
}

// Проверка реализации интерфейсов
var (
	_ port.UserRepository       = (*PostgresUserRepository)(nil)
	_ port.PredictionRepository = (*PostgresPredictionRepository)(nil)
)
