package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"tomato-health/internal/domain/entity"
	"tomato-health/internal/domain/port"
)

const (
	HistoryPageSize = 10
	DashboardRecent = 5
)

// Dashboard сводка для главной страницы.
type Dashboard struct {
	Total  int                       `json:"total_predictions"`
	Recent []entity.PredictionRecord `json:"recent_predictions"`
}

// HistoryPage страница истории диагнозов.
type HistoryPage struct {
	Items   []entity.PredictionRecord `json:"items"`
	Page    int                       `json:"page"`
	PerPage int                       `json:"per_page"`
	Total   int                       `json:"total"`
	Pages   int                       `json:"pages"`
}

// HasNext сообщает, есть ли следующая страница.
func (p HistoryPage) HasNext() bool {
	return p.Page < p.Pages
}

type HistoryService struct {
	predictions port.PredictionRepository
	images      port.ImageStore
}

func NewHistoryService(predictions port.PredictionRepository, images port.ImageStore) *HistoryService {
	return &HistoryService{predictions: predictions, images: images}
}

// Dashboard возвращает общее число диагнозов и несколько последних.
func (s *HistoryService) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	total, err := s.predictions.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count predictions: %w", err)
	}
	recent, err := s.predictions.ListByUser(ctx, userID, DashboardRecent, 0)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	return &Dashboard{Total: total, Recent: nonNil(recent)}, nil
}

// History возвращает страницу истории, новые записи первыми.
// Номер страницы меньше 1 считается первой страницей.
func (s *HistoryService) History(ctx context.Context, userID int64, page int) (*HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	total, err := s.predictions.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count predictions: %w", err)
	}
	items, err := s.predictions.ListByUser(ctx, userID, HistoryPageSize, (page-1)*HistoryPageSize)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	return &HistoryPage{
		Items:   nonNil(items),
		Page:    page,
		PerPage: HistoryPageSize,
		Total:   total,
		Pages:   (total + HistoryPageSize - 1) / HistoryPageSize,
	}, nil
}

// Delete удаляет запись пользователя вместе с изображением.
// Чужая запись выглядит как несуществующая.
func (s *HistoryService) Delete(ctx context.Context, userID, predictionID int64) error {
	record, err := s.predictions.GetByID(ctx, predictionID)
	if err != nil {
		return err
	}
	if record.UserID != userID {
		return port.ErrNotFound
	}
	if err := s.predictions.Delete(ctx, predictionID); err != nil {
		return fmt.Errorf("delete prediction: %w", err)
	}
	if err := s.images.Delete(ctx, record.ImageKey); err != nil && !errors.Is(err, port.ErrNotFound) {
		log.WithError(err).WithField("key", record.ImageKey).Warn("failed to delete image")
	}
	return nil
}

// OpenImage открывает изображение, если оно принадлежит пользователю.
func (s *HistoryService) OpenImage(ctx context.Context, userID int64, key string) (io.ReadCloser, error) {
	if !OwnsImage(userID, key) {
		return nil, port.ErrNotFound
	}
	return s.images.Open(ctx, key)
}

func nonNil(items []entity.PredictionRecord) []entity.PredictionRecord {
	if items == nil {
		return []entity.PredictionRecord{}
	}
	return items
}
