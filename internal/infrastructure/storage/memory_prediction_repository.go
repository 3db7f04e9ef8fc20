package storage

import (
	"context"
	"sort"
	"sync"

	"tomato-health/internal/domain/entity"
	"tomato-health/internal/domain/port"
)

// MemoryPredictionRepository in-memory хранилище диагнозов
type MemoryPredictionRepository struct {
	mu      sync.RWMutex
	nextID  int64
	records map[int64]entity.PredictionRecord
}

// NewMemoryPredictionRepository создаёт новое in-memory хранилище
func NewMemoryPredictionRepository() *MemoryPredictionRepository {
	return &MemoryPredictionRepository{
		records: make(map[int64]entity.PredictionRecord),
	}
}

func (r *MemoryPredictionRepository) Create(ctx context.Context, record *entity.PredictionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	record.ID = r.nextID
	r.records[record.ID] = *record
	return nil
}

// ListByUser возвращает записи пользователя, новые первыми
func (r *MemoryPredictionRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]entity.PredictionRecord, error) {
	r.mu.RLock()
	items := make([]entity.PredictionRecord, 0)
	for _, rec := range r.records {
		if rec.UserID == userID {
			items = append(items, rec)
		}
	}
	r.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	if offset >= len(items) {
		return []entity.PredictionRecord{}, nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items, nil
}

func (r *MemoryPredictionRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, rec := range r.records {
		if rec.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryPredictionRepository) GetByID(ctx context.Context, id int64) (*entity.PredictionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, port.ErrNotFound
	}
	return &rec, nil
}

func (r *MemoryPredictionRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return port.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

// Проверка реализации интерфейса
var _ port.PredictionRepository = (*MemoryPredictionRepository)(nil)
