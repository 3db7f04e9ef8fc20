package port

import (
	"context"

	"tomato-health/internal/domain/entity"
)

// PlantDetector интерфейс эвристического фильтра «растение / не растение»
type PlantDetector interface {
	// Analyze декодирует изображение и считает статистики зелени и границ.
	// Ошибка означает, что изображение не удалось декодировать.
	Analyze(ctx context.Context, imageData []byte) (*entity.PlantAnalysis, error)
}
