package port

import (
	"context"

	"tomato-health/internal/domain/entity"
)

// DiseaseClassifier интерфейс предобученного классификатора болезней
type DiseaseClassifier interface {
	// Classify возвращает распределение вероятностей по классам модели
	Classify(ctx context.Context, imageData []byte) (*entity.Classification, error)
}
