package app

import (
	"context"

	log "github.com/sirupsen/logrus"

	"tomato-health/internal/domain/entity"
	"tomato-health/internal/domain/port"
)

// Сообщения для пользователя. Формулировки являются частью контракта с UI.
const (
	MsgNotPlant      = "The uploaded image doesn't appear to contain plant material. Please upload a clear photo of a tomato leaf or plant."
	MsgLowConfidence = "The image quality is too low for reliable disease detection. Please upload a clearer image of a tomato leaf."
	MsgValidationOK  = "Image validation passed."
	MsgConfidenceOK  = "Confidence check passed."
)

// DefaultMinConfidence минимальная уверенность top-1 класса.
const DefaultMinConfidence = 0.3

// ContentValidator оборачивает детектор и превращает его ответ в решение.
// Ошибка декодирования и пустое изображение дают отказ, а не ошибку.
type ContentValidator struct {
	detector port.PlantDetector
}

// NewContentValidator создаёт валидатор поверх детектора.
func NewContentValidator(detector port.PlantDetector) *ContentValidator {
	return &ContentValidator{detector: detector}
}

// Validate проверяет, что на изображении похоже на растение.
func (v *ContentValidator) Validate(ctx context.Context, imageData []byte) (entity.ValidationResult, *entity.PlantAnalysis) {
	analysis, err := v.detector.Analyze(ctx, imageData)
	if err != nil {
		log.WithError(err).Debug("plant detection failed, rejecting image")
		return entity.Reject(MsgNotPlant), nil
	}
	if analysis == nil || !analysis.IsPlant {
		return entity.Reject(MsgNotPlant), analysis
	}
	return entity.Accept(MsgValidationOK), analysis
}

// ConfidenceGate отсекает неуверенные ответы классификатора.
type ConfidenceGate struct {
	MinConfidence float64
}

// NewConfidenceGate создаёт фильтр с минимальной уверенностью top-1.
func NewConfidenceGate(minConfidence float64) ConfidenceGate {
	return ConfidenceGate{MinConfidence: minConfidence}
}

// Check принимает уверенность не ниже порога. NaN отклоняется.
func (g ConfidenceGate) Check(confidence float64) entity.ValidationResult {
	if !(confidence >= g.MinConfidence) {
		return entity.Reject(MsgLowConfidence)
	}
	return entity.Accept(MsgConfidenceOK)
}
