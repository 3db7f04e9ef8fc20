package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"tomato-health/internal/domain/entity"
	"tomato-health/internal/domain/port"
)

// ErrModelUnavailable классификатор не загружен.
var ErrModelUnavailable = errors.New("model is not available")

const topPredictions = 3

// Upload загруженный файл, уже прошедший проверку типа и размера.
type Upload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// DiagnosisService проводит загрузку через конвейер:
// проверка содержимого → классификация → проверка уверенности → сохранение.
type DiagnosisService struct {
	validator   *ContentValidator
	classifier  port.DiseaseClassifier
	gate        ConfidenceGate
	predictions port.PredictionRepository
	images      port.ImageStore
	now         func() time.Time
}

// NewDiagnosisService создаёт конвейер. classifier может быть nil, если модель не загрузилась.
func NewDiagnosisService(
	validator *ContentValidator,
	classifier port.DiseaseClassifier,
	gate ConfidenceGate,
	predictions port.PredictionRepository,
	images port.ImageStore,
) *DiagnosisService {
	return &DiagnosisService{
		validator:   validator,
		classifier:  classifier,
		gate:        gate,
		predictions: predictions,
		images:      images,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Available сообщает, загружена ли модель.
func (s *DiagnosisService) Available() bool {
	return s.classifier != nil
}

// Diagnose прогоняет загрузку через конвейер. Отказы фильтров возвращаются
// в Diagnosis с причиной; ошибка означает сбой инфраструктуры.
func (s *DiagnosisService) Diagnose(ctx context.Context, userID int64, upload Upload) (*entity.Diagnosis, error) {
	if s.classifier == nil {
		return nil, ErrModelUnavailable
	}

	d := &entity.Diagnosis{State: entity.DiagnosisReceived}
	logger := log.WithField("user_id", userID)

	content, analysis := s.validator.Validate(ctx, upload.Data)
	d.Analysis = analysis
	d.State = entity.DiagnosisContentChecked
	if analysis != nil {
		logger = logger.WithFields(log.Fields{
			"green_pct": analysis.GreenPercentage,
			"edge_pct":  analysis.EdgePercentage,
		})
	}
	if !content.Accepted {
		logger.Info("upload rejected by content validator")
		return reject(d, content.Reason), nil
	}

	classification, err := s.classifier.Classify(ctx, upload.Data)
	if err != nil {
		return nil, fmt.Errorf("classify image: %w", err)
	}
	d.Classification = classification
	d.State = entity.DiagnosisClassified

	confidence := s.gate.Check(classification.Confidence)
	d.State = entity.DiagnosisConfidenceChecked
	logger = logger.WithFields(log.Fields{
		"label":      classification.Label,
		"confidence": classification.Confidence,
	})
	if !confidence.Accepted {
		logger.Info("upload rejected by confidence gate")
		return reject(d, confidence.Reason), nil
	}

	record, err := s.persist(ctx, userID, upload, classification)
	if err != nil {
		return nil, err
	}

	d.Record = record
	d.Treatment = entity.Treatment(classification.Label)
	d.Top = classification.Top(topPredictions)
	d.State = entity.DiagnosisAccepted
	logger.WithField("prediction_id", record.ID).Info("diagnosis accepted")
	return d, nil
}

// persist сохраняет изображение и запись. Если запись не сохранилась,
// изображение удаляется, чтобы не оставлять сирот.
func (s *DiagnosisService) persist(ctx context.Context, userID int64, upload Upload, c *entity.Classification) (*entity.PredictionRecord, error) {
	now := s.now()
	key := ImageKey(userID, upload.Filename, upload.ContentType, now)

	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := s.images.Put(ctx, key, upload.Data, contentType); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	record := &entity.PredictionRecord{
		UserID:     userID,
		ImageKey:   key,
		Label:      c.Label,
		Confidence: c.Confidence,
		CreatedAt:  now,
	}
	if err := s.predictions.Create(ctx, record); err != nil {
		if delErr := s.images.Delete(ctx, key); delErr != nil {
			log.WithError(delErr).WithField("key", key).Warn("failed to remove orphaned image")
		}
		return nil, fmt.Errorf("save prediction: %w", err)
	}
	return record, nil
}

func reject(d *entity.Diagnosis, reason string) *entity.Diagnosis {
	d.State = entity.DiagnosisRejected
	d.Reason = reason
	return d
}

// ImageKey строит ключ хранилища: <user_id>/<timestamp>_<uuid><ext>.
func ImageKey(userID int64, filename, contentType string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		switch contentType {
		case "image/png":
			ext = ".png"
		default:
			ext = ".jpg"
		}
	}
	return fmt.Sprintf("%d/%s_%s%s", userID, now.Format("20060102_150405"), uuid.NewString(), ext)
}

// OwnsImage проверяет, что ключ изображения принадлежит пользователю.
func OwnsImage(userID int64, key string) bool {
	return strings.HasPrefix(key, fmt.Sprintf("%d/", userID)) && !strings.Contains(key, "..")
}
