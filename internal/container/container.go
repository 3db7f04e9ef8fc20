package container

import (
	"tomato-health/config"
	app "tomato-health/internal/application"
	"tomato-health/internal/domain/port"
	"tomato-health/internal/infrastructure/auth"
	"tomato-health/internal/infrastructure/vision"
)

// Dependencies адаптеры инфраструктуры, собранные в main
type Dependencies struct {
	Users       port.UserRepository
	Predictions port.PredictionRepository
	Chats       port.ChatSessionRepository
	Images      port.ImageStore
	Denylist    port.TokenDenylist
	// Classifier может быть nil, если модель не загрузилась
	Classifier port.DiseaseClassifier
}

type Container struct {
	UserService      *app.UserService
	ChatService      *app.ChatService
	DiagnosisService *app.DiagnosisService
	HistoryService   *app.HistoryService
	Tokens           *auth.TokenIssuer
	Denylist         port.TokenDenylist
}

func New(cfg *config.Config, deps Dependencies) *Container {
	detector := vision.NewPlantDetector(Thresholds(cfg.Detector))
	validator := app.NewContentValidator(detector)
	gate := app.NewConfidenceGate(cfg.Pipeline.MinConfidence)

	return &Container{
		UserService:      app.NewUserService(deps.Users, cfg.Auth.BcryptCost),
		ChatService:      app.NewChatService(deps.Chats),
		DiagnosisService: app.NewDiagnosisService(validator, deps.Classifier, gate, deps.Predictions, deps.Images),
		HistoryService:   app.NewHistoryService(deps.Predictions, deps.Images),
		Tokens:           auth.NewTokenIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL),
		Denylist:         deps.Denylist,
	}
}

// Thresholds переводит настройки детектора в пороги анализа
func Thresholds(p config.DetectorProperties) vision.Thresholds {
	return vision.Thresholds{
		HueMin:        p.HueMin,
		HueMax:        p.HueMax,
		SatMin:        p.SatMin,
		ValMin:        p.ValMin,
		CannyLow:      p.CannyLow,
		CannyHigh:     p.CannyHigh,
		GreenMinRatio: p.GreenMinPercent,
		EdgeMinRatio:  p.EdgeMinPercent,
		MaxPixels:     p.MaxPixels,
	}
}
