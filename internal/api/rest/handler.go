package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"tomato-health/config"
	app "tomato-health/internal/application"
	"tomato-health/internal/container"
	"tomato-health/internal/domain/entity"
	"tomato-health/internal/domain/port"
	"tomato-health/internal/infrastructure/auth"
)

const (
	msgModelUnavailable = "Model not available. Please contact administrator."
	msgInternal         = "Internal server error"
	msgUnauthorized     = "Authentication required"
)

type Handler struct {
	users     *app.UserService
	diagnosis *app.DiagnosisService
	history   *app.HistoryService
	tokens    *auth.TokenIssuer
	denylist  port.TokenDenylist
	auth      config.AuthProperties
	maxUpload int64
}

func NewHandler(cfg *config.Config, c *container.Container) *Handler {
	return &Handler{
		users:     c.UserService,
		diagnosis: c.DiagnosisService,
		history:   c.HistoryService,
		tokens:    c.Tokens,
		denylist:  c.Denylist,
		auth:      cfg.Auth,
		maxUpload: cfg.HTTP.MaxUploadBytes,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "model_loaded": h.diagnosis.Available()})
}

// Diseases возвращает каталог классов с рекомендациями
func (h *Handler) Diseases(c *gin.Context) {
	type disease struct {
		Name      string `json:"name"`
		Treatment string `json:"treatment"`
	}
	result := make([]disease, 0, len(entity.DiseaseClasses))
	for _, name := range entity.DiseaseClasses {
		result = append(result, disease{Name: name, Treatment: entity.Treatment(name)})
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "payload": result})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"status": "error", "error": msg})
}

// respondError переводит ошибки сервисов в HTTP-ответ
func respondError(c *gin.Context, err error) {
	var formErr *app.FormError
	switch {
	case errors.Is(err, app.ErrUsernameTaken), errors.Is(err, app.ErrEmailTaken):
		fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, app.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, err.Error())
	case errors.As(err, &formErr):
		fail(c, http.StatusBadRequest, formErr.Message)
	case errors.Is(err, port.ErrNotFound):
		fail(c, http.StatusNotFound, "Not found")
	case errors.Is(err, app.ErrModelUnavailable):
		fail(c, http.StatusServiceUnavailable, msgModelUnavailable)
	default:
		log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		fail(c, http.StatusInternalServerError, msgInternal)
	}
}
