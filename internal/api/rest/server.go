package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"tomato-health/config"
	"tomato-health/internal/container"
)

// NewRouter собирает маршруты HTTP API
func NewRouter(cfg *config.Config, c *container.Container) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.AllowOrigins,
		AllowMethods:     []string{"GET", "HEAD", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "Cache-Control"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTP.Pprof {
		pprof.Register(router)
	}

	h := NewHandler(cfg, c)

	router.GET("/health", h.Health)

	api := router.Group("/api")
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.GET("/diseases", h.Diseases)

	private := api.Group("", h.RequireAuth)
	private.POST("/logout", h.Logout)
	private.GET("/me", h.Me)
	private.POST("/predict", h.Predict)
	private.GET("/dashboard", h.Dashboard)
	private.GET("/history", h.History)
	private.DELETE("/history/:id", h.DeleteHistory)
	private.GET("/images/*key", h.Image)

	router.NoRoute(func(ctx *gin.Context) { ctx.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Not found"}) })
	return router
}

// Server HTTP-сервер с корректной остановкой
type Server struct {
	srv             *http.Server
	shutdownTimeout time.Duration
}

func NewServer(cfg *config.Config, c *container.Container) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         cfg.HTTP.Address,
			Handler:      NewRouter(cfg, c),
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		},
		shutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}
}

// Run обслуживает запросы до отмены ctx
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("address", s.srv.Addr).Info("http server is listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	log.Info("http server is shutting down")
	return s.srv.Shutdown(shutdownCtx)
}
