package main

import (
	"context"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"tomato-health/config"
	"tomato-health/internal/api/rest"
	"tomato-health/internal/api/telegram"
	"tomato-health/internal/container"
	"tomato-health/internal/infrastructure/classifier"
	"tomato-health/internal/infrastructure/objectstore"
	"tomato-health/internal/infrastructure/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := container.Dependencies{
		Chats: storage.NewMemoryChatRepository(),
	}

	// Пользователи и диагнозы: PostgreSQL или память
	if cfg.DB.DSN != "" {
		store, err := storage.NewPostgresStore(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer store.Close()
		deps.Users = store.Users()
		deps.Predictions = store.Predictions()
	} else {
		log.Warn("DB_DSN is empty, predictions are kept in memory")
		deps.Users = storage.NewMemoryUserRepository()
		deps.Predictions = storage.NewMemoryPredictionRepository()
	}

	// Отозванные токены: Redis или память
	if cfg.Redis.Address != "" {
		pool := storage.NewRedisPool(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.MaxConnections)
		defer pool.Close()
		denylist := storage.NewRedisTokenDenylist(pool)
		if err := denylist.Ping(ctx); err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		deps.Denylist = denylist
	} else {
		deps.Denylist = storage.NewMemoryTokenDenylist()
	}

	// Хранилище изображений
	switch cfg.Storage.Driver {
	case "s3":
		store, err := objectstore.NewMinioStore(ctx, cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey,
			cfg.S3.Bucket, cfg.S3.Region, cfg.S3.UseSSL)
		if err != nil {
			log.Fatalf("Failed to connect to object storage: %v", err)
		}
		deps.Images = store
	default:
		store, err := objectstore.NewFileStore(cfg.Storage.Dir)
		if err != nil {
			log.Fatalf("Failed to create upload dir: %v", err)
		}
		deps.Images = store
	}

	// Модель: без неё сервис работает, но диагностика отвечает 503
	model, err := classifier.NewOnnxClassifier(cfg.Model.Path, cfg.Model.MetadataPath, cfg.Model.LibraryPath)
	if err != nil {
		log.WithError(err).WithField("path", cfg.Model.Path).Warn("model is not loaded")
	} else {
		defer model.Close()
		deps.Classifier = model
		log.WithField("classes", len(model.Classes())).Info("model loaded")
	}

	// Собираем сервисы приложения
	appContainer := container.New(cfg, deps)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return rest.NewServer(cfg, appContainer).Run(ctx)
	})

	if cfg.Telegram.Token != "" {
		bot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.Debug, appContainer)
		if err != nil {
			log.Fatalf("Failed to create bot: %v", err)
		}
		g.Go(func() error {
			log.Info("Bot is running...")
			return bot.Run(ctx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Info("stopped")
}

func setupLogging(cfg *config.Config) {
	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
