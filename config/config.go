package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type (
	Config struct {
		LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
		LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

		HTTP     HTTPProperties     `envPrefix:"HTTP_"`
		Auth     AuthProperties     `envPrefix:"AUTH_"`
		DB       DBProperties       `envPrefix:"DB_"`
		Redis    RedisProperties    `envPrefix:"REDIS_"`
		Storage  StorageProperties  `envPrefix:"STORAGE_"`
		S3       S3Properties       `envPrefix:"S3_"`
		Model    ModelProperties    `envPrefix:"MODEL_"`
		Detector DetectorProperties `envPrefix:"DETECTOR_"`
		Pipeline PipelineProperties `envPrefix:"PIPELINE_"`
		Telegram TelegramProperties `envPrefix:"TELEGRAM_"`
	}

	HTTPProperties struct {
		Address         string        `env:"ADDRESS" envDefault:":8080"`
		ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
		WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
		ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
		MaxUploadBytes  int64         `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`
		AllowOrigins    []string      `env:"ALLOW_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
		Pprof           bool          `env:"PPROF" envDefault:"false"`
	}

	AuthProperties struct {
		Secret       string        `env:"SECRET" envDefault:"change-me"`
		TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"12h"`
		CookieName   string        `env:"COOKIE" envDefault:"th_access_token"`
		CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`
		BcryptCost   int           `env:"BCRYPT_COST" envDefault:"10"`
	}

	// DBProperties пустой DSN означает хранение в памяти
	DBProperties struct {
		DSN string `env:"DSN"`
	}

	// RedisProperties пустой адрес означает список отозванных токенов в памяти
	RedisProperties struct {
		Address        string `env:"ADDRESS"`
		Password       string `env:"PASSWORD"`
		MaxConnections int    `env:"MAX_CONNECTIONS" envDefault:"10"`
	}

	StorageProperties struct {
		Driver string `env:"DRIVER" envDefault:"fs"`
		Dir    string `env:"DIR" envDefault:"static/uploads"`
	}

	S3Properties struct {
		Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
		AccessKey string `env:"ACCESS_KEY"`
		SecretKey string `env:"SECRET_KEY"`
		Bucket    string `env:"BUCKET" envDefault:"tomato-health"`
		Region    string `env:"REGION"`
		UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
	}

	ModelProperties struct {
		Path         string `env:"PATH" envDefault:"models/tomato_disease_model.onnx"`
		MetadataPath string `env:"METADATA_PATH" envDefault:"models/metadata.json"`
		LibraryPath  string `env:"ONNXRUNTIME_LIB"`
	}

	DetectorProperties struct {
		HueMin          uint8   `env:"HUE_MIN" envDefault:"35"`
		HueMax          uint8   `env:"HUE_MAX" envDefault:"85"`
		SatMin          uint8   `env:"SAT_MIN" envDefault:"40"`
		ValMin          uint8   `env:"VAL_MIN" envDefault:"40"`
		CannyLow        float64 `env:"CANNY_LOW" envDefault:"50"`
		CannyHigh       float64 `env:"CANNY_HIGH" envDefault:"150"`
		GreenMinPercent float64 `env:"GREEN_MIN_PERCENT" envDefault:"15"`
		EdgeMinPercent  float64 `env:"EDGE_MIN_PERCENT" envDefault:"2"`
		MaxPixels       int     `env:"MAX_PIXELS" envDefault:"25000000"`
	}

	PipelineProperties struct {
		MinConfidence float64 `env:"MIN_CONFIDENCE" envDefault:"0.3"`
	}

	// TelegramProperties при пустом токене бот не запускается
	TelegramProperties struct {
		Token string `env:"TOKEN"`
		Debug bool   `env:"DEBUG" envDefault:"false"`
	}
)

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "fs", "s3":
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Pipeline.MinConfidence < 0 || c.Pipeline.MinConfidence > 1 {
		return fmt.Errorf("PIPELINE_MIN_CONFIDENCE must be within [0,1], got %v", c.Pipeline.MinConfidence)
	}
	if c.Detector.HueMin > c.Detector.HueMax {
		return fmt.Errorf("DETECTOR_HUE_MIN %d exceeds DETECTOR_HUE_MAX %d", c.Detector.HueMin, c.Detector.HueMax)
	}
	if c.Detector.CannyLow > c.Detector.CannyHigh {
		return fmt.Errorf("DETECTOR_CANNY_LOW exceeds DETECTOR_CANNY_HIGH")
	}
	if c.Auth.Secret == "" {
		return fmt.Errorf("AUTH_SECRET is required")
	}
	return nil
}
