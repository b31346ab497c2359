package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port           int           `envconfig:"PORT" default:"5000" validate:"min=1,max=65535"`
	Environment    string        `envconfig:"ENV" default:"development" validate:"oneof=development production test"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"60s" validate:"gt=0"`
	MaxImageSize   int           `envconfig:"MAX_IMAGE_SIZE" default:"10485760" validate:"gt=0"`

	// Provider
	ProviderType           string        `envconfig:"PROVIDER_TYPE" default:"deepface" validate:"oneof=deepface rekognition mock"`
	DeepFaceURL            string        `envconfig:"DEEPFACE_URL" default:"http://localhost:5005" validate:"omitempty,url"`
	DeepFaceTimeout        time.Duration `envconfig:"DEEPFACE_TIMEOUT" default:"30s" validate:"gt=0"`
	DeepFaceRetryCount     int           `envconfig:"DEEPFACE_RETRY_COUNT" default:"3" validate:"min=0,max=10"`
	DeepFaceModel          string        `envconfig:"DEEPFACE_MODEL" default:"VGG-Face"`
	DeepFaceDetector       string        `envconfig:"DEEPFACE_DETECTOR" default:"opencv"`
	DeepFaceDistanceMetric string        `envconfig:"DEEPFACE_DISTANCE_METRIC" default:"cosine" validate:"oneof=cosine euclidean euclidean_l2"`
	AWSRegion              string        `envconfig:"AWS_REGION" default:"us-east-1"`
	RekognitionThreshold   float64       `envconfig:"REKOGNITION_SIMILARITY_THRESHOLD" default:"0.8" validate:"gte=0,lte=1"`

	// Reference image fetch
	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"10s" validate:"gt=0"`

	// Rate limiting, zero RPS disables it
	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"10" validate:"gte=0"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST" default:"20" validate:"gte=0"`

	// Observability
	LogFile        string `envconfig:"LOG_FILE"`
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
}

// Load reads an optional .env file, then the environment, then validates.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
