package face

import (
	"context"
	"fmt"

	"github.com/saturnino-fabrica-de-software/aiface/internal/config"
	"github.com/saturnino-fabrica-de-software/aiface/internal/provider"
	"github.com/saturnino-fabrica-de-software/aiface/internal/provider/deepface"
	"github.com/saturnino-fabrica-de-software/aiface/internal/provider/mock"
	"github.com/saturnino-fabrica-de-software/aiface/internal/provider/rekognition"
)

// ProviderType defines supported face model providers
type ProviderType string

const (
	// ProviderTypeDeepFace is the DeepFace REST API (default)
	ProviderTypeDeepFace ProviderType = "deepface"
	// ProviderTypeRekognition is the AWS Rekognition provider
	ProviderTypeRekognition ProviderType = "rekognition"
	// ProviderTypeMock returns deterministic results without any model, for local development
	ProviderTypeMock ProviderType = "mock"
)

// NewFaceAnalyzer creates a FaceAnalyzer instance based on configuration
//
// Environment variables:
//   - PROVIDER_TYPE: "deepface", "rekognition" or "mock" (default: "deepface")
//   - DEEPFACE_URL: DeepFace API URL (default: "http://localhost:5005")
//   - AWS_REGION: AWS region for Rekognition (default: "us-east-1")
//   - AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY: via AWS SDK credential chain
func NewFaceAnalyzer(ctx context.Context, cfg *config.Config) (provider.FaceAnalyzer, error) {
	switch ProviderType(cfg.ProviderType) {
	case ProviderTypeRekognition:
		return createRekognitionProvider(ctx, cfg)

	case ProviderTypeMock:
		return mock.New(), nil

	case ProviderTypeDeepFace, "":
		return createDeepFaceProvider(cfg), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s, %s)",
			cfg.ProviderType, ProviderTypeDeepFace, ProviderTypeRekognition, ProviderTypeMock)
	}
}

func createRekognitionProvider(ctx context.Context, cfg *config.Config) (provider.FaceAnalyzer, error) {
	rekogConfig := rekognition.DefaultConfig()
	if cfg.AWSRegion != "" {
		rekogConfig.Region = cfg.AWSRegion
	}
	if cfg.RekognitionThreshold > 0 {
		rekogConfig.SimilarityThreshold = cfg.RekognitionThreshold
	}

	prov, err := rekognition.NewProvider(ctx, rekogConfig)
	if err != nil {
		return nil, fmt.Errorf("create rekognition provider: %w", err)
	}

	return prov, nil
}

// createDeepFaceProvider fills unset fields from deepface.DefaultConfig
func createDeepFaceProvider(cfg *config.Config) provider.FaceAnalyzer {
	dfConfig := deepface.DefaultConfig()

	if cfg.DeepFaceURL != "" {
		dfConfig.BaseURL = cfg.DeepFaceURL
	}
	if cfg.DeepFaceTimeout > 0 {
		dfConfig.Timeout = cfg.DeepFaceTimeout
	}
	if cfg.DeepFaceModel != "" {
		dfConfig.Model = cfg.DeepFaceModel
	}
	if cfg.DeepFaceDetector != "" {
		dfConfig.Detector = cfg.DeepFaceDetector
	}
	if cfg.DeepFaceDistanceMetric != "" {
		dfConfig.DistanceMetric = cfg.DeepFaceDistanceMetric
	}
	dfConfig.RetryCount = cfg.DeepFaceRetryCount

	return deepface.NewProvider(dfConfig)
}
