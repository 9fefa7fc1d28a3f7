package analysis

import (
	"context"
	"fmt"

	"github.com/saturnino-fabrica-de-software/facex/internal/config"
	"github.com/saturnino-fabrica-de-software/facex/internal/provider"
	"github.com/saturnino-fabrica-de-software/facex/internal/provider/deepface"
	"github.com/saturnino-fabrica-de-software/facex/internal/provider/mock"
	"github.com/saturnino-fabrica-de-software/facex/internal/provider/rekognition"
)

// ProviderType defines supported attribute-inference backend types
type ProviderType string

const (
	// ProviderTypeDeepFace is the DeepFace REST backend (default)
	ProviderTypeDeepFace ProviderType = "deepface"
	// ProviderTypeRekognition is the AWS Rekognition backend
	ProviderTypeRekognition ProviderType = "rekognition"
	// ProviderTypeMock is the deterministic in-process backend for
	// development without any inference service
	ProviderTypeMock ProviderType = "mock"
)

// NewProvider creates an AttributeProvider instance based on configuration.
//
// Environment variables:
//   - PROVIDER_TYPE: "deepface", "rekognition" or "mock" (default: "deepface")
//   - DEEPFACE_URL: DeepFace API URL (default: "http://localhost:5005")
//   - DEEPFACE_DETECTOR: face-detector backend (default: "opencv")
//   - AWS_REGION: AWS region for Rekognition (default: "us-east-1")
//   - AWS credentials via the AWS SDK credential chain
func NewProvider(ctx context.Context, cfg *config.Config) (provider.AttributeProvider, error) {
	switch ProviderType(cfg.ProviderType) {
	case ProviderTypeRekognition:
		prov, err := rekognition.NewProvider(ctx, rekognition.Config{Region: cfg.AWSRegion})
		if err != nil {
			return nil, fmt.Errorf("create rekognition provider: %w", err)
		}
		return prov, nil

	case ProviderTypeMock:
		return mock.New(), nil

	case ProviderTypeDeepFace, "":
		deepfaceConfig := deepface.DefaultConfig()
		if cfg.DeepFaceURL != "" {
			deepfaceConfig.BaseURL = cfg.DeepFaceURL
		}
		if cfg.DeepFaceDetector != "" {
			deepfaceConfig.Detector = cfg.DeepFaceDetector
		}
		return deepface.NewProvider(deepfaceConfig), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s, %s)",
			cfg.ProviderType, ProviderTypeDeepFace, ProviderTypeRekognition, ProviderTypeMock)
	}
}
