package face

import (
	"context"
	"fmt"
	"strings"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/config"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/provider"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/provider/deepface"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/provider/mock"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/provider/rekognition"
)

// ProviderType defines supported emotion provider types
type ProviderType string

const (
	// ProviderTypeDeepFace is the DeepFace REST service (local, default)
	ProviderTypeDeepFace ProviderType = "deepface"
	// ProviderTypeRekognition is AWS Rekognition DetectFaces (cloud)
	ProviderTypeRekognition ProviderType = "rekognition"
	// ProviderTypeMock is a deterministic in-process classifier for demos and tests
	ProviderTypeMock ProviderType = "mock"
)

// NewEmotionProviders builds the ordered strategy chain used by the detector.
// DeepFace yields one strategy per configured detector backend, in order.
//
// Environment variables:
//   - DETECTOR_PROVIDER: "deepface", "rekognition" or "mock" (default: "deepface")
//   - DEEPFACE_URL: DeepFace API URL (default: "http://localhost:5000")
//   - DEEPFACE_BACKENDS: comma separated detector backends (default: "retinaface,opencv")
//   - DEEPFACE_ENFORCE_DETECTION: strict face detection (default: true)
//   - AWS_REGION: AWS region for Rekognition (default: "us-east-1")
func NewEmotionProviders(ctx context.Context, cfg *config.Config) ([]provider.EmotionProvider, error) {
	providerType := ProviderType(cfg.DetectorProvider)

	switch providerType {
	case ProviderTypeRekognition:
		prov, err := createRekognitionProvider(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return []provider.EmotionProvider{prov}, nil

	case ProviderTypeMock:
		return []provider.EmotionProvider{mock.New()}, nil

	case ProviderTypeDeepFace, "":
		return createDeepFaceProviders(cfg), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s, %s)",
			cfg.DetectorProvider, ProviderTypeDeepFace, ProviderTypeRekognition, ProviderTypeMock)
	}
}

// createRekognitionProvider creates an AWS Rekognition provider instance
func createRekognitionProvider(ctx context.Context, cfg *config.Config) (provider.EmotionProvider, error) {
	rekogConfig := rekognition.DefaultConfig()
	if cfg.AWSRegion != "" {
		rekogConfig.Region = cfg.AWSRegion
	}

	prov, err := rekognition.NewProvider(ctx, rekogConfig)
	if err != nil {
		return nil, fmt.Errorf("create rekognition provider in %s: %w", rekogConfig.Region, err)
	}

	return prov, nil
}

// createDeepFaceProviders creates one DeepFace provider per detector backend
func createDeepFaceProviders(cfg *config.Config) []provider.EmotionProvider {
	base := deepface.DefaultConfig()
	if cfg.DeepFaceURL != "" {
		base.BaseURL = cfg.DeepFaceURL
	}
	if cfg.DetectorTimeout > 0 {
		base.Timeout = cfg.DetectorTimeout
	}
	base.EnforceDetection = cfg.DeepFaceEnforceDetection

	backends := make([]string, 0, len(cfg.DeepFaceBackends))
	for _, b := range cfg.DeepFaceBackends {
		if b = strings.TrimSpace(b); b != "" {
			backends = append(backends, b)
		}
	}
	if len(backends) == 0 {
		backends = []string{base.Detector}
	}

	providers := make([]provider.EmotionProvider, 0, len(backends))
	for _, backend := range backends {
		c := base
		c.Detector = backend
		providers = append(providers, deepface.NewProvider(c))
	}
	return providers
}
