package deepface

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/domain"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/provider"
)

// Provider implements provider.EmotionProvider using the DeepFace API.
// One Provider is bound to one detector backend and detection policy.
type Provider struct {
	client *Client
	name   string
}

// NewProvider creates a new DeepFace provider
func NewProvider(config Config) *Provider {
	name := "deepface/" + config.Detector
	if !config.EnforceDetection {
		name += "+lenient"
	}
	return &Provider{
		client: NewClient(config),
		name:   name,
	}
}

func (p *Provider) Name() string {
	return p.name
}

// AnalyzeEmotion sends the JPEG to /analyze and maps each face result
func (p *Provider) AnalyzeEmotion(ctx context.Context, image []byte) ([]provider.Classification, error) {
	imageBase64 := base64.StdEncoding.EncodeToString(image)

	resp, err := p.client.Analyze(ctx, imageBase64)
	if err != nil {
		if isNoFaceError(err) {
			return nil, fmt.Errorf("analyze emotion: %w: %v", provider.ErrNoFace, err)
		}
		return nil, fmt.Errorf("analyze emotion: %w", err)
	}

	out := make([]provider.Classification, 0, len(resp.Results))
	for _, result := range resp.Results {
		if len(result.Emotion) == 0 {
			continue
		}
		c := provider.Classification{
			Scores: append([]domain.EmotionScore(nil), result.Emotion...),
		}
		region := domain.Region{
			X:      result.Region.X,
			Y:      result.Region.Y,
			Width:  result.Region.W,
			Height: result.Region.H,
		}
		if region.Valid() {
			c.Region = &region
		}
		out = append(out, c)
	}

	return out, nil
}

// DeepFace answers strict-mode misses with a 400 and this phrase.
func isNoFaceError(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != 400 {
		return false
	}
	return strings.Contains(strings.ToLower(statusErr.Body), "could not be detected")
}

// Ensure Provider implements provider.EmotionProvider
var _ provider.EmotionProvider = (*Provider)(nil)
