package rekognition

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/domain"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/provider"
)

const (
	// maxImageSize is the maximum image size supported by AWS Rekognition (5MB)
	maxImageSize = 5 * 1024 * 1024
	// minImageSize is the minimum image size for valid processing
	minImageSize = 100
)

// Rekognition uses its own emotion names; CONFUSED and UNKNOWN have no
// counterpart in the label vocabulary and are dropped.
var emotionLabels = map[types.EmotionName]string{
	types.EmotionNameHappy:     domain.LabelHappy,
	types.EmotionNameSad:       domain.LabelSad,
	types.EmotionNameAngry:     domain.LabelAngry,
	types.EmotionNameFear:      domain.LabelFear,
	types.EmotionNameDisgusted: domain.LabelDisgusted,
	types.EmotionNameSurprised: domain.LabelSurprised,
	types.EmotionNameCalm:      domain.LabelNeutral,
}

// Provider implements provider.EmotionProvider using AWS Rekognition DetectFaces
type Provider struct {
	api    DetectFacesAPI
	config Config
}

// Ensure Provider implements provider.EmotionProvider interface at compile time
var _ provider.EmotionProvider = (*Provider)(nil)

// NewProvider creates a Rekognition provider backed by the default AWS client
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create rekognition client: %w", err)
	}
	return NewProviderWithAPI(client, cfg), nil
}

// NewProviderWithAPI wires a provider to any DetectFacesAPI implementation
func NewProviderWithAPI(api DetectFacesAPI, cfg Config) *Provider {
	return &Provider{api: api, config: cfg}
}

func (p *Provider) Name() string {
	return "rekognition"
}

// validateImage checks if image data is valid for Rekognition processing
func validateImage(image []byte) error {
	if len(image) == 0 {
		return ErrInvalidImage
	}
	if len(image) < minImageSize {
		return fmt.Errorf("%w: image too small (%d bytes, minimum %d)", ErrInvalidImage, len(image), minImageSize)
	}
	if len(image) > maxImageSize {
		return fmt.Errorf("%w: image too large (%d bytes, maximum %d)", ErrInvalidImage, len(image), maxImageSize)
	}
	return nil
}

// AnalyzeEmotion detects faces with all attributes and maps their emotions.
// Returns an empty slice if no faces are detected (not an error).
func (p *Provider) AnalyzeEmotion(ctx context.Context, img []byte) ([]provider.Classification, error) {
	if err := validateImage(img); err != nil {
		return nil, err
	}

	dims, _, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	output, err := p.api.DetectFaces(ctx, &rekognition.DetectFacesInput{
		Image:      &types.Image{Bytes: img},
		Attributes: []types.Attribute{types.AttributeAll},
	})
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", parseAPIError(err))
	}

	out := make([]provider.Classification, 0, len(output.FaceDetails))
	for _, face := range output.FaceDetails {
		if aws.ToFloat32(face.Confidence) < p.config.MinFaceConfidence {
			continue
		}
		scores := mapEmotions(face.Emotions)
		if len(scores) == 0 {
			continue
		}
		out = append(out, provider.Classification{
			Scores: scores,
			Region: toRegion(face.BoundingBox, dims.Width, dims.Height),
		})
	}

	return out, nil
}

func mapEmotions(emotions []types.Emotion) []domain.EmotionScore {
	scores := make([]domain.EmotionScore, 0, len(emotions))
	for _, e := range emotions {
		label, ok := emotionLabels[e.Type]
		if !ok {
			continue
		}
		scores = append(scores, domain.EmotionScore{
			Label: label,
			Score: float64(aws.ToFloat32(e.Confidence)),
		})
	}
	return scores
}

// toRegion converts Rekognition's ratio box into pixels
func toRegion(box *types.BoundingBox, width, height int) *domain.Region {
	if box == nil {
		return nil
	}
	r := domain.Region{
		X:      int(math.Round(float64(aws.ToFloat32(box.Left)) * float64(width))),
		Y:      int(math.Round(float64(aws.ToFloat32(box.Top)) * float64(height))),
		Width:  int(math.Round(float64(aws.ToFloat32(box.Width)) * float64(width))),
		Height: int(math.Round(float64(aws.ToFloat32(box.Height)) * float64(height))),
	}
	if !r.Valid() {
		return nil
	}
	return &r
}
