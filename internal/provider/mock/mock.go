package mock

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/domain"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/provider"
)

// flatTolerance é a variação de canal abaixo da qual a imagem conta como vazia
const flatTolerance = 12

// mockLabels segue a ordem das chaves de emoção do DeepFace
var mockLabels = []string{
	domain.LabelAngry,
	domain.LabelDisgust,
	domain.LabelFear,
	domain.LabelHappy,
	domain.LabelSad,
	domain.LabelSurprise,
	domain.LabelNeutral,
}

// Provider implementa provider.EmotionProvider para testes e desenvolvimento.
// Imagens sem variação (ex.: quadro preto) não têm face; as demais recebem
// scores determinísticos derivados do hash da imagem.
type Provider struct{}

// New cria uma nova instância do MockProvider
func New() *Provider {
	return &Provider{}
}

func (p *Provider) Name() string {
	return "mock"
}

// AnalyzeEmotion simula a classificação de emoção
func (p *Provider) AnalyzeEmotion(ctx context.Context, data []byte) ([]provider.Classification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("mock decode: %w", err)
	}

	if isFlat(img) {
		return []provider.Classification{}, nil
	}

	b := img.Bounds()
	side := min(b.Dx(), b.Dy()) / 2
	region := &domain.Region{
		X:      b.Min.X + (b.Dx()-side)/2,
		Y:      b.Min.Y + (b.Dy()-side)/2,
		Width:  side,
		Height: side,
	}

	return []provider.Classification{{
		Scores: generateScores(data),
		Region: region,
	}}, nil
}

// generateScores gera scores determinísticos que somam 100
func generateScores(data []byte) []domain.EmotionScore {
	hash := sha256.Sum256(data)
	dominant := int(hash[0]) % len(mockLabels)

	weights := make([]float64, len(mockLabels))
	total := 0.0
	for i := range mockLabels {
		weights[i] = float64(hash[i+1]%32) + 1
		total += weights[i]
	}

	scores := make([]domain.EmotionScore, len(mockLabels))
	for i, label := range mockLabels {
		score := weights[i] / total * 40
		if i == dominant {
			score += 60
		}
		scores[i] = domain.EmotionScore{Label: label, Score: score}
	}
	return scores
}

// isFlat indica se todo pixel amostrado fica dentro de flatTolerance
func isFlat(img image.Image) bool {
	b := img.Bounds()
	if b.Empty() {
		return true
	}

	step := max(1, min(b.Dx(), b.Dy())/32)
	var lo, hi [3]uint32
	first := true
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r, g, bl, _ := img.At(x, y).RGBA()
			px := [3]uint32{r >> 8, g >> 8, bl >> 8}
			if first {
				lo, hi = px, px
				first = false
				continue
			}
			for c := 0; c < 3; c++ {
				lo[c] = min(lo[c], px[c])
				hi[c] = max(hi[c], px[c])
			}
		}
	}

	for c := 0; c < 3; c++ {
		if hi[c]-lo[c] > flatTolerance {
			return false
		}
	}
	return true
}

var _ provider.EmotionProvider = (*Provider)(nil)
