package mock

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/domain"
)

func encode(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func gradient(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 2), G: uint8(y * 2), B: 60, A: 255})
		}
	}
	return img
}

func TestProvider_AnalyzeEmotion(t *testing.T) {
	p := New()
	data := encode(t, gradient(120, 80))

	got, err := p.AnalyzeEmotion(context.Background(), data)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, &domain.Region{X: 40, Y: 20, Width: 40, Height: 40}, got[0].Region)
	require.Len(t, got[0].Scores, len(mockLabels))

	total := 0.0
	for i, s := range got[0].Scores {
		assert.Equal(t, mockLabels[i], s.Label)
		total += s.Score
	}
	assert.InDelta(t, 100, total, 0.0001)

	again, err := p.AnalyzeEmotion(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, got, again, "scores are deterministic")
}

func TestProvider_BlankImageHasNoFace(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	got, err := New().AnalyzeEmotion(context.Background(), encode(t, img))

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProvider_RejectsGarbage(t *testing.T) {
	_, err := New().AnalyzeEmotion(context.Background(), []byte("not an image"))
	assert.Error(t, err)
}

func TestProvider_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().AnalyzeEmotion(ctx, encode(t, gradient(10, 10)))
	assert.ErrorIs(t, err, context.Canceled)
}
