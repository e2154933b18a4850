package detector

import (
	"context"
	"image"
	"image/color"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/provider"
)

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func blankImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

type mockProvider struct {
	mock.Mock
	name string
}

func newMockProvider(name string) *mockProvider {
	return &mockProvider{name: name}
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) AnalyzeEmotion(ctx context.Context, image []byte) ([]provider.Classification, error) {
	args := m.Called(ctx, image)
	var out []provider.Classification
	if v := args.Get(0); v != nil {
		out = v.([]provider.Classification)
	}
	return out, args.Error(1)
}

// blockingProvider waits for its context to end
type blockingProvider struct{}

func (blockingProvider) Name() string { return "blocking" }

func (blockingProvider) AnalyzeEmotion(ctx context.Context, _ []byte) ([]provider.Classification, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
