package detector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/disintegration/imaging"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/domain"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/provider"
)

const defaultJPEGQuality = 90

// Result is the outcome of one classification. Reading is nil when no
// face was found; Annotated is always set.
type Result struct {
	Reading   *domain.EmotionReading
	Annotated *image.NRGBA
	Strategy  string
}

// FaceDetected reports whether the result carries a label.
func (r *Result) FaceDetected() bool {
	return r.Reading != nil
}

// Confidence is 0 for a no-face result.
func (r *Result) Confidence() float64 {
	if r.Reading == nil {
		return 0
	}
	return r.Reading.Confidence
}

// Adapter classifies frames by trying each strategy in order until one
// answers.
type Adapter struct {
	strategies  []provider.EmotionProvider
	annotator   *Annotator
	timeout     time.Duration
	jpegQuality int
	logger      *slog.Logger
}

type Option func(*Adapter)

// WithTimeout bounds every strategy attempt.
func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) {
		a.timeout = d
	}
}

// WithJPEGQuality sets the quality of the frame sent to each strategy.
func WithJPEGQuality(q int) Option {
	return func(a *Adapter) {
		a.jpegQuality = q
	}
}

func NewAdapter(logger *slog.Logger, strategies []provider.EmotionProvider, opts ...Option) *Adapter {
	a := &Adapter{
		strategies:  strategies,
		annotator:   &Annotator{},
		jpegQuality: defaultJPEGQuality,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Annotator exposes the overlay renderer shared with the sampler.
func (a *Adapter) Annotator() *Annotator {
	return a.annotator
}

// Classify never mutates img. Strategy failures are not errors: when every
// strategy fails the result is a no-face reading.
func (a *Adapter) Classify(ctx context.Context, img image.Image) (*Result, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, domain.ErrInvalidImage.WithError(errors.New("image is empty"))
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(a.jpegQuality)); err != nil {
		return nil, domain.ErrInvalidImage.WithError(fmt.Errorf("encode jpeg: %w", err))
	}
	payload := buf.Bytes()

	var failures []error
	for _, strategy := range a.strategies {
		classifications, err := a.attempt(ctx, strategy, payload)
		if err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", strategy.Name(), err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		for _, c := range classifications {
			if reading, ok := Interpret(c.Scores, c.Region); ok {
				return &Result{
					Reading:   reading,
					Annotated: a.annotator.Reading(img, reading),
					Strategy:  strategy.Name(),
				}, nil
			}
		}
		return a.noFace(img, strategy.Name()), nil
	}

	if len(failures) > 0 {
		a.logger.Debug("all detection strategies failed",
			"strategies", len(a.strategies),
			"error", errors.Join(failures...),
		)
	}
	return a.noFace(img, ""), nil
}

func (a *Adapter) attempt(ctx context.Context, strategy provider.EmotionProvider, payload []byte) ([]provider.Classification, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	return strategy.AnalyzeEmotion(ctx, payload)
}

func (a *Adapter) noFace(img image.Image, strategy string) *Result {
	return &Result{
		Annotated: a.annotator.NoFace(img),
		Strategy:  strategy,
	}
}
