package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/detector"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/domain"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/state"
)

type Classifier interface {
	Classify(ctx context.Context, img image.Image) (*detector.Result, error)
}

type EmotionState interface {
	Get() state.Snapshot
	Update(label string, confidence float64, source string) (state.Snapshot, error)
}

// Analysis is the outcome of analysing one uploaded image
type Analysis struct {
	Reading  *domain.EmotionReading
	Image    []byte // annotated JPEG
	Strategy string
}

type EmotionService struct {
	classifier  Classifier
	state       EmotionState
	jpegQuality int
	logger      *slog.Logger
}

func NewEmotionService(classifier Classifier, st EmotionState, logger *slog.Logger) *EmotionService {
	return &EmotionService{
		classifier:  classifier,
		state:       st,
		jpegQuality: 85,
		logger:      logger,
	}
}

func (s *EmotionService) WithJPEGQuality(q int) *EmotionService {
	s.jpegQuality = q
	return s
}

// AnalyzeImage decodes, classifies and annotates an uploaded image. A
// labelled result becomes the current emotion.
func (s *EmotionService) AnalyzeImage(ctx context.Context, imageBytes []byte) (*Analysis, error) {
	if len(imageBytes) == 0 {
		return nil, domain.ErrInvalidImage.WithError(errors.New("image is empty"))
	}

	img, err := imaging.Decode(bytes.NewReader(imageBytes), imaging.AutoOrientation(true))
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	result, err := s.classifier.Classify(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("classify upload: %w", err)
	}

	if result.FaceDetected() {
		if _, err := s.state.Update(result.Reading.Label, result.Reading.Confidence, state.SourceUpload); err != nil {
			return nil, fmt.Errorf("update state: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, result.Annotated, imaging.JPEG, imaging.JPEGQuality(s.jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode annotated image: %w", err)
	}

	s.logger.Debug("upload analysed",
		"face_detected", result.FaceDetected(),
		"confidence", result.Confidence(),
		"strategy", result.Strategy,
	)

	return &Analysis{
		Reading:  result.Reading,
		Image:    buf.Bytes(),
		Strategy: result.Strategy,
	}, nil
}

// ObserveEmotion records an emotion reported by a client.
func (s *EmotionService) ObserveEmotion(ctx context.Context, label string, confidence float64) (state.Snapshot, error) {
	return s.state.Update(label, confidence, state.SourceClient)
}

func (s *EmotionService) CurrentEmotion(ctx context.Context) state.Snapshot {
	return s.state.Get()
}
