package detector

import (
	"context"
	"image"
	"sync"
)

// ShouldDetect reports whether frame index i is a sampling frame when
// classifying every nth frame. n <= 0 means every frame.
func ShouldDetect(i, n int) bool {
	if n <= 0 {
		n = 1
	}
	return i%n == 0
}

// Classifier is what the sampler needs from the adapter.
type Classifier interface {
	Classify(ctx context.Context, img image.Image) (*Result, error)
	Annotator() *Annotator
}

// Frame is one sampler output.
type Frame struct {
	Index      int
	Image      *image.NRGBA
	Result     *Result // nil on skipped frames
	Label      string
	Confidence float64
}

// Sampler advances once per camera frame and only classifies every nth
// one. Skipped frames repeat the last known label as text.
type Sampler struct {
	classifier Classifier
	every      int

	mu            sync.Mutex
	frameCount    int
	lastLabel     string
	lastAnnotated *image.NRGBA
}

func NewSampler(classifier Classifier, every int) *Sampler {
	if every <= 0 {
		every = 1
	}
	return &Sampler{classifier: classifier, every: every}
}

// Next processes one raw frame.
func (s *Sampler) Next(ctx context.Context, frame image.Image) (*Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.frameCount
	s.frameCount++

	if !ShouldDetect(index, s.every) {
		text := AnalyzingBanner
		if s.lastLabel != "" {
			text = s.lastLabel
		}
		return &Frame{
			Index: index,
			Image: s.classifier.Annotator().Label(frame, text),
			Label: s.lastLabel,
		}, nil
	}

	result, err := s.classifier.Classify(ctx, frame)
	if err != nil {
		return nil, err
	}

	out := &Frame{Index: index, Image: result.Annotated, Result: result, Label: s.lastLabel}
	if result.FaceDetected() {
		s.lastLabel = result.Reading.Label
		s.lastAnnotated = result.Annotated
		out.Label = result.Reading.Label
		out.Confidence = result.Reading.Confidence
	}
	return out, nil
}

// LastLabel is the label of the most recent labelled classification.
func (s *Sampler) LastLabel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastLabel
}

// LastAnnotated is the most recent labelled frame, nil before the first.
func (s *Sampler) LastAnnotated() *image.NRGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAnnotated
}
