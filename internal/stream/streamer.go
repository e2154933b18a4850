package stream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/disintegration/imaging"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/camera"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/detector"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/state"
)

const (
	Boundary    = "frame"
	ContentType = "multipart/x-mixed-replace; boundary=" + Boundary
)

var partHeader = []byte("--" + Boundary + "\r\nContent-Type: image/jpeg\r\n\r\n")

type StateUpdater interface {
	Update(label string, confidence float64, source string) (state.Snapshot, error)
}

// Streamer turns a camera into an annotated MJPEG stream.
type Streamer struct {
	open        camera.Opener
	classifier  detector.Classifier
	state       StateUpdater
	every       int
	jpegQuality int
	logger      *slog.Logger
}

type Config struct {
	SampleEvery int
	JPEGQuality int
}

func NewStreamer(open camera.Opener, classifier detector.Classifier, st StateUpdater, cfg Config, logger *slog.Logger) *Streamer {
	if cfg.JPEGQuality <= 0 {
		cfg.JPEGQuality = 80
	}
	return &Streamer{
		open:        open,
		classifier:  classifier,
		state:       st,
		every:       cfg.SampleEvery,
		jpegQuality: cfg.JPEGQuality,
		logger:      logger,
	}
}

// Session is one client's stream over its own camera handle.
type Session struct {
	streamer *Streamer
	source   camera.Source
	sampler  *detector.Sampler
	frames   int
}

// Open acquires the camera. Call it before committing response headers so
// an unavailable device can still be reported as an error.
func (s *Streamer) Open() (*Session, error) {
	src, err := s.open()
	if err != nil {
		return nil, err
	}
	return &Session{
		streamer: s,
		source:   src,
		sampler:  detector.NewSampler(s.classifier, s.every),
	}, nil
}

// Run writes frames until the context ends, the camera runs dry or the
// client goes away. The camera is always released.
func (ss *Session) Run(ctx context.Context, w io.Writer, flush func() error) error {
	defer func() {
		if err := ss.source.Close(); err != nil {
			ss.streamer.logger.Warn("failed to close camera", "error", err)
		}
	}()

	var buf bytes.Buffer
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		raw, err := ss.source.Read()
		if errors.Is(err, camera.ErrNoFrame) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read frame: %w", err)
		}

		frame, err := ss.sampler.Next(ctx, raw)
		if err != nil {
			return fmt.Errorf("process frame %d: %w", ss.frames, err)
		}
		ss.publish(frame)

		buf.Reset()
		if err := imaging.Encode(&buf, frame.Image, imaging.JPEG, imaging.JPEGQuality(ss.streamer.jpegQuality)); err != nil {
			return fmt.Errorf("encode frame %d: %w", ss.frames, err)
		}

		if err := writePart(w, buf.Bytes()); err != nil {
			return nil
		}
		if flush != nil {
			if err := flush(); err != nil {
				return nil
			}
		}
		ss.frames++
	}
}

// Frames is how many parts were written so far.
func (ss *Session) Frames() int {
	return ss.frames
}

func (ss *Session) publish(frame *detector.Frame) {
	if ss.streamer.state == nil || frame.Result == nil || !frame.Result.FaceDetected() {
		return
	}
	if _, err := ss.streamer.state.Update(frame.Label, frame.Confidence, state.SourceStream); err != nil {
		ss.streamer.logger.Warn("failed to record stream emotion", "error", err)
	}
}

func writePart(w io.Writer, jpeg []byte) error {
	if _, err := w.Write(partHeader); err != nil {
		return err
	}
	if _, err := w.Write(jpeg); err != nil {
		return err
	}
	_, err := w.Write([]byte("\r\n"))
	return err
}
