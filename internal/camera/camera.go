package camera

import (
	"errors"
	"image"
	"sync"
)

var (
	// ErrUnavailable is returned when the binary has no capture backend.
	ErrUnavailable = errors.New("gocv build tag is not enabled")
	// ErrNoFrame means the device stopped delivering frames.
	ErrNoFrame = errors.New("camera returned no frame")
)

// Source delivers RGB frames from a capture device.
type Source interface {
	Read() (image.Image, error)
	Close() error
}

// Opener opens a fresh Source for each stream.
type Opener func() (Source, error)

// DeviceOpener binds Open to a device index.
func DeviceOpener(device int) Opener {
	return func() (Source, error) {
		return Open(device)
	}
}

// FrameSource replays a fixed list of frames. Used for tests and demos.
type FrameSource struct {
	mu     sync.Mutex
	frames []image.Image
	loop   bool
	next   int
	closed bool
}

func NewFrameSource(frames []image.Image, loop bool) *FrameSource {
	return &FrameSource{frames: frames, loop: loop}
}

func (s *FrameSource) Read() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || len(s.frames) == 0 {
		return nil, ErrNoFrame
	}
	if s.next >= len(s.frames) {
		if !s.loop {
			return nil, ErrNoFrame
		}
		s.next = 0
	}
	f := s.frames[s.next]
	s.next++
	return f, nil
}

func (s *FrameSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *FrameSource) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
