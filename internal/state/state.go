package state

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/domain"
)

const (
	SourceDefault = "default"
	SourceUpload  = "upload"
	SourceStream  = "stream"
	SourceClient  = "client"
)

// Snapshot is an immutable view of the current emotion.
type Snapshot struct {
	Emotion    string    `json:"emotion"`
	Confidence float64   `json:"confidence"`
	Source     string    `json:"source"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Listener is called after every successful update.
type Listener func(Snapshot)

// Cell holds the process-wide current emotion. Reads never block and never
// observe a half-written snapshot.
type Cell struct {
	current atomic.Pointer[Snapshot]

	mu        sync.RWMutex
	listeners []Listener
	now       func() time.Time
}

func NewCell() *Cell {
	c := &Cell{now: time.Now}
	c.current.Store(&Snapshot{Emotion: domain.DefaultEmotion, Source: SourceDefault})
	return c
}

// Get returns a copy of the current snapshot.
func (c *Cell) Get() Snapshot {
	return *c.current.Load()
}

// Update replaces the snapshot. An empty label is rejected and leaves the
// state as it was. Confidence is clamped to [0,1].
func (c *Cell) Update(label string, confidence float64, source string) (Snapshot, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return c.Get(), domain.ErrValidationFailed.WithError(errors.New("emotion is required"))
	}
	if source == "" {
		source = SourceClient
	}

	snap := &Snapshot{
		Emotion:    label,
		Confidence: clamp(confidence),
		Source:     source,
		UpdatedAt:  c.now().UTC(),
	}
	c.current.Store(snap)

	c.mu.RLock()
	listeners := c.listeners
	c.mu.RUnlock()
	for _, l := range listeners {
		l(*snap)
	}

	return *snap, nil
}

// Subscribe registers l for future updates.
func (c *Cell) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners[:len(c.listeners):len(c.listeners)], l)
}

func clamp(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
