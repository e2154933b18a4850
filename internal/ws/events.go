package ws

import (
	"time"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/state"
)

type EventType string

const (
	EventEmotionUpdated EventType = "emotion.updated"
	EventConnected      EventType = "connection.established"
)

type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// EmotionPayload is the data of an emotion.updated event.
type EmotionPayload struct {
	Emotion    string    `json:"emotion"`
	Confidence float64   `json:"confidence"`
	Source     string    `json:"source"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewEmotionPayload(s state.Snapshot) EmotionPayload {
	return EmotionPayload{
		Emotion:    s.Emotion,
		Confidence: s.Confidence,
		Source:     s.Source,
		UpdatedAt:  s.UpdatedAt,
	}
}

// Listener adapts the hub to a state cell subscription.
func (h *Hub) Listener() state.Listener {
	return func(s state.Snapshot) {
		h.Broadcast(EventEmotionUpdated, NewEmotionPayload(s))
	}
}
