package webhook

import (
	"time"
)

const EventEmotionUpdated = "emotion.updated"

// Webhook is the single configured delivery target
type Webhook struct {
	URL    string `json:"url"`
	Secret string `json:"-"`
}

type EventPayload struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Job is one pending delivery
type Job struct {
	Event       EventPayload
	Attempts    int
	MaxAttempts int
	NextRetryAt time.Time
	LastError   string
}
