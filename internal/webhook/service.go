package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Service struct {
	client *http.Client
	hook   Webhook
}

func NewService(hook Webhook, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		client: &http.Client{Timeout: timeout},
		hook:   hook,
	}
}

// Send posts one signed event. Any transport error or HTTP status >= 400 is
// returned so the worker can retry.
func (s *Service) Send(ctx context.Context, event EventPayload) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.hook.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(EventHeader, event.Type)
	req.Header.Set(DeliveryHeader, event.ID)
	req.Header.Set("User-Agent", "MoodMirror-Webhook/1.0")
	if s.hook.Secret != "" {
		req.Header.Set(SignatureHeader, Sign(s.hook.Secret, payload))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver %s: %w", event.Type, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("deliver %s: HTTP %d", event.Type, resp.StatusCode)
	}

	return nil
}
