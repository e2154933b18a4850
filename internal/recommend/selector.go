package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/domain"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/llm"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/state"
)

// Policy decides what happens when generation fails.
type Policy string

const (
	// PolicyQuotaFallback answers quota failures with a canned message.
	PolicyQuotaFallback Policy = "quota_fallback"
	// PolicySurface returns every failure to the caller.
	PolicySurface Policy = "surface"
)

const promptTemplate = "The person in front of the camera currently looks %s. " +
	"Write a short, warm and encouraging message for them in two or three sentences. " +
	"Acknowledge the feeling and suggest one small, practical thing they could do right now. " +
	"Do not mention cameras or emotion detection."

// Prompt builds the generation prompt for an emotion label.
func Prompt(emotion string) string {
	return fmt.Sprintf(promptTemplate, emotion)
}

// StateReader is the read side of the current-emotion cell.
type StateReader interface {
	Get() state.Snapshot
}

type Result struct {
	Emotion  string `json:"emotion"`
	Text     string `json:"recommendation"`
	Fallback bool   `json:"fallback"`
	Provider string `json:"provider,omitempty"`
}

// Selector turns an emotion into a recommendation, falling back to static
// text when the generator is out of quota.
type Selector struct {
	generator llm.Generator
	state     StateReader
	table     FallbackTable
	policy    Policy
	timeout   time.Duration
	logger    *slog.Logger
}

type Config struct {
	Policy  Policy
	Timeout time.Duration
	Table   *FallbackTable
}

// NewSelector accepts a nil generator; Recommend then reports a
// configuration error.
func NewSelector(generator llm.Generator, st StateReader, cfg Config, logger *slog.Logger) *Selector {
	table := DefaultFallbackTable()
	if cfg.Table != nil {
		table = *cfg.Table
	}
	if cfg.Policy == "" {
		cfg.Policy = PolicyQuotaFallback
	}
	return &Selector{
		generator: generator,
		state:     st,
		table:     table,
		policy:    cfg.Policy,
		timeout:   cfg.Timeout,
		logger:    logger,
	}
}

// Recommend never changes the emotion state. An empty emotion means "use
// the current state".
func (s *Selector) Recommend(ctx context.Context, emotion string) (*Result, error) {
	emotion = strings.TrimSpace(emotion)
	if emotion == "" {
		emotion = s.state.Get().Emotion
	}

	if s.generator == nil {
		return nil, domain.ErrConfiguration.WithDetail("no text generation API key is configured", nil)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.generator.Generate(ctx, Prompt(emotion))
	if err == nil {
		return &Result{Emotion: emotion, Text: text, Provider: s.generator.Name()}, nil
	}

	if errors.Is(err, context.DeadlineExceeded) && !llm.IsQuotaError(err) {
		err = &llm.Error{Provider: s.generator.Name(), Message: "generation timed out", Err: err}
	}

	if s.policy == PolicyQuotaFallback && llm.IsQuotaError(err) {
		s.logger.Warn("generation quota exhausted, using fallback message",
			"provider", s.generator.Name(),
			"emotion", emotion,
		)
		return &Result{
			Emotion:  emotion,
			Text:     QuotaNotice + s.table.Lookup(emotion),
			Fallback: true,
		}, nil
	}

	s.logger.Error("generation failed",
		"provider", s.generator.Name(),
		"emotion", emotion,
		"error", err,
	)
	return nil, domain.ErrGenerationFailed.WithDetail(llm.Message(err), err)
}
