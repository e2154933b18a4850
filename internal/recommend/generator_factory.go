package recommend

import (
	"context"
	"fmt"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/config"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/llm"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/llm/claude"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/llm/gemini"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/llm/openai"
)

const (
	GeneratorGemini    = "gemini"
	GeneratorOpenAI    = "openai"
	GeneratorAnthropic = "anthropic"
)

// NewGenerator picks the text generator named by LLM_PROVIDER. A missing API
// key is not an error: it yields a nil generator and the recommendation
// endpoint reports a configuration error on use.
func NewGenerator(ctx context.Context, cfg *config.Config) (llm.Generator, error) {
	switch cfg.LLMProvider {
	case GeneratorGemini, "":
		g, err := gemini.NewGenerator(ctx, gemini.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel})
		if err != nil || g == nil {
			return nil, err
		}
		return g, nil

	case GeneratorOpenAI:
		g := openai.NewGenerator(openai.Config{APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIModel})
		if g == nil {
			return nil, nil
		}
		return g, nil

	case GeneratorAnthropic:
		g := claude.NewGenerator(claude.Config{APIKey: cfg.AnthropicAPIKey, Model: cfg.AnthropicModel})
		if g == nil {
			return nil, nil
		}
		return g, nil

	default:
		return nil, fmt.Errorf("unknown llm provider: %s (supported: %s, %s, %s)",
			cfg.LLMProvider, GeneratorGemini, GeneratorOpenAI, GeneratorAnthropic)
	}
}
