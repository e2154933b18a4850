package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/config"
)

func TestNewGenerator(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		wantName string
		wantNil  bool
		wantErr  bool
	}{
		{
			name:     "gemini with key",
			cfg:      config.Config{LLMProvider: "gemini", GeminiAPIKey: "g-key", GeminiModel: "gemini-2.0-flash"},
			wantName: "gemini",
		},
		{
			name:     "empty provider defaults to gemini",
			cfg:      config.Config{GeminiAPIKey: "g-key"},
			wantName: "gemini",
		},
		{
			name:     "openai with key",
			cfg:      config.Config{LLMProvider: "openai", OpenAIAPIKey: "sk-test", OpenAIModel: "gpt-4o-mini"},
			wantName: "openai",
		},
		{
			name:     "anthropic with key",
			cfg:      config.Config{LLMProvider: "anthropic", AnthropicAPIKey: "sk-ant", AnthropicModel: "claude-3-5-haiku-latest"},
			wantName: "anthropic",
		},
		{name: "gemini without key", cfg: config.Config{LLMProvider: "gemini"}, wantNil: true},
		{name: "openai without key", cfg: config.Config{LLMProvider: "openai"}, wantNil: true},
		{name: "anthropic without key", cfg: config.Config{LLMProvider: "anthropic"}, wantNil: true},
		{name: "unknown provider", cfg: config.Config{LLMProvider: "cohere"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGenerator(context.Background(), &tt.cfg)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown llm provider")
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				// must be a true nil interface, not a typed nil pointer
				assert.True(t, g == nil)
				return
			}
			require.NotNil(t, g)
			assert.Equal(t, tt.wantName, g.Name())
		})
	}
}
