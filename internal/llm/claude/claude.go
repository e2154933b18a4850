package claude

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/llm"
)

const providerName = "anthropic"

type Config struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int64
}

// Generator implements llm.Generator for Anthropic Claude
type Generator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

var _ llm.Generator = (*Generator)(nil)

// NewGenerator returns nil when no API key is configured. SDK retries are
// disabled so quota answers reach the fallback selector immediately.
func NewGenerator(config Config) *Generator {
	if config.APIKey == "" {
		return nil
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 256
	}

	return &Generator{
		client:    anthropic.NewClient(opts...),
		model:     config.Model,
		maxTokens: config.MaxTokens,
	}
}

func (g *Generator) Name() string {
	return providerName
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: g.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", wrapError(err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", &llm.Error{Provider: providerName, Message: llm.ErrEmptyCompletion.Error(), Err: llm.ErrEmptyCompletion}
	}
	return text, nil
}

func wrapError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &llm.Error{Provider: providerName, StatusCode: apiErr.StatusCode, Message: apiErr.Error(), Err: err}
	}
	return &llm.Error{Provider: providerName, Message: err.Error(), Err: err}
}
