package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/llm"
)

const providerName = "openai"

type Config struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
}

// Generator implements llm.Generator for OpenAI chat completions
type Generator struct {
	client    *openai.Client
	model     string
	maxTokens int
}

var _ llm.Generator = (*Generator)(nil)

// NewGenerator returns nil when no API key is configured.
func NewGenerator(config Config) *Generator {
	if config.APIKey == "" {
		return nil
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 256
	}

	return &Generator{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     config.Model,
		maxTokens: config.MaxTokens,
	}
}

func (g *Generator) Name() string {
	return providerName
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", wrapError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", &llm.Error{Provider: providerName, Message: llm.ErrEmptyCompletion.Error(), Err: llm.ErrEmptyCompletion}
	}
	return resp.Choices[0].Message.Content, nil
}

func wrapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if apiErr.Type != "" {
			msg = fmt.Sprintf("%s (%s)", apiErr.Message, apiErr.Type)
		}
		return &llm.Error{Provider: providerName, StatusCode: apiErr.HTTPStatusCode, Message: msg, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &llm.Error{Provider: providerName, StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error(), Err: err}
	}
	return &llm.Error{Provider: providerName, Message: err.Error(), Err: err}
}
