package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/llm"
)

const providerName = "gemini"

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Generator implements llm.Generator for Google Gemini
type Generator struct {
	client *genai.Client
	model  string
}

var _ llm.Generator = (*Generator)(nil)

// NewGenerator returns nil, nil when no API key is configured.
func NewGenerator(ctx context.Context, config Config) (*Generator, error) {
	if config.APIKey == "" {
		return nil, nil
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Generator{client: client, model: config.Model}, nil
}

func (g *Generator) Name() string {
	return providerName
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", wrapError(err)
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", &llm.Error{Provider: providerName, Message: llm.ErrEmptyCompletion.Error(), Err: llm.ErrEmptyCompletion}
	}
	return text, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

func wrapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fromAPIError(apiErr, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return fromAPIError(*apiErrPtr, err)
	}
	return &llm.Error{Provider: providerName, Message: err.Error(), Err: err}
}

func fromAPIError(apiErr genai.APIError, err error) *llm.Error {
	msg := apiErr.Message
	if apiErr.Status != "" {
		msg = fmt.Sprintf("%s (%s)", apiErr.Message, apiErr.Status)
	}
	return &llm.Error{Provider: providerName, StatusCode: apiErr.Code, Message: msg, Err: err}
}
