package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/llm"
)

func newTestGenerator(t *testing.T, handler http.HandlerFunc) *Generator {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	g := NewGenerator(Config{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: server.URL + "/v1"})
	require.NotNil(t, g)
	return g
}

func TestNewGenerator_NoKey(t *testing.T) {
	assert.Nil(t, NewGenerator(Config{}))
}

func TestGenerator_Generate(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body.Model)
		if assert.Len(t, body.Messages, 1) {
			assert.Equal(t, "user", body.Messages[0].Role)
			assert.Equal(t, "feeling sad", body.Messages[0].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":" Take a short walk. "},"finish_reason":"stop"}]}`))
	})

	text, err := g.Generate(context.Background(), "feeling sad")

	require.NoError(t, err)
	assert.Equal(t, " Take a short walk. ", text)
}

func TestGenerator_Generate_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantQuota bool
	}{
		{
			name:      "rate limited",
			status:    http.StatusTooManyRequests,
			body:      `{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`,
			wantQuota: true,
		},
		{
			name:      "insufficient quota",
			status:    http.StatusTooManyRequests,
			body:      `{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`,
			wantQuota: true,
		},
		{
			name:      "server error",
			status:    http.StatusInternalServerError,
			body:      `{"error":{"message":"The server had an error","type":"server_error"}}`,
			wantQuota: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := g.Generate(context.Background(), "prompt")

			var llmErr *llm.Error
			require.ErrorAs(t, err, &llmErr)
			assert.Equal(t, "openai", llmErr.Provider)
			assert.Equal(t, tt.status, llmErr.StatusCode)
			assert.Equal(t, tt.wantQuota, llm.IsQuotaError(err))
		})
	}
}

func TestGenerator_Generate_WhitespaceOnlyIsEmpty(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","choices":[{"index":0,"message":{"role":"assistant","content":"  \n "},"finish_reason":"stop"}]}`))
	})

	_, err := g.Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, llm.ErrEmptyCompletion)
}

func TestGenerator_Generate_NoChoices(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","choices":[]}`))
	})

	_, err := g.Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, llm.ErrEmptyCompletion)
}
