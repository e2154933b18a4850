package claude

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/llm"
)

func newTestGenerator(t *testing.T, handler http.HandlerFunc) *Generator {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	g := NewGenerator(Config{APIKey: "sk-ant-test", Model: "claude-3-5-haiku-latest", BaseURL: server.URL})
	require.NotNil(t, g)
	return g
}

func TestNewGenerator_NoKey(t *testing.T) {
	assert.Nil(t, NewGenerator(Config{}))
}

func TestGenerator_Generate(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant-test", r.Header.Get("X-Api-Key"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-3-5-haiku-latest", body["model"])
		assert.EqualValues(t, 256, body["max_tokens"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-5-haiku-latest",` +
			`"content":[{"type":"text","text":"Breathe in slowly."}],"stop_reason":"end_turn",` +
			`"usage":{"input_tokens":10,"output_tokens":5}}`))
	})

	text, err := g.Generate(context.Background(), "feeling angry")

	require.NoError(t, err)
	assert.Equal(t, "Breathe in slowly.", text)
	assert.Equal(t, "anthropic", g.Name())
}

func TestGenerator_Generate_RateLimitedIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"Number of requests has exceeded your rate limit"}}`))
	})

	_, err := g.Generate(context.Background(), "prompt")

	var llmErr *llm.Error
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, http.StatusTooManyRequests, llmErr.StatusCode)
	assert.True(t, llm.IsQuotaError(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestGenerator_Generate_ServerError(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"model not found"}}`))
	})

	_, err := g.Generate(context.Background(), "prompt")

	var llmErr *llm.Error
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, http.StatusBadRequest, llmErr.StatusCode)
	assert.False(t, llm.IsQuotaError(err))
}
