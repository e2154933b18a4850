package deepface

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/domain"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_Name(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, "deepface/retinaface", NewProvider(config).Name())

	config.Detector = "opencv"
	config.EnforceDetection = false
	assert.Equal(t, "deepface/opencv+lenient", NewProvider(config).Name())
}

func TestProvider_AnalyzeEmotion(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  error
		validate func(*testing.T, []provider.Classification)
	}{
		{
			name:   "maps scores and region",
			status: http.StatusOK,
			body: `{"results":[{"region":{"x":4,"y":8,"w":50,"h":60},` +
				`"emotion":{"angry":1,"happy":80,"neutral":19}}]}`,
			validate: func(t *testing.T, got []provider.Classification) {
				require.Len(t, got, 1)
				assert.Equal(t, &domain.Region{X: 4, Y: 8, Width: 50, Height: 60}, got[0].Region)
				assert.Equal(t, []domain.EmotionScore{
					{Label: "angry", Score: 1},
					{Label: "happy", Score: 80},
					{Label: "neutral", Score: 19},
				}, got[0].Scores)
			},
		},
		{
			name:   "zero sized region is dropped",
			status: http.StatusOK,
			body:   `{"results":[{"region":{"x":0,"y":0,"w":0,"h":0},"emotion":{"sad":100}}]}`,
			validate: func(t *testing.T, got []provider.Classification) {
				require.Len(t, got, 1)
				assert.Nil(t, got[0].Region)
			},
		},
		{
			name:   "results without emotions are skipped",
			status: http.StatusOK,
			body:   `{"results":[{"region":{"x":1,"y":1,"w":10,"h":10}}]}`,
			validate: func(t *testing.T, got []provider.Classification) {
				assert.Empty(t, got)
			},
		},
		{
			name:    "strict miss maps to no face",
			status:  http.StatusBadRequest,
			body:    `{"error":"Exception while analyzing: Face could not be detected in numpy array."}`,
			wantErr: provider.ErrNoFace,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			p := NewProvider(testConfig(server.URL))
			got, err := p.AnalyzeEmotion(context.Background(), []byte{0xff, 0xd8})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validate(t, got)
		})
	}
}

func TestProvider_OtherClientErrorIsNotNoFace(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"img must be a base64 string"}`))
	}))
	defer server.Close()

	_, err := NewProvider(testConfig(server.URL)).AnalyzeEmotion(context.Background(), []byte("x"))

	require.Error(t, err)
	assert.NotErrorIs(t, err, provider.ErrNoFace)
}
