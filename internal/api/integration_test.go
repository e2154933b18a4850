//go:build integration

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/config"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/detector"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/face"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/recommend"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/service"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/state"
)

var deepFaceURL string

func TestMain(m *testing.M) {
	ctx := context.Background()

	// Start DeepFace REST container
	req := testcontainers.ContainerRequest{
		Image:        "serengil/deepface:latest",
		ExposedPorts: []string{"5000/tcp"},
		WaitingFor: wait.ForHTTP("/").
			WithPort("5000/tcp").
			WithStartupTimeout(5 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Printf("Failed to start container: %v\n", err)
		os.Exit(1)
	}

	host, _ := container.Host(ctx)
	port, _ := container.MappedPort(ctx, "5000")
	deepFaceURL = fmt.Sprintf("http://%s:%s", host, port.Port())

	code := m.Run()

	if err := container.Terminate(ctx); err != nil {
		fmt.Printf("Failed to terminate container: %v\n", err)
	}
	os.Exit(code)
}

func newIntegrationRouter(t *testing.T) (*Router, *state.Cell) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{
		DetectorProvider:         "deepface",
		DeepFaceURL:              deepFaceURL,
		DeepFaceBackends:         []string{"retinaface", "opencv"},
		DeepFaceEnforceDetection: true,
		DetectorTimeout:          2 * time.Minute,
	}
	providers, err := face.NewEmotionProviders(context.Background(), cfg)
	if err != nil {
		t.Fatalf("create providers: %v", err)
	}

	cell := state.NewCell()
	adapter := detector.NewAdapter(logger, providers, detector.WithTimeout(cfg.DetectorTimeout))
	r := NewRouter(logger, &Dependencies{
		Emotion:       service.NewEmotionService(adapter, cell, logger),
		Recommender:   recommend.NewSelector(nil, cell, recommend.Config{}, logger),
		State:         cell,
		DetectorNames: []string{"deepface"},
	}, Config{})
	r.Setup()
	t.Cleanup(func() { _ = r.Shutdown() })
	return r, cell
}

func upload(t *testing.T, r *Router, img []byte) map[string]interface{} {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, _ := w.CreateFormFile("image", "frame.png")
	_, _ = part.Write(img)
	_ = w.Close()

	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := r.App().Test(req, int((3 * time.Minute).Milliseconds()))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if resp.StatusCode != 200 {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("Status = %d, body = %s", resp.StatusCode, b)
	}

	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestIntegration_HealthEndpoint(t *testing.T) {
	r, _ := newIntegrationRouter(t)

	resp, err := r.App().Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("Failed to test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Status = %d, want 200", resp.StatusCode)
	}
}

func TestIntegration_BlankImageHasNoFace(t *testing.T) {
	r, cell := newIntegrationRouter(t)

	img := image.NewNRGBA(image.Rect(0, 0, 320, 240))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	out := upload(t, r, buf.Bytes())

	if out["emotion"] != nil {
		t.Errorf("emotion = %v, want null", out["emotion"])
	}
	if out["confidence"] != float64(0) {
		t.Errorf("confidence = %v, want 0", out["confidence"])
	}
	if cell.Get().Source != state.SourceDefault {
		t.Errorf("state changed on a frame without face: %+v", cell.Get())
	}
}

func TestIntegration_SmilingFace(t *testing.T) {
	data, err := os.ReadFile("testdata/smile.jpg")
	if err != nil {
		t.Skip("testdata/smile.jpg not present")
	}

	r, cell := newIntegrationRouter(t)
	out := upload(t, r, data)

	if out["emotion"] != "happy" {
		t.Errorf("emotion = %v, want happy", out["emotion"])
	}
	if c, _ := out["confidence"].(float64); c < 0.5 {
		t.Errorf("confidence = %v, want >= 0.5", c)
	}
	if cell.Get().Emotion != "happy" {
		t.Errorf("state emotion = %s, want happy", cell.Get().Emotion)
	}
}
