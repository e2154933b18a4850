package handler

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/domain"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/service"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/state"
)

// EmotionService interface for the service
type EmotionService interface {
	AnalyzeImage(ctx context.Context, imageBytes []byte) (*service.Analysis, error)
	ObserveEmotion(ctx context.Context, label string, confidence float64) (state.Snapshot, error)
	CurrentEmotion(ctx context.Context) state.Snapshot
}

// EmotionHandler handles upload and emotion state requests
type EmotionHandler struct {
	service        EmotionService
	maxUploadBytes int
	logger         *slog.Logger
}

// NewEmotionHandler creates a new EmotionHandler instance
func NewEmotionHandler(service EmotionService, maxUploadBytes int, logger *slog.Logger) *EmotionHandler {
	return &EmotionHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// UploadResponse response for upload endpoint. Emotion is null when no
// face was found.
type UploadResponse struct {
	Emotion    *string               `json:"emotion"`
	Confidence float64               `json:"confidence"`
	Region     *domain.Region        `json:"region"`
	Scores     []domain.EmotionScore `json:"scores"`
	Image      string                `json:"image"`
	Strategy   string                `json:"strategy,omitempty"`
}

// ObserveRequest request for the emotion update endpoint
type ObserveRequest struct {
	Emotion    string   `json:"emotion"`
	Confidence *float64 `json:"confidence"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

// Upload POST /api/upload - analyse an image
func (h *EmotionHandler) Upload(c *fiber.Ctx) error {
	imageBytes, err := extractImage(c, h.maxUploadBytes)
	if err != nil {
		return err
	}

	analysis, err := h.service.AnalyzeImage(c.UserContext(), imageBytes)
	if err != nil {
		return err
	}

	resp := UploadResponse{
		Scores:   []domain.EmotionScore{},
		Image:    "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(analysis.Image),
		Strategy: analysis.Strategy,
	}
	if r := analysis.Reading; r != nil {
		label := r.Label
		resp.Emotion = &label
		resp.Confidence = r.Confidence
		resp.Region = r.Region
		if r.Scores != nil {
			resp.Scores = r.Scores
		}
	}

	return c.JSON(resp)
}

// Observe POST /api/emotion - record an emotion reported by the client
func (h *EmotionHandler) Observe(c *fiber.Ctx) error {
	var req ObserveRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return domain.ErrBadRequest.WithError(err)
		}
	}
	if req.Emotion == "" {
		return domain.ErrValidationFailed.WithError(errors.New("emotion is required"))
	}

	confidence := 0.0
	if req.Confidence != nil {
		confidence = *req.Confidence
	}

	if _, err := h.service.ObserveEmotion(c.UserContext(), req.Emotion, confidence); err != nil {
		return err
	}

	return c.JSON(StatusResponse{Status: "ok"})
}

// Current GET /api/emotion - current emotion snapshot
func (h *EmotionHandler) Current(c *fiber.Ctx) error {
	return c.JSON(h.service.CurrentEmotion(c.UserContext()))
}
