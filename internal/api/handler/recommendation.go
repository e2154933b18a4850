package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/domain"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/recommend"
)

type Recommender interface {
	Recommend(ctx context.Context, emotion string) (*recommend.Result, error)
}

type RecommendationHandler struct {
	recommender Recommender
	logger      *slog.Logger
}

func NewRecommendationHandler(recommender Recommender, logger *slog.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		recommender: recommender,
		logger:      logger,
	}
}

type RecommendationRequest struct {
	Emotion string `json:"emotion"`
}

// Recommend POST /api/recommendation (or GET with ?emotion=). An empty body
// means the current emotion.
func (h *RecommendationHandler) Recommend(c *fiber.Ctx) error {
	emotion := c.Query("emotion")
	if c.Method() == fiber.MethodPost && len(c.Body()) > 0 {
		var req RecommendationRequest
		if err := c.BodyParser(&req); err != nil {
			return domain.ErrBadRequest.WithError(err)
		}
		emotion = req.Emotion
	}

	result, err := h.recommender.Recommend(c.UserContext(), emotion)
	if err != nil {
		return err
	}

	return c.JSON(result)
}
