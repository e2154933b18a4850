package handler

import (
	"bufio"
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/domain"
	"github.com/saturnino-fabrica-de-software/moodmirror/internal/stream"
)

type StreamHandler struct {
	streamer *stream.Streamer
	// ctx bounds every stream; it is cancelled on shutdown
	ctx    context.Context
	logger *slog.Logger
}

func NewStreamHandler(ctx context.Context, streamer *stream.Streamer, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{
		streamer: streamer,
		ctx:      ctx,
		logger:   logger,
	}
}

// VideoFeed GET /api/video_feed - annotated MJPEG stream
func (h *StreamHandler) VideoFeed(c *fiber.Ctx) error {
	session, err := h.streamer.Open()
	if err != nil {
		return domain.ErrCameraUnavailable.WithError(err)
	}

	c.Set(fiber.HeaderContentType, stream.ContentType)
	c.Set(fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate")
	c.Set(fiber.HeaderConnection, "close")

	remote := c.IP()
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		if err := session.Run(h.ctx, w, w.Flush); err != nil {
			h.logger.Error("video stream aborted", "error", err, "ip", remote, "frames", session.Frames())
			return
		}
		h.logger.Debug("video stream closed", "ip", remote, "frames", session.Frames())
	})

	return nil
}
