package handler

import (
	"github.com/gofiber/fiber/v2"
)

const Version = "0.1.0"

type HealthHandler struct {
	detectors []string
	generator string
}

// NewHealthHandler takes the names of the detector strategies and of the
// text generator ("" when none is configured).
func NewHealthHandler(detectors []string, generator string) *HealthHandler {
	return &HealthHandler{
		detectors: detectors,
		generator: generator,
	}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type ReadyResponse struct {
	Status    string   `json:"status"`
	Detectors []string `json:"detectors"`
	Generator string   `json:"generator"`
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

// Ready reports 503 when there is no detector strategy. A missing generator
// only disables recommendations.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	generator := h.generator
	if generator == "" {
		generator = "unconfigured"
	}

	resp := ReadyResponse{
		Status:    "ready",
		Detectors: h.detectors,
		Generator: generator,
	}
	if len(h.detectors) == 0 {
		resp.Status = "unavailable"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
