package handlers

import (
	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/postpilot/configs"
	job "github.com/maheshrc27/postpilot/internal/jobs"
)

// SweepHandler exposes the due-post sweep for external cron triggers. The
// in-process cron drives the same job; this endpoint exists for platforms
// where an HTTP ping is the only scheduling primitive.
type SweepHandler struct {
	cfg   config.Config
	sweep *job.SweepJob
}

func NewSweepHandler(cfg config.Config, sweep *job.SweepJob) *SweepHandler {
	return &SweepHandler{cfg: cfg, sweep: sweep}
}

func (h *SweepHandler) RunSweep(c *fiber.Ctx) error {
	if h.cfg.CronSecret == "" || c.Query("secret") != h.cfg.CronSecret {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	summary := h.sweep.RunOnce(c.Context())
	return c.JSON(summary)
}
