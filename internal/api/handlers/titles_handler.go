package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/maheshrc27/postpilot/internal/queue"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

type TitlesHandler struct {
	s  service.TitlesService
	ac *asynq.Client
}

func NewTitlesHandler(s service.TitlesService, ac *asynq.Client) *TitlesHandler {
	return &TitlesHandler{s: s, ac: ac}
}

func (h *TitlesHandler) Generate(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.TitleGeneration
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Topic == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Topic is required",
		})
	}

	info, err := h.s.Generate(c.Context(), userID, req.Topic, req.Count)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Unable to generate titles",
		})
	}

	return c.JSON(info)
}

// SelectTitles records the user's picks and fans out one content generation
// task per selected title.
func (h *TitlesHandler) SelectTitles(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.TitleSelection
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	selected, err := h.s.Select(c.Context(), userID, req.Titles)
	if err != nil {
		if errors.Is(err, service.ErrNoBatch) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No title batch to select from",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to select titles",
		})
	}

	for _, title := range selected {
		payload := queue.GenerateContentPayload{
			UserID:    userID,
			TitleID:   title.ID,
			TitleText: title.Text,
		}
		if err := queue.EnqueueGeneration(h.ac, payload); err != nil {
			slog.Error("failed to enqueue generation", "title_id", title.ID, "error", err.Error())
		}
	}

	return c.JSON(fiber.Map{
		"selected": len(selected),
	})
}

func (h *TitlesHandler) MarkGenerated(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req struct {
		Title string `json:"title"`
	}
	if err := c.BodyParser(&req); err != nil || req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	if err := h.s.MarkGenerated(c.Context(), userID, req.Title); err != nil {
		if errors.Is(err, service.ErrNoBatch) || errors.Is(err, service.ErrTitleNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Title not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to update title",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TitlesHandler) BatchInfo(c *fiber.Ctx) error {
	userID := GetUserID(c)

	info, err := h.s.BatchInfo(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoBatch) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No title batch",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to load title batch",
		})
	}

	return c.JSON(info)
}

func (h *TitlesHandler) HasActiveBatch(c *fiber.Ctx) error {
	userID := GetUserID(c)

	active, err := h.s.HasActiveBatch(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to check title batch",
		})
	}

	return c.JSON(fiber.Map{
		"active": active,
	})
}
