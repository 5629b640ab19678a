package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

type SettingsHandler struct {
	s service.SettingsService
}

func NewSettingsHandler(s service.SettingsService) *SettingsHandler {
	return &SettingsHandler{s: s}
}

func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	userID := GetUserID(c)

	info, err := h.s.GetSettingsInfo(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Settings not found",
		})
	}

	return c.JSON(info)
}

func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var update transfer.SettingsUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.s.UpdateSettings(c.Context(), userID, &update); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTime):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Fixed schedule time must be HH:MM",
				"reason": "INVALID_TIME",
			})
		case errors.Is(err, service.ErrNoSchedulePolicy):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "A fixed schedule time is required when the fixed schedule is enabled",
				"reason": "NO_SCHEDULE_POLICY",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unable to update settings",
			})
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}
