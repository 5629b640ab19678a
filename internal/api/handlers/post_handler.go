package handlers

import (
	"errors"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

type PostHandler struct {
	s service.PostService
}

func NewPostHandler(s service.PostService) *PostHandler {
	return &PostHandler{s: s}
}

func (h *PostHandler) SaveDraft(c *fiber.Ctx) error {
	userID := GetUserID(c)

	draft := transfer.DraftCreation{
		PostID:  parseID(c.FormValue("post_id")),
		Title:   c.FormValue("title"),
		Content: c.FormValue("content"),
	}
	files := formFiles(c)
	if urls := c.FormValue("image_urls"); urls != "" {
		draft.ImageURLs = splitCommaList(urls)
	}

	postID, err := h.s.SaveDraft(c.Context(), userID, &draft, files)
	if err != nil {
		if errors.Is(err, service.ErrPublishedImmutable) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Published posts cannot be edited",
			})
		}
		if errors.Is(err, service.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Post not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to save draft",
		})
	}

	return c.JSON(fiber.Map{
		"post_id": postID,
	})
}

// Schedule accepts the scheduling request either as JSON or as a multipart
// form with image files attached. Both encodings are normalized into one
// request shape before validation.
func (h *PostHandler) Schedule(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.ScheduleRequest
	var files []*multipart.FileHeader

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		req.PostID = parseID(c.FormValue("post_id"))
		req.Title = c.FormValue("title")
		req.Content = c.FormValue("content")
		req.ScheduleTime = c.FormValue("schedule_time")
		req.SpecificSchedule = c.FormValue("specific_schedule") == "true"
		if urls := c.FormValue("image_urls"); urls != "" {
			req.ImageURLs = splitCommaList(urls)
		}
		files = formFiles(c)
	} else if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := h.s.Schedule(c.Context(), userID, &req, files)
	if err != nil {
		return scheduleError(c, err)
	}

	return c.JSON(result)
}

func (h *PostHandler) CancelSchedule(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := parseID(c.Params("id"))

	if err := h.s.CancelSchedule(c.Context(), userID, postID); err != nil {
		if errors.Is(err, service.ErrNotScheduled) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Post is not scheduled",
			})
		}
		if errors.Is(err, service.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Post not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to cancel schedule",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PostHandler) PublishNow(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := parseID(c.Params("id"))

	externalID, err := h.s.PublishNow(c.Context(), userID, postID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Post not found",
			})
		case errors.Is(err, service.ErrPublishedImmutable):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Post is already published",
			})
		case errors.Is(err, service.ErrEmptyBody):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Post body is empty",
			})
		case errors.Is(err, service.ErrAuthExpired):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "LinkedIn connection expired, please reconnect",
			})
		default:
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	return c.JSON(fiber.Map{
		"post_id":     postID,
		"external_id": externalID,
	})
}

func (h *PostHandler) PostInfo(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := parseID(c.Params("id"))

	post, err := h.s.PostInfo(c.Context(), postID, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	}

	return c.JSON(post)
}

func (h *PostHandler) PublishHistory(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := parseID(c.Params("id"))

	records, err := h.s.PublishHistory(c.Context(), userID, postID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Post not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to load publish history",
		})
	}

	return c.JSON(fiber.Map{
		"records": records,
	})
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	posts, err := h.s.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to list posts",
		})
	}

	return c.JSON(fiber.Map{
		"posts": posts,
	})
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := parseID(c.Params("id"))

	if err := h.s.Remove(c.Context(), userID, postID); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Post not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to remove post",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func scheduleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidTime):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Schedule time must be YYYY-MM-DDTHH:MM",
			"reason": "INVALID_TIME",
		})
	case errors.Is(err, service.ErrNotInFuture):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Schedule time must be in the future",
			"reason": "NOT_IN_FUTURE",
		})
	case errors.Is(err, service.ErrNoSchedulePolicy):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Enable a fixed schedule time or provide a specific one",
			"reason": "NO_SCHEDULE_POLICY",
		})
	case errors.Is(err, service.ErrEmptyBody):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Post body is empty",
		})
	case errors.Is(err, service.ErrPublishedImmutable):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Published posts cannot be rescheduled",
		})
	case errors.Is(err, service.ErrPostNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to schedule post",
		})
	}
}

func parseID(raw string) int64 {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func formFiles(c *fiber.Ctx) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File["images"]
}

func splitCommaList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
