package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/lib/pq"
	"github.com/maheshrc27/postpilot/internal/models"
)

func (j *Queue) HandleGenerateContentTask(ctx context.Context, task *asynq.Task) error {
	var payload GenerateContentPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	return j.GenerateForTitle(ctx, &payload)
}

// GenerateForTitle produces post content for one selected title: body text
// from the content generator, candidate images from the image search query,
// stored as a new draft post. The title is marked generated only after the
// draft exists, so a crashed worker re-runs the whole step.
func (j *Queue) GenerateForTitle(ctx context.Context, payload *GenerateContentPayload) error {
	content, err := j.gn.Content(ctx, payload.TitleText)
	if err != nil {
		return fmt.Errorf("error generating content for title %q: %w", payload.TitleText, err)
	}

	var imageURLs []string
	if content.ImageSearchQuery != "" {
		imageURLs, err = j.is.Search(ctx, content.ImageSearchQuery, 3)
		if err != nil {
			// Image candidates are best-effort, the draft is still useful
			// without them.
			slog.Info("image search failed", "query", content.ImageSearchQuery, "error", err.Error())
		}
	}

	post := models.Post{
		UserID:    payload.UserID,
		Title:     payload.TitleText,
		Body:      content.Body,
		ImageURLs: pq.StringArray(imageURLs),
		Status:    models.PostStatusDraft,
	}

	postID, err := j.pr.Create(ctx, nil, &post)
	if err != nil {
		return fmt.Errorf("error saving generated draft: %w", err)
	}

	if err := j.ts.MarkGeneratedByID(ctx, payload.TitleID); err != nil {
		return fmt.Errorf("error marking title generated: %w", err)
	}

	slog.Info("draft generated", "post_id", postID, "title_id", payload.TitleID)
	return nil
}
