package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/lib/pq"
	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/transfer"
	"github.com/maheshrc27/postpilot/pkg/utils"
)

// PostService owns the Post state machine: draft -> scheduled -> published or
// failed, with cancel back to draft and a direct publish path. Every mutation
// is preceded by an ownership check and published is terminal.
type PostService interface {
	SaveDraft(ctx context.Context, userID int64, d *transfer.DraftCreation, files []*multipart.FileHeader) (int64, error)
	Schedule(ctx context.Context, userID int64, req *transfer.ScheduleRequest, files []*multipart.FileHeader) (*transfer.ScheduleResult, error)
	CancelSchedule(ctx context.Context, userID, postID int64) error
	PublishNow(ctx context.Context, userID, postID int64) (string, error)
	OwnerCredential(ctx context.Context, userID int64) (*models.User, string, error)
	MarkPublished(ctx context.Context, post *models.Post, externalID string) error
	MarkFailed(ctx context.Context, post *models.Post, cause error) error
	PostInfo(ctx context.Context, postID, userID int64) (*models.Post, error)
	PublishHistory(ctx context.Context, userID, postID int64) ([]*models.PublishRecord, error)
	List(ctx context.Context, userID int64) ([]*models.Post, error)
	Remove(ctx context.Context, userID, postID int64) error
}

type postService struct {
	cfg config.Config
	pr  repository.PostRepository
	ur  repository.UserRepository
	rec repository.PublishRecordRepository
	ms  MediaService
	li  LinkedinService
}

func NewPostService(
	cfg config.Config,
	pr repository.PostRepository,
	ur repository.UserRepository,
	rec repository.PublishRecordRepository,
	ms MediaService,
	li LinkedinService) PostService {
	return &postService{
		cfg: cfg,
		pr:  pr,
		ur:  ur,
		rec: rec,
		ms:  ms,
		li:  li,
	}
}

func (s *postService) SaveDraft(ctx context.Context, userID int64, d *transfer.DraftCreation, files []*multipart.FileHeader) (int64, error) {
	images, err := s.ms.SaveUploads(ctx, userID, files)
	if err != nil {
		return 0, fmt.Errorf("error processing files: %w", err)
	}

	if d.PostID == 0 {
		post := models.Post{
			UserID:    userID,
			Title:     d.Title,
			Body:      d.Content,
			Images:    pq.StringArray(images),
			ImageURLs: pq.StringArray(d.ImageURLs),
			Status:    models.PostStatusDraft,
		}
		return s.pr.Create(ctx, nil, &post)
	}

	post, err := s.ownedPost(ctx, userID, d.PostID)
	if err != nil {
		return 0, err
	}
	if post.Status == models.PostStatusPublished {
		return 0, ErrPublishedImmutable
	}

	post.Title = d.Title
	if d.Content != "" {
		post.Body = d.Content
	}
	post.Images = append(post.Images, images...)
	if d.ImageURLs != nil {
		post.ImageURLs = pq.StringArray(d.ImageURLs)
	}

	if err := s.pr.UpdateContent(ctx, post); err != nil {
		return 0, fmt.Errorf("error updating post: %w", err)
	}

	return post.ID, nil
}

// Schedule resolves the effective publish instant and moves the post to
// scheduled. With PostID zero a new post is created directly in scheduled.
func (s *postService) Schedule(ctx context.Context, userID int64, req *transfer.ScheduleRequest, files []*multipart.FileHeader) (*transfer.ScheduleResult, error) {
	owner, isExist, err := s.ur.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !isExist {
		return nil, ErrUserNotFound
	}

	var post *models.Post
	specific := req.SpecificSchedule

	if req.PostID != 0 {
		post, err = s.ownedPost(ctx, userID, req.PostID)
		if err != nil {
			return nil, err
		}
		if post.Status == models.PostStatusPublished {
			return nil, ErrPublishedImmutable
		}
		// Once a post carries a specific schedule the flag keeps
		// governing reschedules.
		specific = specific || post.SpecificSchedule
	}

	resolved, err := ResolveSchedule(specific, req.ScheduleTime, owner, time.Now())
	if err != nil {
		return nil, err
	}

	images, err := s.ms.SaveUploads(ctx, userID, files)
	if err != nil {
		return nil, fmt.Errorf("error processing files: %w", err)
	}

	if post == nil {
		if req.Content == "" {
			return nil, ErrEmptyBody
		}
		newPost := models.Post{
			UserID:           userID,
			Title:            req.Title,
			Body:             req.Content,
			Images:           pq.StringArray(images),
			ImageURLs:        pq.StringArray(req.ImageURLs),
			Status:           models.PostStatusScheduled,
			SpecificSchedule: resolved.Specific,
			ScheduleAt:       nullTime(resolved.RunAt),
			Timezone:         resolved.Timezone,
		}
		postID, err := s.pr.Create(ctx, nil, &newPost)
		if err != nil {
			return nil, fmt.Errorf("error creating post: %w", err)
		}
		return &transfer.ScheduleResult{PostID: postID, ScheduleTime: resolved.RunAt, Timezone: resolved.Timezone}, nil
	}

	if req.Content != "" {
		post.Body = req.Content
	}
	if post.Body == "" {
		return nil, ErrEmptyBody
	}
	if req.Title != "" {
		post.Title = req.Title
	}
	post.Images = append(post.Images, images...)
	if req.ImageURLs != nil {
		post.ImageURLs = pq.StringArray(req.ImageURLs)
	}

	if err := s.pr.UpdateContent(ctx, post); err != nil {
		return nil, fmt.Errorf("error updating post: %w", err)
	}
	if err := s.pr.SetSchedule(ctx, post.ID, resolved.RunAt, resolved.Specific, resolved.Timezone); err != nil {
		return nil, fmt.Errorf("error scheduling post: %w", err)
	}

	return &transfer.ScheduleResult{PostID: post.ID, ScheduleTime: resolved.RunAt, Timezone: resolved.Timezone}, nil
}

// CancelSchedule reverses scheduling completely: status back to draft,
// schedule_at cleared, specific flag reset.
func (s *postService) CancelSchedule(ctx context.Context, userID, postID int64) error {
	post, err := s.ownedPost(ctx, userID, postID)
	if err != nil {
		return err
	}

	if post.Status != models.PostStatusScheduled {
		return ErrNotScheduled
	}

	return s.pr.ClearSchedule(ctx, postID)
}

// PublishNow runs the full pipeline synchronously: media preparation, the
// platform publish call, then finalizing local state.
func (s *postService) PublishNow(ctx context.Context, userID, postID int64) (string, error) {
	post, err := s.ownedPost(ctx, userID, postID)
	if err != nil {
		return "", err
	}
	if post.Status == models.PostStatusPublished {
		return "", ErrPublishedImmutable
	}
	if post.Body == "" {
		return "", ErrEmptyBody
	}

	owner, token, err := s.OwnerCredential(ctx, post.UserID)
	if err != nil {
		return "", err
	}

	assets, failures := s.ms.Prepare(ctx, token, owner.AuthorURN(), RemoteItems(post.AllImages()))
	for _, f := range failures {
		slog.Info("image skipped during publish", "post_id", post.ID, "ref", f.Ref, "error", f.Error)
	}

	externalID, err := s.li.Publish(ctx, token, owner.AuthorURN(), post.Title, post.Body, assets, VisibilityPublic)
	if err != nil {
		if markErr := s.MarkFailed(ctx, post, err); markErr != nil {
			slog.Error("failed to record publish failure", "post_id", post.ID, "error", markErr.Error())
		}
		return "", err
	}

	if err := s.MarkPublished(ctx, post, externalID); err != nil {
		return externalID, err
	}

	return externalID, nil
}

// OwnerCredential loads the post owner and decrypts the platform token,
// mapping a missing or expired credential to ErrAuthExpired.
func (s *postService) OwnerCredential(ctx context.Context, userID int64) (*models.User, string, error) {
	owner, isExist, err := s.ur.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if !isExist {
		return nil, "", ErrUserNotFound
	}

	if owner.AccessToken == "" || owner.LinkedinID == "" {
		return nil, "", ErrAuthExpired
	}
	if owner.TokenExpiresAt.Valid && owner.TokenExpiresAt.Time.Before(time.Now()) {
		return nil, "", ErrAuthExpired
	}

	token, err := utils.Decrypt(owner.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		slog.Info(err.Error())
		return nil, "", ErrAuthExpired
	}

	return owner, token, nil
}

// MarkPublished finalizes a successful publish. The external id is persisted
// to the audit trail first so it survives a failing status write; a failure
// after the platform accepted the post is reported as the distinct
// "published but not marked" inconsistency.
func (s *postService) MarkPublished(ctx context.Context, post *models.Post, externalID string) error {
	record := models.PublishRecord{
		UserID:         post.UserID,
		PostID:         post.ID,
		ExternalPostID: externalID,
	}
	if _, err := s.rec.Create(ctx, &record); err != nil {
		slog.Error("failed to save publish record", "post_id", post.ID, "external_id", externalID, "error", err.Error())
	}

	if err := s.pr.MarkPublished(ctx, post.ID, time.Now()); err != nil {
		slog.Error("post published but not marked", "post_id", post.ID, "external_id", externalID, "error", err.Error())
		return fmt.Errorf("post %d published as %s but not marked: %w", post.ID, externalID, err)
	}

	return nil
}

// MarkFailed records the failed attempt and moves the post to failed. The
// schedule fields are left untouched so the user can see what was attempted.
func (s *postService) MarkFailed(ctx context.Context, post *models.Post, cause error) error {
	record := models.PublishRecord{
		UserID:       post.UserID,
		PostID:       post.ID,
		ErrorMessage: cause.Error(),
	}
	if _, err := s.rec.Create(ctx, &record); err != nil {
		slog.Error("failed to save publish record", "post_id", post.ID, "error", err.Error())
	}

	return s.pr.MarkFailed(ctx, post.ID, cause.Error())
}

func (s *postService) PostInfo(ctx context.Context, postID, userID int64) (*models.Post, error) {
	return s.ownedPost(ctx, userID, postID)
}

// PublishHistory lists every publish attempt recorded for the post, newest
// first.
func (s *postService) PublishHistory(ctx context.Context, userID, postID int64) ([]*models.PublishRecord, error) {
	if _, err := s.ownedPost(ctx, userID, postID); err != nil {
		return nil, err
	}
	return s.rec.ListByPostID(ctx, postID)
}

func (s *postService) List(ctx context.Context, userID int64) ([]*models.Post, error) {
	posts, err := s.pr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting posts")
	}
	return posts, nil
}

func (s *postService) Remove(ctx context.Context, userID, postID int64) error {
	if _, err := s.ownedPost(ctx, userID, postID); err != nil {
		return err
	}
	return s.pr.Remove(ctx, postID)
}

func (s *postService) ownedPost(ctx context.Context, userID, postID int64) (*models.Post, error) {
	if userID == 0 || postID == 0 {
		slog.Info(ErrPostNotFound.Error())
		return nil, ErrPostNotFound
	}

	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if !isValid {
		slog.Info(ErrPostNotFound.Error())
		return nil, ErrPostNotFound
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("Error getting post info")
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	return post, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}
