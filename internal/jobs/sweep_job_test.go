package job

import (
	"context"
	"database/sql"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPostRepo struct {
	dueSpecific []*models.Post
	fixed       []*models.Post
}

func (r *stubPostRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) { return nil, nil }
func (r *stubPostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	return 0, nil
}
func (r *stubPostRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.Post, error) {
	return nil, nil
}
func (r *stubPostRepo) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	return false, nil
}
func (r *stubPostRepo) UpdateContent(ctx context.Context, post *models.Post) error { return nil }
func (r *stubPostRepo) SetSchedule(ctx context.Context, postID int64, scheduleAt time.Time, specific bool, timezone string) error {
	return nil
}
func (r *stubPostRepo) ClearSchedule(ctx context.Context, postID int64) error { return nil }
func (r *stubPostRepo) MarkPublished(ctx context.Context, postID int64, publishedAt time.Time) error {
	return nil
}
func (r *stubPostRepo) MarkFailed(ctx context.Context, postID int64, errorMessage string) error {
	return nil
}
func (r *stubPostRepo) ListDueSpecific(ctx context.Context, now time.Time) ([]*models.Post, error) {
	return r.dueSpecific, nil
}
func (r *stubPostRepo) ListFixedScheduled(ctx context.Context) ([]*models.Post, error) {
	return r.fixed, nil
}
func (r *stubPostRepo) Remove(ctx context.Context, id int64) error { return nil }

type stubUserRepo struct {
	users map[int64]*models.User
}

func (r *stubUserRepo) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	user, ok := r.users[id]
	return user, ok, nil
}
func (r *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	return nil, false, nil
}
func (r *stubUserRepo) Create(ctx context.Context, tx *sql.Tx, user *models.User) (int64, error) {
	return 0, nil
}
func (r *stubUserRepo) SetLinkedinCredential(ctx context.Context, userID int64, linkedinID, accessToken string, expiresAt time.Time) error {
	return nil
}
func (r *stubUserRepo) UpdateSchedulePrefs(ctx context.Context, userID int64, enabled bool, fixedTime sql.NullString, timezone string) error {
	return nil
}
func (r *stubUserRepo) Remove(ctx context.Context, id int64) error { return nil }

type stubPostService struct {
	credentialFn func(ctx context.Context, userID int64) (*models.User, string, error)
	published    map[int64]string
	failed       map[int64]string
}

func (s *stubPostService) SaveDraft(ctx context.Context, userID int64, d *transfer.DraftCreation, files []*multipart.FileHeader) (int64, error) {
	return 0, nil
}
func (s *stubPostService) Schedule(ctx context.Context, userID int64, req *transfer.ScheduleRequest, files []*multipart.FileHeader) (*transfer.ScheduleResult, error) {
	return nil, nil
}
func (s *stubPostService) CancelSchedule(ctx context.Context, userID, postID int64) error {
	return nil
}
func (s *stubPostService) PublishNow(ctx context.Context, userID, postID int64) (string, error) {
	return "", nil
}
func (s *stubPostService) OwnerCredential(ctx context.Context, userID int64) (*models.User, string, error) {
	return s.credentialFn(ctx, userID)
}
func (s *stubPostService) MarkPublished(ctx context.Context, post *models.Post, externalID string) error {
	s.published[post.ID] = externalID
	return nil
}
func (s *stubPostService) MarkFailed(ctx context.Context, post *models.Post, cause error) error {
	s.failed[post.ID] = cause.Error()
	return nil
}
func (s *stubPostService) PostInfo(ctx context.Context, postID, userID int64) (*models.Post, error) {
	return nil, nil
}
func (s *stubPostService) PublishHistory(ctx context.Context, userID, postID int64) ([]*models.PublishRecord, error) {
	return nil, nil
}
func (s *stubPostService) List(ctx context.Context, userID int64) ([]*models.Post, error) {
	return nil, nil
}
func (s *stubPostService) Remove(ctx context.Context, userID, postID int64) error { return nil }

type stubMediaService struct{}

func (s *stubMediaService) Prepare(ctx context.Context, accessToken, authorURN string, items []transfer.MediaItem) ([]string, []transfer.MediaFailure) {
	return nil, nil
}
func (s *stubMediaService) SaveUploads(ctx context.Context, userID int64, files []*multipart.FileHeader) ([]string, error) {
	return nil, nil
}

type stubLinkedin struct {
	publishFn func(postBody string) (string, error)
}

func (s *stubLinkedin) AuthURL(state string) string { return "" }
func (s *stubLinkedin) Callback(ctx context.Context, code string, userID int64) error {
	return nil
}
func (s *stubLinkedin) RegisterUpload(ctx context.Context, accessToken, authorURN string) (*transfer.RegisterUploadValue, error) {
	return nil, nil
}
func (s *stubLinkedin) UploadAsset(ctx context.Context, accessToken, uploadURL, contentType string, data []byte) error {
	return nil
}
func (s *stubLinkedin) Publish(ctx context.Context, accessToken, authorURN, title, body string, assets []string, visibility string) (string, error) {
	return s.publishFn(body)
}

func connectedOwner(id int64) *models.User {
	return &models.User{ID: id, LinkedinID: "person", Timezone: "UTC"}
}

func newTestSweep(pr *stubPostRepo, ur *stubUserRepo, ps *stubPostService, li *stubLinkedin) *SweepJob {
	return NewSweepJob(pr, ur, ps, &stubMediaService{}, li)
}

func TestRunOnceSkipsWhenAlreadyRunning(t *testing.T) {
	j := newTestSweep(&stubPostRepo{}, &stubUserRepo{}, &stubPostService{}, &stubLinkedin{})
	j.running.Store(true)

	summary := j.RunOnce(context.Background())
	assert.True(t, summary.Skipped)

	j.running.Store(false)
	summary = j.RunOnce(context.Background())
	assert.False(t, summary.Skipped)
}

func TestRunOnceIsolatesFailures(t *testing.T) {
	pr := &stubPostRepo{
		dueSpecific: []*models.Post{
			{ID: 1, UserID: 7, Body: "first"},
			{ID: 2, UserID: 7, Body: "boom"},
			{ID: 3, UserID: 7, Body: "third"},
		},
	}
	ps := &stubPostService{
		credentialFn: func(ctx context.Context, userID int64) (*models.User, string, error) {
			return connectedOwner(userID), "token", nil
		},
		published: make(map[int64]string),
		failed:    make(map[int64]string),
	}
	li := &stubLinkedin{
		publishFn: func(body string) (string, error) {
			if body == "boom" {
				return "", errors.New("platform rejected")
			}
			return "urn:li:share:" + body, nil
		},
	}

	j := newTestSweep(pr, &stubUserRepo{}, ps, li)
	summary := j.RunOnce(context.Background())

	assert.Equal(t, 3, summary.ProcessedCount)
	assert.Equal(t, 2, summary.PublishedCount)
	assert.Equal(t, 1, summary.FailedCount)

	assert.Equal(t, "urn:li:share:first", ps.published[1])
	assert.Equal(t, "urn:li:share:third", ps.published[3])
	assert.Contains(t, ps.failed[2], "platform rejected")
}

func TestRunOnceFailsPostsWithoutCredential(t *testing.T) {
	pr := &stubPostRepo{
		dueSpecific: []*models.Post{{ID: 1, UserID: 7, Body: "hello"}},
	}
	ps := &stubPostService{
		credentialFn: func(ctx context.Context, userID int64) (*models.User, string, error) {
			return nil, "", errors.New("credential expired")
		},
		published: make(map[int64]string),
		failed:    make(map[int64]string),
	}
	li := &stubLinkedin{publishFn: func(body string) (string, error) {
		t.Fatal("publish must not be called without a credential")
		return "", nil
	}}

	j := newTestSweep(pr, &stubUserRepo{}, ps, li)
	summary := j.RunOnce(context.Background())

	assert.Equal(t, 1, summary.FailedCount)
	assert.Contains(t, ps.failed[1], "credential expired")
}

func TestFixedTimeMatches(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 30, 12, 0, time.UTC)
	ur := &stubUserRepo{users: map[int64]*models.User{
		7: {
			ID:                   7,
			Timezone:             "UTC",
			FixedScheduleEnabled: true,
			FixedScheduleTime:    sql.NullString{String: "09:30", Valid: true},
		},
		8: {
			ID:                   8,
			Timezone:             "UTC",
			FixedScheduleEnabled: true,
			FixedScheduleTime:    sql.NullString{String: "10:00", Valid: true},
		},
		9: {ID: 9, Timezone: "UTC"},
	}}

	j := newTestSweep(&stubPostRepo{}, ur, &stubPostService{}, &stubLinkedin{})

	assert.True(t, j.fixedTimeMatches(context.Background(), 7, now))
	assert.False(t, j.fixedTimeMatches(context.Background(), 8, now), "wrong minute")
	assert.False(t, j.fixedTimeMatches(context.Background(), 9, now), "policy disabled")
	assert.False(t, j.fixedTimeMatches(context.Background(), 99, now), "unknown owner")
}

func TestFixedTimeMatchesOncePerMinute(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 30, 12, 0, time.UTC)
	ur := &stubUserRepo{users: map[int64]*models.User{
		7: {
			ID:                   7,
			Timezone:             "UTC",
			FixedScheduleEnabled: true,
			FixedScheduleTime:    sql.NullString{String: "09:30", Valid: true},
		},
	}}

	j := newTestSweep(&stubPostRepo{}, ur, &stubPostService{}, &stubLinkedin{})

	assert.True(t, j.fixedTimeMatches(context.Background(), 7, now))
	// A second tick inside the same minute stays quiet.
	assert.False(t, j.fixedTimeMatches(context.Background(), 7, now.Add(20*time.Second)))
	// The next day's window fires again.
	assert.True(t, j.fixedTimeMatches(context.Background(), 7, now.Add(24*time.Hour)))
}

func TestFixedTimeMatchesInOwnerTimezone(t *testing.T) {
	// 09:30 in Tokyo is 00:30 UTC.
	now := time.Date(2024, 6, 1, 0, 30, 0, 0, time.UTC)
	ur := &stubUserRepo{users: map[int64]*models.User{
		7: {
			ID:                   7,
			Timezone:             "Asia/Tokyo",
			FixedScheduleEnabled: true,
			FixedScheduleTime:    sql.NullString{String: "09:30", Valid: true},
		},
	}}

	j := newTestSweep(&stubPostRepo{}, ur, &stubPostService{}, &stubLinkedin{})
	assert.True(t, j.fixedTimeMatches(context.Background(), 7, now))
}

func TestCollectDueGroupsFixedByOwner(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	pr := &stubPostRepo{
		dueSpecific: []*models.Post{{ID: 1, UserID: 5, Body: "specific"}},
		fixed: []*models.Post{
			{ID: 2, UserID: 7, Body: "fixed a"},
			{ID: 3, UserID: 7, Body: "fixed b"},
			{ID: 4, UserID: 8, Body: "not due"},
		},
	}
	ur := &stubUserRepo{users: map[int64]*models.User{
		7: {
			ID:                   7,
			Timezone:             "UTC",
			FixedScheduleEnabled: true,
			FixedScheduleTime:    sql.NullString{String: "09:30", Valid: true},
		},
		8: {
			ID:                   8,
			Timezone:             "UTC",
			FixedScheduleEnabled: true,
			FixedScheduleTime:    sql.NullString{String: "18:00", Valid: true},
		},
	}}

	j := newTestSweep(pr, ur, &stubPostService{}, &stubLinkedin{})
	due := j.collectDue(context.Background(), now)

	require.Len(t, due, 3)
	ids := []int64{due[0].ID, due[1].ID, due[2].ID}
	assert.Contains(t, ids, int64(1))
	assert.Contains(t, ids, int64(2))
	assert.Contains(t, ids, int64(3))
}
