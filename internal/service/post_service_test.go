package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/transfer"
	"github.com/maheshrc27/postpilot/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

func testConfig() config.Config {
	return config.Config{SecretKey: testSecretKey}
}

func ownerRepo(owner *models.User) *mockUserRepo {
	return &mockUserRepo{
		GetByIDFn: func(ctx context.Context, id int64) (*models.User, bool, error) {
			if owner == nil || owner.ID != id {
				return nil, false, nil
			}
			return owner, true, nil
		},
	}
}

func encryptedToken(t *testing.T, plain string) string {
	t.Helper()
	token, err := utils.Encrypt([]byte(plain), []byte(testSecretKey))
	require.NoError(t, err)
	return token
}

func futureTimestamp() string {
	return time.Now().Add(48 * time.Hour).Format(ScheduleTimeLayout)
}

func TestScheduleCreatesNewPost(t *testing.T) {
	var created *models.Post
	pr := &mockPostRepo{
		CreateFn: func(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
			created = post
			return 7, nil
		},
	}
	ur := ownerRepo(&models.User{ID: 1, Timezone: "UTC"})
	ms := &mockMediaService{}

	s := NewPostService(testConfig(), pr, ur, &mockPublishRecordRepo{}, ms, &mockLinkedinService{})

	result, err := s.Schedule(context.Background(), 1, &transfer.ScheduleRequest{
		Title:            "Launch day",
		Content:          "We shipped.",
		ScheduleTime:     futureTimestamp(),
		SpecificSchedule: true,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(7), result.PostID)
	require.NotNil(t, created)
	assert.Equal(t, models.PostStatusScheduled, created.Status)
	assert.True(t, created.SpecificSchedule)
	assert.True(t, created.ScheduleAt.Valid)
	assert.Equal(t, "UTC", created.Timezone)
}

func TestScheduleNewPostRequiresContent(t *testing.T) {
	ur := ownerRepo(&models.User{ID: 1, Timezone: "UTC"})
	s := NewPostService(testConfig(), &mockPostRepo{}, ur, &mockPublishRecordRepo{}, &mockMediaService{}, &mockLinkedinService{})

	_, err := s.Schedule(context.Background(), 1, &transfer.ScheduleRequest{
		ScheduleTime:     futureTimestamp(),
		SpecificSchedule: true,
	}, nil)
	assert.ErrorIs(t, err, ErrEmptyBody)
}

func TestSchedulePublishedPostRejected(t *testing.T) {
	pr := &mockPostRepo{
		CheckByUserIDFn: func(ctx context.Context, postID, userID int64) (bool, error) { return true, nil },
		GetByIDFn: func(ctx context.Context, id int64) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 1, Body: "done", Status: models.PostStatusPublished}, nil
		},
	}
	ur := ownerRepo(&models.User{ID: 1, Timezone: "UTC"})
	s := NewPostService(testConfig(), pr, ur, &mockPublishRecordRepo{}, &mockMediaService{}, &mockLinkedinService{})

	_, err := s.Schedule(context.Background(), 1, &transfer.ScheduleRequest{
		PostID:           5,
		ScheduleTime:     futureTimestamp(),
		SpecificSchedule: true,
	}, nil)
	assert.ErrorIs(t, err, ErrPublishedImmutable)
}

func TestRescheduleKeepsSpecificFlag(t *testing.T) {
	var setSpecific bool
	pr := &mockPostRepo{
		CheckByUserIDFn: func(ctx context.Context, postID, userID int64) (bool, error) { return true, nil },
		GetByIDFn: func(ctx context.Context, id int64) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 1, Body: "existing", Status: models.PostStatusScheduled, SpecificSchedule: true}, nil
		},
		UpdateContentFn: func(ctx context.Context, post *models.Post) error { return nil },
		SetScheduleFn: func(ctx context.Context, postID int64, scheduleAt time.Time, specific bool, timezone string) error {
			setSpecific = specific
			return nil
		},
	}
	// The owner has no fixed policy, so the reschedule only succeeds if the
	// post's specific flag keeps governing it.
	ur := ownerRepo(&models.User{ID: 1, Timezone: "UTC"})
	s := NewPostService(testConfig(), pr, ur, &mockPublishRecordRepo{}, &mockMediaService{}, &mockLinkedinService{})

	_, err := s.Schedule(context.Background(), 1, &transfer.ScheduleRequest{
		PostID:       5,
		ScheduleTime: futureTimestamp(),
	}, nil)
	require.NoError(t, err)
	assert.True(t, setSpecific)
}

func TestCancelSchedule(t *testing.T) {
	cleared := false
	pr := &mockPostRepo{
		CheckByUserIDFn: func(ctx context.Context, postID, userID int64) (bool, error) { return true, nil },
		GetByIDFn: func(ctx context.Context, id int64) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 1, Status: models.PostStatusScheduled}, nil
		},
		ClearScheduleFn: func(ctx context.Context, postID int64) error {
			cleared = true
			return nil
		},
	}
	s := NewPostService(testConfig(), pr, ownerRepo(nil), &mockPublishRecordRepo{}, &mockMediaService{}, &mockLinkedinService{})

	require.NoError(t, s.CancelSchedule(context.Background(), 1, 5))
	assert.True(t, cleared)
}

func TestCancelScheduleNotScheduled(t *testing.T) {
	pr := &mockPostRepo{
		CheckByUserIDFn: func(ctx context.Context, postID, userID int64) (bool, error) { return true, nil },
		GetByIDFn: func(ctx context.Context, id int64) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 1, Status: models.PostStatusDraft}, nil
		},
	}
	s := NewPostService(testConfig(), pr, ownerRepo(nil), &mockPublishRecordRepo{}, &mockMediaService{}, &mockLinkedinService{})

	err := s.CancelSchedule(context.Background(), 1, 5)
	assert.ErrorIs(t, err, ErrNotScheduled)
}

func TestOwnerCredential(t *testing.T) {
	owner := &models.User{
		ID:             1,
		LinkedinID:     "abc123",
		AccessToken:    encryptedToken(t, "raw-token"),
		TokenExpiresAt: sql.NullTime{Time: time.Now().Add(time.Hour), Valid: true},
	}
	s := NewPostService(testConfig(), &mockPostRepo{}, ownerRepo(owner), &mockPublishRecordRepo{}, &mockMediaService{}, &mockLinkedinService{})

	got, token, err := s.OwnerCredential(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "raw-token", token)
	assert.Equal(t, "urn:li:person:abc123", got.AuthorURN())
}

func TestOwnerCredentialMissingOrExpired(t *testing.T) {
	cases := []struct {
		name  string
		owner *models.User
	}{
		{"no token", &models.User{ID: 1, LinkedinID: "abc123"}},
		{"no linkedin id", &models.User{ID: 1, AccessToken: "something"}},
		{"expired", &models.User{
			ID:             1,
			LinkedinID:     "abc123",
			AccessToken:    "something",
			TokenExpiresAt: sql.NullTime{Time: time.Now().Add(-time.Hour), Valid: true},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewPostService(testConfig(), &mockPostRepo{}, ownerRepo(tc.owner), &mockPublishRecordRepo{}, &mockMediaService{}, &mockLinkedinService{})
			_, _, err := s.OwnerCredential(context.Background(), 1)
			assert.ErrorIs(t, err, ErrAuthExpired)
		})
	}
}

func TestMarkPublishedRecordsExternalIDBeforeStatus(t *testing.T) {
	var order []string
	rec := &mockPublishRecordRepo{
		CreateFn: func(ctx context.Context, record *models.PublishRecord) (int64, error) {
			order = append(order, "record:"+record.ExternalPostID)
			return 1, nil
		},
	}
	pr := &mockPostRepo{
		MarkPublishedFn: func(ctx context.Context, postID int64, publishedAt time.Time) error {
			order = append(order, "status")
			return nil
		},
	}
	s := NewPostService(testConfig(), pr, ownerRepo(nil), rec, &mockMediaService{}, &mockLinkedinService{})

	post := &models.Post{ID: 5, UserID: 1}
	require.NoError(t, s.MarkPublished(context.Background(), post, "urn:li:share:42"))
	assert.Equal(t, []string{"record:urn:li:share:42", "status"}, order)
}

func TestMarkPublishedStatusWriteFails(t *testing.T) {
	recorded := false
	rec := &mockPublishRecordRepo{
		CreateFn: func(ctx context.Context, record *models.PublishRecord) (int64, error) {
			recorded = true
			return 1, nil
		},
	}
	pr := &mockPostRepo{
		MarkPublishedFn: func(ctx context.Context, postID int64, publishedAt time.Time) error {
			return errors.New("connection reset")
		},
	}
	s := NewPostService(testConfig(), pr, ownerRepo(nil), rec, &mockMediaService{}, &mockLinkedinService{})

	err := s.MarkPublished(context.Background(), &models.Post{ID: 5, UserID: 1}, "urn:li:share:42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not marked")
	assert.True(t, recorded, "external id must be on the audit trail even when the status write fails")
}

func TestMarkFailed(t *testing.T) {
	var recordedErr string
	var markedErr string
	rec := &mockPublishRecordRepo{
		CreateFn: func(ctx context.Context, record *models.PublishRecord) (int64, error) {
			recordedErr = record.ErrorMessage
			return 1, nil
		},
	}
	pr := &mockPostRepo{
		MarkFailedFn: func(ctx context.Context, postID int64, errorMessage string) error {
			markedErr = errorMessage
			return nil
		},
	}
	s := NewPostService(testConfig(), pr, ownerRepo(nil), rec, &mockMediaService{}, &mockLinkedinService{})

	cause := &PlatformError{StatusCode: 500, Body: "oops"}
	require.NoError(t, s.MarkFailed(context.Background(), &models.Post{ID: 5, UserID: 1}, cause))
	assert.Equal(t, cause.Error(), recordedErr)
	assert.Equal(t, cause.Error(), markedErr)
}

func TestPublishNow(t *testing.T) {
	owner := &models.User{
		ID:          1,
		LinkedinID:  "abc123",
		AccessToken: encryptedToken(t, "raw-token"),
	}
	published := false
	pr := &mockPostRepo{
		CheckByUserIDFn: func(ctx context.Context, postID, userID int64) (bool, error) { return true, nil },
		GetByIDFn: func(ctx context.Context, id int64) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 1, Title: "Hello", Body: "World", Status: models.PostStatusDraft}, nil
		},
		MarkPublishedFn: func(ctx context.Context, postID int64, publishedAt time.Time) error {
			published = true
			return nil
		},
	}
	rec := &mockPublishRecordRepo{
		CreateFn: func(ctx context.Context, record *models.PublishRecord) (int64, error) { return 1, nil },
	}
	ms := &mockMediaService{
		PrepareFn: func(ctx context.Context, accessToken, authorURN string, items []transfer.MediaItem) ([]string, []transfer.MediaFailure) {
			return nil, nil
		},
	}
	li := &mockLinkedinService{
		PublishFn: func(ctx context.Context, accessToken, authorURN, title, body string, assets []string, visibility string) (string, error) {
			assert.Equal(t, "raw-token", accessToken)
			assert.Equal(t, "urn:li:person:abc123", authorURN)
			return "urn:li:share:99", nil
		},
	}
	s := NewPostService(testConfig(), pr, ownerRepo(owner), rec, ms, li)

	externalID, err := s.PublishNow(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, "urn:li:share:99", externalID)
	assert.True(t, published)
}

func TestPublishNowPlatformFailureMarksFailed(t *testing.T) {
	owner := &models.User{
		ID:          1,
		LinkedinID:  "abc123",
		AccessToken: encryptedToken(t, "raw-token"),
	}
	var failedMessage string
	pr := &mockPostRepo{
		CheckByUserIDFn: func(ctx context.Context, postID, userID int64) (bool, error) { return true, nil },
		GetByIDFn: func(ctx context.Context, id int64) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 1, Body: "World", Status: models.PostStatusScheduled}, nil
		},
		MarkFailedFn: func(ctx context.Context, postID int64, errorMessage string) error {
			failedMessage = errorMessage
			return nil
		},
	}
	rec := &mockPublishRecordRepo{
		CreateFn: func(ctx context.Context, record *models.PublishRecord) (int64, error) { return 1, nil },
	}
	ms := &mockMediaService{
		PrepareFn: func(ctx context.Context, accessToken, authorURN string, items []transfer.MediaItem) ([]string, []transfer.MediaFailure) {
			return nil, nil
		},
	}
	platformErr := &PlatformError{StatusCode: 422, Body: "bad content"}
	li := &mockLinkedinService{
		PublishFn: func(ctx context.Context, accessToken, authorURN, title, body string, assets []string, visibility string) (string, error) {
			return "", platformErr
		},
	}
	s := NewPostService(testConfig(), pr, ownerRepo(owner), rec, ms, li)

	_, err := s.PublishNow(context.Background(), 1, 5)
	require.Error(t, err)
	assert.Equal(t, platformErr.Error(), failedMessage)
}
