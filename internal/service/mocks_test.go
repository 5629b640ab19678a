package service

import (
	"context"
	"database/sql"
	"mime/multipart"
	"time"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

type mockUserRepo struct {
	GetByIDFn               func(ctx context.Context, id int64) (*models.User, bool, error)
	GetByEmailFn            func(ctx context.Context, email string) (*models.User, bool, error)
	CreateFn                func(ctx context.Context, tx *sql.Tx, user *models.User) (int64, error)
	SetLinkedinCredentialFn func(ctx context.Context, userID int64, linkedinID, accessToken string, expiresAt time.Time) error
	UpdateSchedulePrefsFn   func(ctx context.Context, userID int64, enabled bool, fixedTime sql.NullString, timezone string) error
	RemoveFn                func(ctx context.Context, id int64) error
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	return m.GetByEmailFn(ctx, email)
}

func (m *mockUserRepo) Create(ctx context.Context, tx *sql.Tx, user *models.User) (int64, error) {
	return m.CreateFn(ctx, tx, user)
}

func (m *mockUserRepo) SetLinkedinCredential(ctx context.Context, userID int64, linkedinID, accessToken string, expiresAt time.Time) error {
	return m.SetLinkedinCredentialFn(ctx, userID, linkedinID, accessToken, expiresAt)
}

func (m *mockUserRepo) UpdateSchedulePrefs(ctx context.Context, userID int64, enabled bool, fixedTime sql.NullString, timezone string) error {
	return m.UpdateSchedulePrefsFn(ctx, userID, enabled, fixedTime, timezone)
}

func (m *mockUserRepo) Remove(ctx context.Context, id int64) error {
	return m.RemoveFn(ctx, id)
}

type mockPostRepo struct {
	GetByIDFn            func(ctx context.Context, id int64) (*models.Post, error)
	CreateFn             func(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error)
	GetByUserIDFn        func(ctx context.Context, userID int64) ([]*models.Post, error)
	CheckByUserIDFn      func(ctx context.Context, postID, userID int64) (bool, error)
	UpdateContentFn      func(ctx context.Context, post *models.Post) error
	SetScheduleFn        func(ctx context.Context, postID int64, scheduleAt time.Time, specific bool, timezone string) error
	ClearScheduleFn      func(ctx context.Context, postID int64) error
	MarkPublishedFn      func(ctx context.Context, postID int64, publishedAt time.Time) error
	MarkFailedFn         func(ctx context.Context, postID int64, errorMessage string) error
	ListDueSpecificFn    func(ctx context.Context, now time.Time) ([]*models.Post, error)
	ListFixedScheduledFn func(ctx context.Context) ([]*models.Post, error)
	RemoveFn             func(ctx context.Context, id int64) error
}

func (m *mockPostRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *mockPostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	return m.CreateFn(ctx, tx, post)
}

func (m *mockPostRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.Post, error) {
	return m.GetByUserIDFn(ctx, userID)
}

func (m *mockPostRepo) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	return m.CheckByUserIDFn(ctx, postID, userID)
}

func (m *mockPostRepo) UpdateContent(ctx context.Context, post *models.Post) error {
	return m.UpdateContentFn(ctx, post)
}

func (m *mockPostRepo) SetSchedule(ctx context.Context, postID int64, scheduleAt time.Time, specific bool, timezone string) error {
	return m.SetScheduleFn(ctx, postID, scheduleAt, specific, timezone)
}

func (m *mockPostRepo) ClearSchedule(ctx context.Context, postID int64) error {
	return m.ClearScheduleFn(ctx, postID)
}

func (m *mockPostRepo) MarkPublished(ctx context.Context, postID int64, publishedAt time.Time) error {
	return m.MarkPublishedFn(ctx, postID, publishedAt)
}

func (m *mockPostRepo) MarkFailed(ctx context.Context, postID int64, errorMessage string) error {
	return m.MarkFailedFn(ctx, postID, errorMessage)
}

func (m *mockPostRepo) ListDueSpecific(ctx context.Context, now time.Time) ([]*models.Post, error) {
	return m.ListDueSpecificFn(ctx, now)
}

func (m *mockPostRepo) ListFixedScheduled(ctx context.Context) ([]*models.Post, error) {
	return m.ListFixedScheduledFn(ctx)
}

func (m *mockPostRepo) Remove(ctx context.Context, id int64) error {
	return m.RemoveFn(ctx, id)
}

type mockPublishRecordRepo struct {
	CreateFn       func(ctx context.Context, record *models.PublishRecord) (int64, error)
	ListByPostIDFn func(ctx context.Context, postID int64) ([]*models.PublishRecord, error)
}

func (m *mockPublishRecordRepo) Create(ctx context.Context, record *models.PublishRecord) (int64, error) {
	return m.CreateFn(ctx, record)
}

func (m *mockPublishRecordRepo) ListByPostID(ctx context.Context, postID int64) ([]*models.PublishRecord, error) {
	return m.ListByPostIDFn(ctx, postID)
}

type mockTitleBatchRepo struct {
	GetLatestByUserIDFn func(ctx context.Context, userID int64) (*models.TitleBatch, bool, error)
	HasActiveFn         func(ctx context.Context, userID int64) (bool, error)
	CreateFn            func(ctx context.Context, tx *sql.Tx, batch *models.TitleBatch) (int64, error)
	RejectActiveFn      func(ctx context.Context, tx *sql.Tx, userID int64) error
	UpdateStatusFn      func(ctx context.Context, batchID int64, status string) error
	CreateTitleFn       func(ctx context.Context, tx *sql.Tx, title *models.Title) (int64, error)
	ListTitlesFn        func(ctx context.Context, batchID int64) ([]*models.Title, error)
	GetTitleByTextFn    func(ctx context.Context, batchID int64, text string) (*models.Title, bool, error)
	GetTitleByIDFn      func(ctx context.Context, id int64) (*models.Title, bool, error)
	UpdateTitleStatusFn func(ctx context.Context, tx *sql.Tx, titleID int64, status string) error
}

func (m *mockTitleBatchRepo) GetLatestByUserID(ctx context.Context, userID int64) (*models.TitleBatch, bool, error) {
	return m.GetLatestByUserIDFn(ctx, userID)
}

func (m *mockTitleBatchRepo) HasActive(ctx context.Context, userID int64) (bool, error) {
	return m.HasActiveFn(ctx, userID)
}

func (m *mockTitleBatchRepo) Create(ctx context.Context, tx *sql.Tx, batch *models.TitleBatch) (int64, error) {
	return m.CreateFn(ctx, tx, batch)
}

func (m *mockTitleBatchRepo) RejectActive(ctx context.Context, tx *sql.Tx, userID int64) error {
	return m.RejectActiveFn(ctx, tx, userID)
}

func (m *mockTitleBatchRepo) UpdateStatus(ctx context.Context, batchID int64, status string) error {
	return m.UpdateStatusFn(ctx, batchID, status)
}

func (m *mockTitleBatchRepo) CreateTitle(ctx context.Context, tx *sql.Tx, title *models.Title) (int64, error) {
	return m.CreateTitleFn(ctx, tx, title)
}

func (m *mockTitleBatchRepo) ListTitles(ctx context.Context, batchID int64) ([]*models.Title, error) {
	return m.ListTitlesFn(ctx, batchID)
}

func (m *mockTitleBatchRepo) GetTitleByText(ctx context.Context, batchID int64, text string) (*models.Title, bool, error) {
	return m.GetTitleByTextFn(ctx, batchID, text)
}

func (m *mockTitleBatchRepo) GetTitleByID(ctx context.Context, id int64) (*models.Title, bool, error) {
	return m.GetTitleByIDFn(ctx, id)
}

func (m *mockTitleBatchRepo) UpdateTitleStatus(ctx context.Context, tx *sql.Tx, titleID int64, status string) error {
	return m.UpdateTitleStatusFn(ctx, tx, titleID, status)
}

type mockMediaService struct {
	PrepareFn     func(ctx context.Context, accessToken, authorURN string, items []transfer.MediaItem) ([]string, []transfer.MediaFailure)
	SaveUploadsFn func(ctx context.Context, userID int64, files []*multipart.FileHeader) ([]string, error)
}

func (m *mockMediaService) Prepare(ctx context.Context, accessToken, authorURN string, items []transfer.MediaItem) ([]string, []transfer.MediaFailure) {
	return m.PrepareFn(ctx, accessToken, authorURN, items)
}

func (m *mockMediaService) SaveUploads(ctx context.Context, userID int64, files []*multipart.FileHeader) ([]string, error) {
	if m.SaveUploadsFn == nil {
		return nil, nil
	}
	return m.SaveUploadsFn(ctx, userID, files)
}

type mockLinkedinService struct {
	AuthURLFn        func(state string) string
	CallbackFn       func(ctx context.Context, code string, userID int64) error
	RegisterUploadFn func(ctx context.Context, accessToken, authorURN string) (*transfer.RegisterUploadValue, error)
	UploadAssetFn    func(ctx context.Context, accessToken, uploadURL, contentType string, data []byte) error
	PublishFn        func(ctx context.Context, accessToken, authorURN, title, body string, assets []string, visibility string) (string, error)
}

func (m *mockLinkedinService) AuthURL(state string) string {
	return m.AuthURLFn(state)
}

func (m *mockLinkedinService) Callback(ctx context.Context, code string, userID int64) error {
	return m.CallbackFn(ctx, code, userID)
}

func (m *mockLinkedinService) RegisterUpload(ctx context.Context, accessToken, authorURN string) (*transfer.RegisterUploadValue, error) {
	return m.RegisterUploadFn(ctx, accessToken, authorURN)
}

func (m *mockLinkedinService) UploadAsset(ctx context.Context, accessToken, uploadURL, contentType string, data []byte) error {
	return m.UploadAssetFn(ctx, accessToken, uploadURL, contentType, data)
}

func (m *mockLinkedinService) Publish(ctx context.Context, accessToken, authorURN, title, body string, assets []string, visibility string) (string, error) {
	return m.PublishFn(ctx, accessToken, authorURN, title, body, assets, visibility)
}

type mockGenerator struct {
	TitlesFn  func(ctx context.Context, topic string, count int) ([]string, error)
	ContentFn func(ctx context.Context, title string) (*transfer.GeneratedContent, error)
}

func (m *mockGenerator) Titles(ctx context.Context, topic string, count int) ([]string, error) {
	return m.TitlesFn(ctx, topic, count)
}

func (m *mockGenerator) Content(ctx context.Context, title string) (*transfer.GeneratedContent, error) {
	return m.ContentFn(ctx, title)
}
