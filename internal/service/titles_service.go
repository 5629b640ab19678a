package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

// TitlesService manages the generate -> select -> consume lifecycle of bulk
// title candidates. A user has at most one live batch: generating a new one
// rejects the previous batch in the same transaction.
type TitlesService interface {
	Generate(ctx context.Context, userID int64, topic string, count int) (*transfer.TitleBatchInfo, error)
	Select(ctx context.Context, userID int64, chosen []string) ([]*models.Title, error)
	MarkGenerated(ctx context.Context, userID int64, titleText string) error
	MarkGeneratedByID(ctx context.Context, titleID int64) error
	HasActiveBatch(ctx context.Context, userID int64) (bool, error)
	BatchInfo(ctx context.Context, userID int64) (*transfer.TitleBatchInfo, error)
}

type titlesService struct {
	db  *sql.DB
	tb  repository.TitleBatchRepository
	gen ContentGenerator
}

func NewTitlesService(db *sql.DB, tb repository.TitleBatchRepository, gen ContentGenerator) TitlesService {
	return &titlesService{
		db:  db,
		tb:  tb,
		gen: gen,
	}
}

func (s *titlesService) Generate(ctx context.Context, userID int64, topic string, count int) (*transfer.TitleBatchInfo, error) {
	if count <= 0 {
		count = 10
	}

	texts, err := s.gen.Titles(ctx, topic, count)
	if err != nil {
		return nil, fmt.Errorf("error generating titles: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	if err = s.tb.RejectActive(ctx, tx, userID); err != nil {
		return nil, fmt.Errorf("error superseding previous batch: %w", err)
	}

	batch := models.TitleBatch{
		UserID: userID,
		Status: models.BatchStatusInGame,
		Topic:  topic,
	}
	batchID, err := s.tb.Create(ctx, tx, &batch)
	if err != nil {
		return nil, fmt.Errorf("error creating title batch: %w", err)
	}

	info := &transfer.TitleBatchInfo{
		BatchID: batchID,
		Status:  models.BatchStatusInGame,
		Topic:   topic,
	}

	for i, text := range texts {
		title := models.Title{
			BatchID:  batchID,
			Text:     text,
			Status:   models.TitleStatusUnselected,
			Position: i,
		}
		titleID, createErr := s.tb.CreateTitle(ctx, tx, &title)
		if createErr != nil {
			err = fmt.Errorf("error saving title: %w", createErr)
			return nil, err
		}
		info.Titles = append(info.Titles, transfer.TitleInfo{
			ID:     titleID,
			Text:   text,
			Status: models.TitleStatusUnselected,
		})
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return info, nil
}

// Select overwrites the selection state of every title in the latest batch:
// titles named in chosen become selected, all others revert to unselected.
// Returns the selected titles so callers can enqueue follow-on generation.
func (s *titlesService) Select(ctx context.Context, userID int64, chosen []string) ([]*models.Title, error) {
	batch, isExist, err := s.tb.GetLatestByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !isExist {
		slog.Info(ErrNoBatch.Error())
		return nil, ErrNoBatch
	}

	titles, err := s.tb.ListTitles(ctx, batch.ID)
	if err != nil {
		return nil, err
	}

	chosenSet := make(map[string]struct{}, len(chosen))
	for _, text := range chosen {
		chosenSet[text] = struct{}{}
	}

	var selected []*models.Title
	for _, title := range titles {
		status := models.TitleStatusUnselected
		if _, ok := chosenSet[title.Text]; ok {
			status = models.TitleStatusSelected
		}
		if err := s.tb.UpdateTitleStatus(ctx, nil, title.ID, status); err != nil {
			return nil, fmt.Errorf("error updating title %d: %w", title.ID, err)
		}
		title.Status = status
		if status == models.TitleStatusSelected {
			selected = append(selected, title)
		}
	}

	if err := s.tb.UpdateStatus(ctx, batch.ID, models.BatchStatusInProcess); err != nil {
		return nil, err
	}

	return selected, nil
}

// MarkGenerated flips one title to generated once content has been produced
// for it. Idempotent if the title is already generated.
func (s *titlesService) MarkGenerated(ctx context.Context, userID int64, titleText string) error {
	batch, isExist, err := s.tb.GetLatestByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if !isExist {
		slog.Info(ErrNoBatch.Error())
		return ErrNoBatch
	}

	title, isExist, err := s.tb.GetTitleByText(ctx, batch.ID, titleText)
	if err != nil {
		return err
	}
	if !isExist {
		slog.Info(ErrTitleNotFound.Error())
		return ErrTitleNotFound
	}

	if title.Status == models.TitleStatusGenerated {
		return nil
	}

	return s.tb.UpdateTitleStatus(ctx, nil, title.ID, models.TitleStatusGenerated)
}

func (s *titlesService) MarkGeneratedByID(ctx context.Context, titleID int64) error {
	title, isExist, err := s.tb.GetTitleByID(ctx, titleID)
	if err != nil {
		return err
	}
	if !isExist {
		slog.Info(ErrTitleNotFound.Error())
		return ErrTitleNotFound
	}

	if title.Status == models.TitleStatusGenerated {
		return nil
	}

	return s.tb.UpdateTitleStatus(ctx, nil, title.ID, models.TitleStatusGenerated)
}

// HasActiveBatch reports whether an ingame or inprocess batch exists. The UI
// uses this to decide between showing stored titles and generating fresh ones.
func (s *titlesService) HasActiveBatch(ctx context.Context, userID int64) (bool, error) {
	return s.tb.HasActive(ctx, userID)
}

func (s *titlesService) BatchInfo(ctx context.Context, userID int64) (*transfer.TitleBatchInfo, error) {
	batch, isExist, err := s.tb.GetLatestByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !isExist {
		slog.Info(ErrNoBatch.Error())
		return nil, ErrNoBatch
	}

	titles, err := s.tb.ListTitles(ctx, batch.ID)
	if err != nil {
		return nil, err
	}

	info := &transfer.TitleBatchInfo{
		BatchID: batch.ID,
		Status:  batch.Status,
		Topic:   batch.Topic,
	}
	for _, title := range titles {
		info.Titles = append(info.Titles, transfer.TitleInfo{
			ID:     title.ID,
			Text:   title.Text,
			Status: title.Status,
		})
	}

	return info, nil
}
