package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/postpilot/internal/models"
)

type TitleBatchRepository interface {
	GetLatestByUserID(ctx context.Context, userID int64) (*models.TitleBatch, bool, error)
	HasActive(ctx context.Context, userID int64) (bool, error)
	Create(ctx context.Context, tx *sql.Tx, batch *models.TitleBatch) (int64, error)
	RejectActive(ctx context.Context, tx *sql.Tx, userID int64) error
	UpdateStatus(ctx context.Context, batchID int64, status string) error
	CreateTitle(ctx context.Context, tx *sql.Tx, title *models.Title) (int64, error)
	ListTitles(ctx context.Context, batchID int64) ([]*models.Title, error)
	GetTitleByText(ctx context.Context, batchID int64, text string) (*models.Title, bool, error)
	GetTitleByID(ctx context.Context, id int64) (*models.Title, bool, error)
	UpdateTitleStatus(ctx context.Context, tx *sql.Tx, titleID int64, status string) error
}

type titleBatchRepository struct {
	db *sql.DB
}

func NewTitleBatchRepository(db *sql.DB) TitleBatchRepository {
	return &titleBatchRepository{db: db}
}

func (r *titleBatchRepository) GetLatestByUserID(ctx context.Context, userID int64) (*models.TitleBatch, bool, error) {
	query := `
		SELECT id, user_id, status, topic, created_at, updated_at
		FROM title_batches
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var batch models.TitleBatch
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&batch.ID, &batch.UserID,
		&batch.Status, &batch.Topic, &batch.CreatedAt, &batch.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return &batch, true, nil
}

func (r *titleBatchRepository) HasActive(ctx context.Context, userID int64) (bool, error) {
	query := `SELECT 1 FROM title_batches WHERE user_id = $1 AND status IN ($2, $3) LIMIT 1`

	var result int
	err := r.db.QueryRowContext(ctx, query, userID, models.BatchStatusInGame, models.BatchStatusInProcess).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *titleBatchRepository) Create(ctx context.Context, tx *sql.Tx, batch *models.TitleBatch) (int64, error) {
	query := `
		INSERT INTO title_batches (user_id, status, topic)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, batch.UserID, batch.Status, batch.Topic).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, batch.UserID, batch.Status, batch.Topic).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

// RejectActive supersedes every non-rejected batch for the user. Combined
// with Create in one transaction it keeps at most one live batch per owner.
func (r *titleBatchRepository) RejectActive(ctx context.Context, tx *sql.Tx, userID int64) error {
	query := `
		UPDATE title_batches
		SET status = $1,
			updated_at = $2
		WHERE user_id = $3 AND status != $1
	`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, models.BatchStatusRejected, time.Now(), userID)
	} else {
		_, err = r.db.ExecContext(ctx, query, models.BatchStatusRejected, time.Now(), userID)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *titleBatchRepository) UpdateStatus(ctx context.Context, batchID int64, status string) error {
	query := `
		UPDATE title_batches
		SET status = $1,
			updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), batchID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *titleBatchRepository) CreateTitle(ctx context.Context, tx *sql.Tx, title *models.Title) (int64, error) {
	query := `
		INSERT INTO titles (batch_id, text, status, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, title.BatchID, title.Text, title.Status, title.Position).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, title.BatchID, title.Text, title.Status, title.Position).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *titleBatchRepository) ListTitles(ctx context.Context, batchID int64) ([]*models.Title, error) {
	query := `
		SELECT id, batch_id, text, status, position, created_at
		FROM titles
		WHERE batch_id = $1
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, batchID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var titles []*models.Title
	for rows.Next() {
		var t models.Title
		if err := rows.Scan(&t.ID, &t.BatchID, &t.Text, &t.Status, &t.Position, &t.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		titles = append(titles, &t)
	}

	if err = rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return titles, nil
}

func (r *titleBatchRepository) GetTitleByText(ctx context.Context, batchID int64, text string) (*models.Title, bool, error) {
	query := `
		SELECT id, batch_id, text, status, position, created_at
		FROM titles
		WHERE batch_id = $1 AND text = $2
	`

	var t models.Title
	err := r.db.QueryRowContext(ctx, query, batchID, text).Scan(&t.ID, &t.BatchID, &t.Text, &t.Status, &t.Position, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return &t, true, nil
}

func (r *titleBatchRepository) GetTitleByID(ctx context.Context, id int64) (*models.Title, bool, error) {
	query := `
		SELECT id, batch_id, text, status, position, created_at
		FROM titles
		WHERE id = $1
	`

	var t models.Title
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.BatchID, &t.Text, &t.Status, &t.Position, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return &t, true, nil
}

func (r *titleBatchRepository) UpdateTitleStatus(ctx context.Context, tx *sql.Tx, titleID int64, status string) error {
	query := `UPDATE titles SET status = $1 WHERE id = $2`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, status, titleID)
	} else {
		_, err = r.db.ExecContext(ctx, query, status, titleID)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
