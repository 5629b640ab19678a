package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/postpilot/internal/models"
)

type PublishRecordRepository interface {
	Create(ctx context.Context, record *models.PublishRecord) (int64, error)
	ListByPostID(ctx context.Context, postID int64) ([]*models.PublishRecord, error)
}

type publishRecordRepository struct {
	db *sql.DB
}

func NewPublishRecordRepository(db *sql.DB) PublishRecordRepository {
	return &publishRecordRepository{db: db}
}

func (r *publishRecordRepository) Create(ctx context.Context, record *models.PublishRecord) (int64, error) {
	query := `
		INSERT INTO publish_records (user_id, post_id, external_post_id, error_message)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, record.UserID, record.PostID, record.ExternalPostID, record.ErrorMessage).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *publishRecordRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.PublishRecord, error) {
	query := `
		SELECT id, user_id, post_id, external_post_id, error_message, created_at
		FROM publish_records
		WHERE post_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var records []*models.PublishRecord
	for rows.Next() {
		var rec models.PublishRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.PostID, &rec.ExternalPostID, &rec.ErrorMessage, &rec.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		records = append(records, &rec)
	}

	if err = rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return records, nil
}
