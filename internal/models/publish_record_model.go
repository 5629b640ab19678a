package models

import "time"

// PublishRecord is the audit trail of publish attempts. The external post id
// is written here as soon as the platform accepts the post, before any other
// local write, so a successful publish is never lost to a later failure.
type PublishRecord struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	PostID         int64     `db:"post_id" json:"post_id"`
	ExternalPostID string    `db:"external_post_id" json:"external_post_id"`
	ErrorMessage   string    `db:"error_message" json:"error_message"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
