package models

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type Post struct {
	ID               int64          `db:"id" json:"id"`
	UserID           int64          `db:"user_id" json:"user_id"`
	Title            string         `db:"title" json:"title"`
	Body             string         `db:"body" json:"body"`
	Images           pq.StringArray `db:"images" json:"images"`
	ImageURLs        pq.StringArray `db:"image_urls" json:"image_urls"`
	Status           string         `db:"status" json:"status"` // draft, scheduled, published, failed
	SpecificSchedule bool           `db:"specific_schedule" json:"specific_schedule"`
	ScheduleAt       sql.NullTime   `db:"schedule_at" json:"schedule_at"`
	Timezone         string         `db:"timezone" json:"timezone"`
	ErrorMessage     string         `db:"error_message" json:"error_message"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
	PublishedAt      sql.NullTime   `db:"published_at" json:"published_at"`
}

const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
	PostStatusFailed    = "failed"
)

// AllImages merges locally hosted and external image URLs, order preserved,
// local uploads first. The first entry is the cover image.
func (p *Post) AllImages() []string {
	merged := make([]string, 0, len(p.Images)+len(p.ImageURLs))
	merged = append(merged, p.Images...)
	merged = append(merged, p.ImageURLs...)
	return merged
}
