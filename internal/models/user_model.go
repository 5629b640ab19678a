package models

import (
	"database/sql"
	"time"
)

type User struct {
	ID             int64  `db:"id" json:"id"`
	GoogleID       string `db:"google_id" json:"google_id"`
	Email          string `db:"email" json:"email"`
	Name           string `db:"name" json:"name"`
	ProfilePicture string `db:"profile_picture" json:"profile_picture"`

	// LinkedIn credential. AccessToken is stored AES-GCM encrypted and is
	// empty until the account is connected.
	LinkedinID     string       `db:"linkedin_id" json:"linkedin_id"`
	AccessToken    string       `db:"access_token" json:"-"`
	TokenExpiresAt sql.NullTime `db:"token_expires_at" json:"-"`

	FixedScheduleEnabled bool           `db:"fixed_schedule_enabled" json:"fixed_schedule_enabled"`
	FixedScheduleTime    sql.NullString `db:"fixed_schedule_time" json:"fixed_schedule_time"` // "HH:MM"
	Timezone             string         `db:"timezone" json:"timezone"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AuthorURN is the owner identity LinkedIn expects on assets and posts.
func (u *User) AuthorURN() string {
	return "urn:li:person:" + u.LinkedinID
}
