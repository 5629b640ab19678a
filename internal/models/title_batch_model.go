package models

import "time"

type TitleBatch struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Status    string    `db:"status" json:"status"` // rejected, ingame, inprocess
	Topic     string    `db:"topic" json:"topic"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Title struct {
	ID        int64     `db:"id" json:"id"`
	BatchID   int64     `db:"batch_id" json:"batch_id"`
	Text      string    `db:"text" json:"text"`
	Status    string    `db:"status" json:"status"` // unselected, selected, generated
	Position  int       `db:"position" json:"position"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const (
	BatchStatusRejected  = "rejected"
	BatchStatusInGame    = "ingame"
	BatchStatusInProcess = "inprocess"

	TitleStatusUnselected = "unselected"
	TitleStatusSelected   = "selected"
	TitleStatusGenerated  = "generated"
)
