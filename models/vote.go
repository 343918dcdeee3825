package models

import "time"

// Vote records one session's choice in one category. The composite unique
// index on (session_id, category_id) is load-bearing: a repeat vote in the
// same category must overwrite nominee_id on the existing row, never insert
// a second one, and the index is what serializes concurrent casts.
type Vote struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID  string    `gorm:"not null;size:128;uniqueIndex:idx_votes_session_category" json:"session_id"`
	CategoryID string    `gorm:"not null;size:64;uniqueIndex:idx_votes_session_category" json:"category_id"`
	NomineeID  uint      `gorm:"not null;index" json:"nominee_id"`
	VoterIP    string    `gorm:"size:64" json:"-"`
	UserAgent  string    `gorm:"size:255" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (Vote) TableName() string {
	return "votes"
}
