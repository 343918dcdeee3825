package models

import "time"

// AuditEntry is an immutable record of a single mutation: who did it, what
// it touched and the before/after snapshots as JSON. Entries are append-only
// and never updated or deleted. ActorID is nil for anonymous voters.
type AuditEntry struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID     *uint     `gorm:"index" json:"actor_id,omitempty"`
	Action      string    `gorm:"not null;size:64;index" json:"action"`
	TargetTable string    `gorm:"not null;size:64" json:"target_table"`
	TargetID    string    `gorm:"not null;size:128" json:"target_id"`
	Before      *string   `gorm:"type:text" json:"before,omitempty"`
	After       *string   `gorm:"type:text" json:"after,omitempty"`
	IP          string    `gorm:"size:64" json:"ip"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// TableName explicitly sets the table name for GORM.
func (AuditEntry) TableName() string {
	return "audit_entries"
}
