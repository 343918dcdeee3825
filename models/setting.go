package models

import "time"

// Setting keys that gate vote acceptance.
const (
	SettingVotingEnabled = "voting_enabled"  // "true" opens voting, anything else closes it
	SettingVotingEndDate = "voting_end_date" // RFC3339 timestamp; empty means no deadline
	SettingEventName     = "event_name"
)

// SystemSetting stores admin-configurable key/value settings.
type SystemSetting struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Key         string    `gorm:"uniqueIndex;size:100;not null" json:"key"`
	Value       string    `gorm:"size:255;not null" json:"value"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (SystemSetting) TableName() string {
	return "system_settings"
}
