package models

import "time"

// Category represents one award category attendees can vote in.
// Its ID is a stable slug chosen by the administrator at creation time and
// never changes afterwards. Categories are soft deleted via the Active flag
// so that existing votes keep a valid reference.
type Category struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `gorm:"not null" json:"description"`
	Icon         string    `gorm:"not null" json:"icon"`
	// no gorm default on the bool flags: a default tag makes gorm drop the
	// zero value from the INSERT, so an explicit false would be stored as
	// true. Callers set them on every create.
	IsAward      bool      `gorm:"not null" json:"is_award"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	Active       bool      `gorm:"not null;index" json:"-"`
	Nominees     []Nominee `gorm:"foreignKey:CategoryID" json:"nominees,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (Category) TableName() string {
	return "categories"
}
