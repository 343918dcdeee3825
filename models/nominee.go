package models

import "time"

// Nominee is a candidate within a single category. The owning category must
// be active when the nominee is created. Deleting a category cascades a soft
// delete to its nominees; deleting a nominee hard-deletes its votes.
type Nominee struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID   string    `gorm:"not null;size:64;index" json:"category_id"`
	Name         string    `gorm:"not null" json:"name"`
	Description  string    `json:"description"`
	PhotoPath    *string   `json:"photo_path,omitempty"` // Nullable, relative to the photo storage dir
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	// no gorm default; see Category.Active
	Active       bool      `gorm:"not null;index" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (Nominee) TableName() string {
	return "nominees"
}
