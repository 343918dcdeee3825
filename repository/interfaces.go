package repository

import (
	"github.com/eventcrew/awardsysbackend/models"
)

// CategoryRepositoryInterface defines the methods for category data operations
type CategoryRepositoryInterface interface {
	Create(category *models.Category) error
	GetByID(id string) (*models.Category, error)
	GetByIDAny(id string) (*models.Category, error) // includes soft-deleted rows
	ListActive() ([]models.Category, error)
	Update(id string, updates map[string]interface{}) error
	SoftDeleteCascade(id string) error
}

// NomineeRepositoryInterface defines the methods for nominee data operations
type NomineeRepositoryInterface interface {
	Create(nominee *models.Nominee) error
	GetByID(id uint) (*models.Nominee, error)
	ListByCategory(categoryID string) ([]models.Nominee, error)
	Update(id uint, updates map[string]interface{}) error
	UpdatePhotoPath(id uint, photoPath *string) error
	SoftDeleteWithVotes(id uint) error
	ListReferencedPhotoPaths() ([]string, error)
}

// TallyRow is one (category, nominee) vote count produced by the tally query.
type TallyRow struct {
	CategoryID string `json:"category_id"`
	NomineeID  uint   `json:"nominee_id"`
	Count      int64  `json:"count"`
}

// VoteRepositoryInterface defines the methods for vote data operations
type VoteRepositoryInterface interface {
	// Upsert inserts the vote, or overwrites nominee_id (and voter metadata)
	// on the existing (session_id, category_id) row. The unique index, not
	// application logic, is what guarantees at most one row per pair.
	Upsert(vote *models.Vote) error
	GetBySessionAndCategory(sessionID, categoryID string) (*models.Vote, error)
	ListBySession(sessionID string) ([]models.Vote, error)
	CountAll() (int64, error)
	// Tally returns per-nominee counts joined through active nominees and
	// active categories only; votes referencing soft-deleted rows are kept
	// in storage but excluded here.
	Tally() ([]TallyRow, error)
}

// AuditRepositoryInterface defines the methods for audit trail operations.
// Entries are append-only; there is deliberately no update or delete.
type AuditRepositoryInterface interface {
	Create(entry *models.AuditEntry) error
	List(action string, limit, offset int) ([]models.AuditEntry, error)
}

// SettingRepositoryInterface defines the methods for system setting operations
type SettingRepositoryInterface interface {
	Get(key string) (*models.SystemSetting, error)
	ListAll() ([]models.SystemSetting, error)
	Upsert(setting *models.SystemSetting) error
}

// UserRepositoryInterface defines the methods for admin user data operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
}
