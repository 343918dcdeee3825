package repository

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/eventcrew/awardsysbackend/models"
)

// AuditRepository handles database operations for the append-only audit trail
type AuditRepository struct {
	DB *gorm.DB
}

// NewAuditRepository creates a new instance of AuditRepository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{DB: db}
}

// Create appends one audit entry. There is no update or delete counterpart.
func (r *AuditRepository) Create(entry *models.AuditEntry) error {
	if err := r.DB.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit entry for %s %s: %w", entry.TargetTable, entry.TargetID, err)
	}
	return nil
}

// List retrieves audit entries newest first, optionally filtered by action
func (r *AuditRepository) List(action string, limit, offset int) ([]models.AuditEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	queryBuilder := psql.Select("*").
		From("audit_entries").
		OrderBy("id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	if action != "" {
		queryBuilder = queryBuilder.Where(sq.Eq{"action": action})
	}

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build audit list query: %w", err)
	}

	var entries []models.AuditEntry
	if err := r.DB.Raw(sqlStr, args...).Scan(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
