package repository

import (
	"fmt"
	"sort"
	"time"

	"github.com/facette/natsort"
	"gorm.io/gorm"

	"github.com/eventcrew/awardsysbackend/models"
)

// NomineeRepository handles database operations for Nominee entities
type NomineeRepository struct {
	DB *gorm.DB
}

// NewNomineeRepository creates a new instance of NomineeRepository
func NewNomineeRepository(db *gorm.DB) *NomineeRepository {
	return &NomineeRepository{DB: db}
}

// Create inserts a new nominee record in the database
func (r *NomineeRepository) Create(nominee *models.Nominee) error {
	nominee.Active = true
	err := r.DB.Create(nominee).Error
	if err != nil {
		return fmt.Errorf("failed to create nominee %s: %w", nominee.Name, err)
	}
	return nil
}

// GetByID retrieves an active nominee by its ID
func (r *NomineeRepository) GetByID(id uint) (*models.Nominee, error) {
	var nominee models.Nominee
	err := r.DB.Where("id = ? AND active = ?", id, true).First(&nominee).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get nominee %d: %w", id, err)
	}
	return &nominee, nil
}

// ListByCategory retrieves the active nominees of a category, ordered by
// display order with a natural-order name tie-break so "Team 2" sorts
// before "Team 10"
func (r *NomineeRepository) ListByCategory(categoryID string) ([]models.Nominee, error) {
	var nominees []models.Nominee
	err := r.DB.
		Where("category_id = ? AND active = ?", categoryID, true).
		Order("display_order ASC").
		Find(&nominees).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list nominees for category %s: %w", categoryID, err)
	}
	sort.SliceStable(nominees, func(i, j int) bool {
		if nominees[i].DisplayOrder != nominees[j].DisplayOrder {
			return nominees[i].DisplayOrder < nominees[j].DisplayOrder
		}
		return natsort.Compare(nominees[i].Name, nominees[j].Name)
	})
	return nominees, nil
}

// Update applies the given column updates to an active nominee and refreshes
// its updated_at timestamp
func (r *NomineeRepository) Update(id uint, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.DB.Model(&models.Nominee{}).Where("id = ? AND active = ?", id, true).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update nominee %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdatePhotoPath swaps the stored photo reference for a nominee. A nil path
// clears the photo.
func (r *NomineeRepository) UpdatePhotoPath(id uint, photoPath *string) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if photoPath == nil {
		updates["photo_path"] = gorm.Expr("NULL")
	} else {
		updates["photo_path"] = *photoPath
	}
	result := r.DB.Model(&models.Nominee{}).Where("id = ? AND active = ?", id, true).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update photo path for nominee %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SoftDeleteWithVotes marks a nominee inactive and hard-deletes all votes
// referencing it within the same transaction. Votes are not meaningful once
// their nominee is gone.
func (r *NomineeRepository) SoftDeleteWithVotes(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Nominee{}).
			Where("id = ? AND active = ?", id, true).
			Updates(map[string]interface{}{"active": false, "updated_at": time.Now()})
		if result.Error != nil {
			return fmt.Errorf("failed to soft-delete nominee %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("nominee_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return fmt.Errorf("failed to delete votes for nominee %d: %w", id, err)
		}
		return nil
	})
}

// ListReferencedPhotoPaths returns every stored photo path referenced by any
// nominee row, active or not. Used by the orphan sweep to decide which files
// are safe to remove.
func (r *NomineeRepository) ListReferencedPhotoPaths() ([]string, error) {
	var paths []string
	err := r.DB.Model(&models.Nominee{}).
		Where("photo_path IS NOT NULL").
		Pluck("photo_path", &paths).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list referenced photo paths: %w", err)
	}
	return paths, nil
}
