package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/eventcrew/awardsysbackend/models"
)

// CategoryRepository handles database operations for Category entities
type CategoryRepository struct {
	DB *gorm.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

// Create inserts a new category record in the database
func (r *CategoryRepository) Create(category *models.Category) error {
	category.Active = true
	err := r.DB.Create(category).Error
	if err != nil {
		return fmt.Errorf("failed to create category %s: %w", category.ID, err)
	}
	return nil
}

// GetByID retrieves an active category by its slug
func (r *CategoryRepository) GetByID(id string) (*models.Category, error) {
	var category models.Category
	err := r.DB.Where("id = ? AND active = ?", id, true).First(&category).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get category %s: %w", id, err)
	}
	return &category, nil
}

// GetByIDAny retrieves a category by its slug regardless of the active flag.
// Used to distinguish "slug taken by a soft-deleted category" from "absent".
func (r *CategoryRepository) GetByIDAny(id string) (*models.Category, error) {
	var category models.Category
	err := r.DB.Where("id = ?", id).First(&category).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get category %s: %w", id, err)
	}
	return &category, nil
}

// ListActive retrieves all active categories with their active nominees
// preloaded, ordered by display order
func (r *CategoryRepository) ListActive() ([]models.Category, error) {
	var categories []models.Category
	err := r.DB.
		Where("active = ?", true).
		Order("display_order ASC, id ASC").
		Preload("Nominees", func(db *gorm.DB) *gorm.DB {
			return db.Where("active = ?", true).Order("display_order ASC, id ASC")
		}).
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Update applies the given column updates to an active category and
// refreshes its updated_at timestamp
func (r *CategoryRepository) Update(id string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.DB.Model(&models.Category{}).Where("id = ? AND active = ?", id, true).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update category %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SoftDeleteCascade marks a category inactive and cascades the soft delete
// to all of its nominees within the same transaction. Votes referencing the
// cascaded nominees stay in storage for history; tallies exclude them by
// joining through active rows only.
func (r *CategoryRepository) SoftDeleteCascade(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		result := tx.Model(&models.Category{}).
			Where("id = ? AND active = ?", id, true).
			Updates(map[string]interface{}{"active": false, "updated_at": now})
		if result.Error != nil {
			return fmt.Errorf("failed to soft-delete category %s: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Model(&models.Nominee{}).
			Where("category_id = ? AND active = ?", id, true).
			Updates(map[string]interface{}{"active": false, "updated_at": now}).Error; err != nil {
			return fmt.Errorf("failed to cascade soft-delete to nominees of category %s: %w", id, err)
		}
		return nil
	})
}
