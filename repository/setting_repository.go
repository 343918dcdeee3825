package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eventcrew/awardsysbackend/models"
)

// SettingRepository handles database operations for SystemSetting entities
type SettingRepository struct {
	DB *gorm.DB
}

// NewSettingRepository creates a new instance of SettingRepository
func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{DB: db}
}

// Get retrieves a setting by its unique key
func (r *SettingRepository) Get(key string) (*models.SystemSetting, error) {
	var setting models.SystemSetting
	err := r.DB.Where("key = ?", key).First(&setting).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return &setting, nil
}

// ListAll retrieves every system setting
func (r *SettingRepository) ListAll() ([]models.SystemSetting, error) {
	var settings []models.SystemSetting
	if err := r.DB.Order("key ASC").Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}

// Upsert inserts the setting or updates the value of the existing key
func (r *SettingRepository) Upsert(setting *models.SystemSetting) error {
	setting.UpdatedAt = time.Now()
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(setting).Error
	if err != nil {
		return fmt.Errorf("failed to upsert setting %s: %w", setting.Key, err)
	}
	return nil
}
