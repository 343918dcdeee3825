package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/eventcrew/awardsysbackend/models"
	"github.com/eventcrew/awardsysbackend/realtime"
	"github.com/eventcrew/awardsysbackend/repository"
)

// SettingsService updates the admin-configurable system settings. Keys are
// seeded at first boot; updates never create new keys.
type SettingsService struct {
	Settings repository.SettingRepositoryInterface
	Audit    *AuditRecorder
	Hub      *realtime.Hub
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settings repository.SettingRepositoryInterface, audit *AuditRecorder, hub *realtime.Hub) *SettingsService {
	return &SettingsService{Settings: settings, Audit: audit, Hub: hub}
}

// ListSettings returns every system setting.
func (s *SettingsService) ListSettings() ([]models.SystemSetting, error) {
	return s.Settings.ListAll()
}

// UpdateSetting changes the value of an existing setting and publishes the
// admin-scope setting-updated event.
func (s *SettingsService) UpdateSetting(actorID *uint, ip, key, value string) (*models.SystemSetting, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: key is required", ErrInvalidInput)
	}
	if key == models.SettingVotingEndDate && value != "" {
		if _, err := time.Parse(time.RFC3339, value); err != nil {
			return nil, fmt.Errorf("%w: %s must be RFC3339: %v", ErrInvalidInput, key, err)
		}
	}

	before, err := s.Settings.Get(key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: setting %q", ErrNotFound, key)
		}
		return nil, err
	}

	updated := &models.SystemSetting{
		Key:         key,
		Value:       value,
		Description: before.Description,
	}
	if err := s.Settings.Upsert(updated); err != nil {
		return nil, err
	}

	after, err := s.Settings.Get(key)
	if err != nil {
		return nil, err
	}

	s.Audit.Record(actorID, "setting.update", "system_settings", key, before, after, ip)
	s.Hub.PublishAdmin(realtime.SettingUpdated{Key: key, Value: value})
	return after, nil
}
