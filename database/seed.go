package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eventcrew/awardsysbackend/models"
)

var defaultSettings = []models.SystemSetting{
	{Key: models.SettingVotingEnabled, Value: "true", Description: "Whether vote submissions are currently accepted"},
	{Key: models.SettingVotingEndDate, Value: "", Description: "RFC3339 deadline after which votes are rejected; empty means no deadline"},
	{Key: models.SettingEventName, Value: "Awards Night", Description: "Display name of the event"},
}

// SeedDefaults inserts the default system settings and, when the users table
// is empty, a first administrator account. It is idempotent and safe to run
// on every startup: existing settings and users are never overwritten.
func SeedDefaults(db *gorm.DB, adminUsername, adminPassword string) error {
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&defaultSettings).Error; err != nil {
		return fmt.Errorf("failed to seed default settings: %w", err)
	}

	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if userCount > 0 {
		return nil
	}

	if adminUsername == "" || adminPassword == "" {
		log.Println("no users exist and no ADMIN_USERNAME/ADMIN_PASSWORD configured; skipping admin seed")
		return nil
	}

	admin := &models.User{Username: adminUsername}
	if err := admin.SetPassword(adminPassword); err != nil {
		return fmt.Errorf("failed to hash seed admin password: %w", err)
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create seed admin user: %w", err)
	}
	log.Printf("created initial admin user %q", adminUsername)
	return nil
}
