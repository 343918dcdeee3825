package services

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/eventcrew/awardsysbackend/database"
	"github.com/eventcrew/awardsysbackend/models"
	"github.com/eventcrew/awardsysbackend/realtime"
	"github.com/eventcrew/awardsysbackend/repository"
)

// testEnv wires the services against a throwaway sqlite file with the real
// repositories, so upsert and cascade behavior is tested against the actual
// engine semantics rather than mocks.
type testEnv struct {
	db         *gorm.DB
	hub        *realtime.Hub
	categories *repository.CategoryRepository
	nominees   *repository.NomineeRepository
	votes      *repository.VoteRepository
	settings   *repository.SettingRepository
	auditRepo  *repository.AuditRepository
	audit      *AuditRecorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.InitGormDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	hub := realtime.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	auditRepo := repository.NewAuditRepository(db)
	return &testEnv{
		db:         db,
		hub:        hub,
		categories: repository.NewCategoryRepository(db),
		nominees:   repository.NewNomineeRepository(db),
		votes:      repository.NewVoteRepository(db),
		settings:   repository.NewSettingRepository(db),
		auditRepo:  auditRepo,
		audit:      NewAuditRecorder(auditRepo, hub),
	}
}

func (e *testEnv) seedSetting(t *testing.T, key, value string) {
	t.Helper()
	if err := e.settings.Upsert(&models.SystemSetting{Key: key, Value: value}); err != nil {
		t.Fatalf("failed to seed setting %s: %v", key, err)
	}
}

func (e *testEnv) seedCategory(t *testing.T, id, title string) *models.Category {
	t.Helper()
	category := &models.Category{
		ID:          id,
		Title:       title,
		Description: title + " description",
		Icon:        "trophy",
		IsAward:     true,
	}
	if err := e.categories.Create(category); err != nil {
		t.Fatalf("failed to seed category %s: %v", id, err)
	}
	return category
}

func (e *testEnv) seedNominee(t *testing.T, categoryID, name string) *models.Nominee {
	t.Helper()
	nominee := &models.Nominee{CategoryID: categoryID, Name: name}
	if err := e.nominees.Create(nominee); err != nil {
		t.Fatalf("failed to seed nominee %s: %v", name, err)
	}
	return nominee
}

func (e *testEnv) voteCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	if err := e.db.Model(&models.Vote{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count votes: %v", err)
	}
	return count
}

// discardCleaner satisfies FileCleaner for tests that do not care about
// stored files.
type discardCleaner struct {
	enqueued []string
}

func (c *discardCleaner) Enqueue(relPath string) {
	c.enqueued = append(c.enqueued, relPath)
}
