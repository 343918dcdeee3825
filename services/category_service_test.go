package services

import (
	"errors"
	"testing"

	"github.com/eventcrew/awardsysbackend/models"
)

func newCategoryService(e *testEnv) *CategoryService {
	return NewCategoryService(e.categories, e.audit, e.hub)
}

func TestCreateCategory(t *testing.T) {
	env := newTestEnv(t)
	svc := newCategoryService(env)

	created, err := svc.CreateCategory(nil, "", CategoryInput{
		ID:          "best-speaker",
		Title:       "Best Speaker",
		Description: "The sharpest talk of the event",
		Icon:        "mic",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !created.IsAward {
		t.Errorf("is_award should default to true")
	}
	if !created.Active {
		t.Errorf("new category should be active")
	}

	// the slug is taken now, even by this active row
	_, err = svc.CreateCategory(nil, "", CategoryInput{
		ID:          "best-speaker",
		Title:       "Other",
		Description: "other",
		Icon:        "star",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate slug: expected ErrConflict, got %v", err)
	}
}

func TestCreateCategoryStoresExplicitFalseIsAward(t *testing.T) {
	env := newTestEnv(t)
	svc := newCategoryService(env)

	isAward := false
	created, err := svc.CreateCategory(nil, "", CategoryInput{
		ID:          "crowd-pick",
		Title:       "Crowd Pick",
		Description: "A non-award showcase category",
		Icon:        "star",
		IsAward:     &isAward,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.IsAward {
		t.Errorf("explicit is_award=false came back true from create")
	}

	// the stored row must agree, not just the returned struct
	var row models.Category
	if err := env.db.First(&row, "id = ?", "crowd-pick").Error; err != nil {
		t.Fatalf("failed to re-read category: %v", err)
	}
	if row.IsAward {
		t.Errorf("stored row has is_award=true despite explicit false")
	}
	if !row.Active {
		t.Errorf("new category should be stored active")
	}
}

func TestCreateCategoryValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := newCategoryService(env)

	tests := []struct {
		name  string
		input CategoryInput
	}{
		{"missing id", CategoryInput{Title: "t", Description: "d", Icon: "i"}},
		{"blank id", CategoryInput{ID: "   ", Title: "t", Description: "d", Icon: "i"}},
		{"missing title", CategoryInput{ID: "x", Description: "d", Icon: "i"}},
		{"missing description", CategoryInput{ID: "x", Title: "t", Icon: "i"}},
		{"missing icon", CategoryInput{ID: "x", Title: "t", Description: "d"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateCategory(nil, "", tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCreateCategoryConflictsWithSoftDeletedSlug(t *testing.T) {
	env := newTestEnv(t)
	svc := newCategoryService(env)

	env.seedCategory(t, "best-speaker", "Best Speaker")
	if err := svc.DeleteCategory(nil, "", "best-speaker"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	// votes may still reference the old slug, so it can never be reissued
	_, err := svc.CreateCategory(nil, "", CategoryInput{
		ID:          "best-speaker",
		Title:       "Best Speaker Again",
		Description: "d",
		Icon:        "mic",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("reused soft-deleted slug: expected ErrConflict, got %v", err)
	}
}

func TestUpdateCategoryPartial(t *testing.T) {
	env := newTestEnv(t)
	svc := newCategoryService(env)
	env.seedCategory(t, "best-speaker", "Best Speaker")

	newTitle := "Speaker of the Year"
	updated, err := svc.UpdateCategory(nil, "", "best-speaker", CategoryUpdate{Title: &newTitle})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != newTitle {
		t.Errorf("title not applied: %q", updated.Title)
	}
	if updated.Description != "Best Speaker description" {
		t.Errorf("untouched field changed: %q", updated.Description)
	}

	if _, err := svc.UpdateCategory(nil, "", "no-such", CategoryUpdate{Title: &newTitle}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id: expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCategoryCascadesToNominees(t *testing.T) {
	env := newTestEnv(t)
	svc := newCategoryService(env)
	env.seedCategory(t, "best-speaker", "Best Speaker")
	env.seedCategory(t, "best-demo", "Best Demo")
	alice := env.seedNominee(t, "best-speaker", "Alice")
	carol := env.seedNominee(t, "best-demo", "Carol")

	if err := svc.DeleteCategory(nil, "", "best-speaker"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	active, err := svc.ListActive()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != "best-demo" {
		t.Fatalf("expected only best-demo to survive, got %+v", active)
	}

	var aliceRow, carolRow models.Nominee
	if err := env.db.First(&aliceRow, alice.ID).Error; err != nil {
		t.Fatalf("nominee row should survive a cascade: %v", err)
	}
	if aliceRow.Active {
		t.Errorf("nominee of deleted category should be inactive")
	}
	if err := env.db.First(&carolRow, carol.ID).Error; err != nil {
		t.Fatalf("failed to load carol: %v", err)
	}
	if !carolRow.Active {
		t.Errorf("nominee of unrelated category must stay active")
	}

	if err := svc.DeleteCategory(nil, "", "best-speaker"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestListActiveOrdersAndFiltersNominees(t *testing.T) {
	env := newTestEnv(t)
	svc := newCategoryService(env)
	env.seedCategory(t, "best-speaker", "Best Speaker")
	alice := env.seedNominee(t, "best-speaker", "Alice")
	bob := env.seedNominee(t, "best-speaker", "Bob")

	if err := env.nominees.SoftDeleteWithVotes(bob.ID); err != nil {
		t.Fatalf("failed to delete nominee: %v", err)
	}

	categories, err := svc.ListActive()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(categories) != 1 {
		t.Fatalf("expected 1 category, got %d", len(categories))
	}
	nominees := categories[0].Nominees
	if len(nominees) != 1 || nominees[0].ID != alice.ID {
		t.Fatalf("expected only the active nominee preloaded, got %+v", nominees)
	}
}
