package services

import (
	"errors"
	"testing"

	"github.com/eventcrew/awardsysbackend/models"
)

func newNomineeService(e *testEnv, cleaner *discardCleaner) *NomineeService {
	return NewNomineeService(e.nominees, e.categories, e.audit, e.hub, cleaner)
}

func TestAddNominee(t *testing.T) {
	env := newTestEnv(t)
	svc := newNomineeService(env, &discardCleaner{})
	env.seedCategory(t, "best-speaker", "Best Speaker")

	nominee, err := svc.AddNominee(nil, "", "best-speaker", NomineeInput{Name: "Alice"})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if nominee.ID == 0 {
		t.Errorf("expected generated id")
	}
	if !nominee.Active {
		t.Errorf("new nominee should be active")
	}

	if _, err := svc.AddNominee(nil, "", "best-speaker", NomineeInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("missing name: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.AddNominee(nil, "", "no-such", NomineeInput{Name: "Bob"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown category: expected ErrNotFound, got %v", err)
	}
}

func TestUpdateNominee(t *testing.T) {
	env := newTestEnv(t)
	svc := newNomineeService(env, &discardCleaner{})
	env.seedCategory(t, "best-speaker", "Best Speaker")
	alice := env.seedNominee(t, "best-speaker", "Alice")

	name := "Alice B."
	updated, err := svc.UpdateNominee(nil, "", alice.ID, NomineeUpdate{Name: &name})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != name {
		t.Errorf("name not applied: %q", updated.Name)
	}

	empty := ""
	if _, err := svc.UpdateNominee(nil, "", alice.ID, NomineeUpdate{Name: &empty}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty name: expected ErrInvalidInput, got %v", err)
	}
}

func TestDeleteNomineeRemovesVotesAndSchedulesPhoto(t *testing.T) {
	env := newTestEnv(t)
	env.seedSetting(t, models.SettingVotingEnabled, "true")
	cleaner := &discardCleaner{}
	svc := newNomineeService(env, cleaner)
	voteSvc := newVoteService(env)

	env.seedCategory(t, "best-speaker", "Best Speaker")
	alice := env.seedNominee(t, "best-speaker", "Alice")

	photo := "abc123.jpg"
	if _, err := svc.SetNomineePhoto(nil, "", alice.ID, photo); err != nil {
		t.Fatalf("set photo failed: %v", err)
	}
	if _, err := voteSvc.CastVote("abc", "best-speaker", alice.ID, "", ""); err != nil {
		t.Fatalf("cast failed: %v", err)
	}

	if err := svc.DeleteNominee(nil, "", alice.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if got := env.voteCount(t); got != 0 {
		t.Fatalf("expected votes removed with nominee, found %d", got)
	}
	if len(cleaner.enqueued) != 1 || cleaner.enqueued[0] != photo {
		t.Fatalf("expected stored photo scheduled for removal, got %v", cleaner.enqueued)
	}

	if err := svc.DeleteNominee(nil, "", alice.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestSetNomineePhotoSchedulesSupersededFile(t *testing.T) {
	env := newTestEnv(t)
	cleaner := &discardCleaner{}
	svc := newNomineeService(env, cleaner)
	env.seedCategory(t, "best-speaker", "Best Speaker")
	alice := env.seedNominee(t, "best-speaker", "Alice")

	if _, err := svc.SetNomineePhoto(nil, "", alice.ID, "first.jpg"); err != nil {
		t.Fatalf("set photo failed: %v", err)
	}
	if len(cleaner.enqueued) != 0 {
		t.Fatalf("first photo has nothing to supersede, got %v", cleaner.enqueued)
	}

	after, err := svc.SetNomineePhoto(nil, "", alice.ID, "second.jpg")
	if err != nil {
		t.Fatalf("swap failed: %v", err)
	}
	if after.PhotoPath == nil || *after.PhotoPath != "second.jpg" {
		t.Fatalf("expected photo path swapped, got %v", after.PhotoPath)
	}
	if len(cleaner.enqueued) != 1 || cleaner.enqueued[0] != "first.jpg" {
		t.Fatalf("expected superseded file scheduled, got %v", cleaner.enqueued)
	}

	cleared, err := svc.ClearNomineePhoto(nil, "", alice.ID)
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if cleared.PhotoPath != nil {
		t.Fatalf("expected photo path cleared, got %v", *cleared.PhotoPath)
	}
	if len(cleaner.enqueued) != 2 || cleaner.enqueued[1] != "second.jpg" {
		t.Fatalf("expected cleared file scheduled, got %v", cleaner.enqueued)
	}
}
