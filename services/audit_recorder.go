package services

import (
	"encoding/json"
	"log"

	"github.com/eventcrew/awardsysbackend/models"
	"github.com/eventcrew/awardsysbackend/realtime"
	"github.com/eventcrew/awardsysbackend/repository"
)

// AuditRecorder appends an immutable record of every mutation. Recording is
// best-effort and runs only after the mutation's own transaction has
// committed: a failed audit write is logged and swallowed, never surfaced to
// the caller and never used to roll back the already-committed mutation.
type AuditRecorder struct {
	Repo repository.AuditRepositoryInterface
	Hub  *realtime.Hub
}

// NewAuditRecorder creates a new AuditRecorder
func NewAuditRecorder(repo repository.AuditRepositoryInterface, hub *realtime.Hub) *AuditRecorder {
	return &AuditRecorder{Repo: repo, Hub: hub}
}

// Record appends one audit entry with JSON before/after snapshots. actorID
// is nil for anonymous voters.
func (a *AuditRecorder) Record(actorID *uint, action, targetTable, targetID string, before, after interface{}, ip string) {
	entry := &models.AuditEntry{
		ActorID:     actorID,
		Action:      action,
		TargetTable: targetTable,
		TargetID:    targetID,
		Before:      snapshot(action, before),
		After:       snapshot(action, after),
		IP:          ip,
	}

	if err := a.Repo.Create(entry); err != nil {
		log.Printf("audit: failed to record %s on %s %s: %v", action, targetTable, targetID, err)
		return
	}

	a.Hub.PublishAdmin(realtime.AuditEntryCreated{
		ID:          entry.ID,
		Action:      entry.Action,
		TargetTable: entry.TargetTable,
		TargetID:    entry.TargetID,
		ActorID:     entry.ActorID,
	})
}

func snapshot(action string, v interface{}) *string {
	if v == nil {
		return nil
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		log.Printf("audit: failed to marshal snapshot for %s: %v", action, err)
		return nil
	}
	s := string(encoded)
	return &s
}
