package realtime

// Event is the closed set of change notifications pushed to connected
// clients. Every successful mutation produces exactly one event; payloads
// carry the affected entity's id and the changed fields only, never a full
// re-fetch. Wire names are part of the client contract and must not change.
type Event interface {
	// EventName returns the wire name of the event, e.g. "category-created".
	EventName() string
}

// CategoryCreated is broadcast after a new category is committed.
type CategoryCreated struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	IsAward      bool   `json:"is_award"`
	DisplayOrder int    `json:"display_order"`
}

func (CategoryCreated) EventName() string { return "category-created" }

// CategoryUpdated carries only the fields the mutation actually changed.
type CategoryUpdated struct {
	ID           string  `json:"id"`
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	Icon         *string `json:"icon,omitempty"`
	IsAward      *bool   `json:"is_award,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
}

func (CategoryUpdated) EventName() string { return "category-updated" }

// CategoryDeleted is broadcast after a category (and, by cascade, its
// nominees) has been soft-deleted.
type CategoryDeleted struct {
	ID string `json:"id"`
}

func (CategoryDeleted) EventName() string { return "category-deleted" }

// NomineeAdded is broadcast after a new nominee is committed.
type NomineeAdded struct {
	ID           uint   `json:"id"`
	CategoryID   string `json:"category_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
}

func (NomineeAdded) EventName() string { return "nominee-added" }

// NomineeUpdated carries only the fields the mutation actually changed.
type NomineeUpdated struct {
	ID           uint    `json:"id"`
	CategoryID   string  `json:"category_id"`
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
}

func (NomineeUpdated) EventName() string { return "nominee-updated" }

// NomineeDeleted is broadcast after a nominee has been soft-deleted and its
// votes removed.
type NomineeDeleted struct {
	ID         uint   `json:"id"`
	CategoryID string `json:"category_id"`
}

func (NomineeDeleted) EventName() string { return "nominee-deleted" }

// NomineePhotoUpdated is broadcast after a nominee's stored photo reference
// has been swapped.
type NomineePhotoUpdated struct {
	ID        uint   `json:"id"`
	PhotoPath string `json:"photo_path"`
}

func (NomineePhotoUpdated) EventName() string { return "nominee-photo-updated" }

// NomineePhotoDeleted is broadcast after a nominee's photo reference has
// been cleared.
type NomineePhotoDeleted struct {
	ID uint `json:"id"`
}

func (NomineePhotoDeleted) EventName() string { return "nominee-photo-deleted" }

// VoteCast carries only the ids involved; tallies are recomputed on demand
// by clients that care, never pushed as deltas, to avoid drift.
type VoteCast struct {
	CategoryID string `json:"category_id"`
	NomineeID  uint   `json:"nominee_id"`
	SessionID  string `json:"session_id"`
}

func (VoteCast) EventName() string { return "vote-cast" }

// SettingUpdated is an admin-scope event emitted when a system setting
// changes.
type SettingUpdated struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (SettingUpdated) EventName() string { return "setting-updated" }

// AuditEntryCreated is an admin-scope event emitted after an audit entry has
// been appended.
type AuditEntryCreated struct {
	ID          uint   `json:"id"`
	Action      string `json:"action"`
	TargetTable string `json:"target_table"`
	TargetID    string `json:"target_id"`
	ActorID     *uint  `json:"actor_id,omitempty"`
}

func (AuditEntryCreated) EventName() string { return "audit-entry-created" }
