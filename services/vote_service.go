package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/eventcrew/awardsysbackend/models"
	"github.com/eventcrew/awardsysbackend/realtime"
	"github.com/eventcrew/awardsysbackend/repository"
)

// VoteService accepts ballot mutations from anonymous voters. A session may
// change its mind up until the deadline: casting again in the same category
// overwrites the existing choice instead of inserting a second row. The
// unique index on (session_id, category_id) is the source of truth for that
// invariant, not application logic.
type VoteService struct {
	Votes      repository.VoteRepositoryInterface
	Categories repository.CategoryRepositoryInterface
	Nominees   repository.NomineeRepositoryInterface
	Settings   repository.SettingRepositoryInterface
	Audit      *AuditRecorder
	Hub        *realtime.Hub
	Now        func() time.Time
}

// NewVoteService creates a new VoteService
func NewVoteService(votes repository.VoteRepositoryInterface, categories repository.CategoryRepositoryInterface, nominees repository.NomineeRepositoryInterface, settings repository.SettingRepositoryInterface, audit *AuditRecorder, hub *realtime.Hub) *VoteService {
	return &VoteService{
		Votes:      votes,
		Categories: categories,
		Nominees:   nominees,
		Settings:   settings,
		Audit:      audit,
		Hub:        hub,
		Now:        time.Now,
	}
}

// CastVote validates the settings gate and the target ids, then upserts the
// session's vote for the category. On commit it broadcasts vote-cast with
// the ids only; tallies are always recomputed on demand.
func (s *VoteService) CastVote(sessionID, categoryID string, nomineeID uint, ip, userAgent string) (*models.Vote, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	if categoryID == "" {
		return nil, fmt.Errorf("%w: category id is required", ErrInvalidInput)
	}
	if nomineeID == 0 {
		return nil, fmt.Errorf("%w: nominee id is required", ErrInvalidInput)
	}

	if err := s.checkVotingOpen(); err != nil {
		return nil, err
	}

	if _, err := s.Categories.GetByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %q", ErrNotFound, categoryID)
		}
		return nil, err
	}
	nominee, err := s.Nominees.GetByID(nomineeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: nominee %d", ErrNotFound, nomineeID)
		}
		return nil, err
	}
	if nominee.CategoryID != categoryID {
		return nil, fmt.Errorf("%w: nominee %d does not belong to category %q", ErrNotFound, nomineeID, categoryID)
	}

	// previous choice, if any, for the audit before-snapshot
	var previous *models.Vote
	if prev, err := s.Votes.GetBySessionAndCategory(sessionID, categoryID); err == nil {
		previous = prev
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	vote := &models.Vote{
		SessionID:  sessionID,
		CategoryID: categoryID,
		NomineeID:  nomineeID,
		VoterIP:    ip,
		UserAgent:  userAgent,
	}
	if err := s.Votes.Upsert(vote); err != nil {
		return nil, err
	}

	// re-read the row: on the conflict path the insert's generated id does
	// not identify the surviving row
	current, err := s.Votes.GetBySessionAndCategory(sessionID, categoryID)
	if err != nil {
		return nil, err
	}

	// hand the recorder an untyped nil on a first vote; a typed-nil pointer
	// would marshal to the JSON string "null" instead of an absent snapshot
	var auditBefore interface{}
	if previous != nil {
		auditBefore = previous
	}
	s.Audit.Record(nil, "vote.cast", "votes", strconv.FormatUint(uint64(current.ID), 10), auditBefore, current, ip)
	s.Hub.Publish(realtime.VoteCast{
		CategoryID: categoryID,
		NomineeID:  nomineeID,
		SessionID:  sessionID,
	})
	return current, nil
}

// checkVotingOpen enforces the two settings that gate vote acceptance:
// voting_enabled must be the literal "true" and voting_end_date, when set,
// must not have passed.
func (s *VoteService) checkVotingOpen() error {
	enabled, err := s.Settings.Get(models.SettingVotingEnabled)
	if err != nil {
		// an absent flag means closed; a store failure is not a gate decision
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: voting is disabled", ErrVotingClosed)
		}
		return err
	}
	if enabled.Value != "true" {
		return fmt.Errorf("%w: voting is disabled", ErrVotingClosed)
	}

	endDate, err := s.Settings.Get(models.SettingVotingEndDate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// no deadline configured
			return nil
		}
		return err
	}
	if endDate.Value == "" {
		// no deadline configured
		return nil
	}
	end, perr := time.Parse(time.RFC3339, endDate.Value)
	if perr != nil {
		log.Printf("vote: ignoring unparseable %s %q: %v", models.SettingVotingEndDate, endDate.Value, perr)
		return nil
	}
	if s.Now().After(end) {
		return fmt.Errorf("%w: voting ended at %s", ErrVotingClosed, endDate.Value)
	}
	return nil
}

// SessionBallot returns every vote the given session currently holds.
func (s *VoteService) SessionBallot(sessionID string) ([]models.Vote, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	return s.Votes.ListBySession(sessionID)
}

// Tallies recomputes per-nominee counts from the vote rows, joined through
// active nominees and categories only.
func (s *VoteService) Tallies() ([]repository.TallyRow, error) {
	return s.Votes.Tally()
}
