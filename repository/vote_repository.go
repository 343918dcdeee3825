package repository

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eventcrew/awardsysbackend/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// VoteRepository handles database operations for Vote entities
type VoteRepository struct {
	DB *gorm.DB
}

// NewVoteRepository creates a new instance of VoteRepository
func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{DB: db}
}

// Upsert inserts the vote or, when a row for (session_id, category_id)
// already exists, overwrites its nominee choice and voter metadata in place.
// The unique index serializes concurrent casts for the same pair: the loser
// of an insert race lands on the conflict branch and updates the winner's
// row instead of duplicating it.
func (r *VoteRepository) Upsert(vote *models.Vote) error {
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "category_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"nominee_id", "voter_ip", "user_agent", "updated_at"}),
	}).Create(vote).Error
	if err != nil {
		return fmt.Errorf("failed to upsert vote for session %s in category %s: %w", vote.SessionID, vote.CategoryID, err)
	}
	return nil
}

// GetBySessionAndCategory retrieves the single vote a session holds in a
// category, if any
func (r *VoteRepository) GetBySessionAndCategory(sessionID, categoryID string) (*models.Vote, error) {
	var vote models.Vote
	err := r.DB.Where("session_id = ? AND category_id = ?", sessionID, categoryID).First(&vote).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get vote for session %s in category %s: %w", sessionID, categoryID, err)
	}
	return &vote, nil
}

// ListBySession retrieves a session's full ballot
func (r *VoteRepository) ListBySession(sessionID string) ([]models.Vote, error) {
	var votes []models.Vote
	err := r.DB.Where("session_id = ?", sessionID).Order("category_id ASC").Find(&votes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list votes for session %s: %w", sessionID, err)
	}
	return votes, nil
}

// CountAll returns the total number of stored vote rows, including rows that
// reference soft-deleted categories or nominees
func (r *VoteRepository) CountAll() (int64, error) {
	var count int64
	if err := r.DB.Model(&models.Vote{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}

// Tally computes per-nominee vote counts on demand, joining through active
// nominees and active categories so votes for soft-deleted rows never count.
// Counts are recomputed from the vote rows every time rather than maintained
// as deltas, so they cannot drift.
func (r *VoteRepository) Tally() ([]TallyRow, error) {
	queryBuilder := psql.Select("v.category_id", "v.nominee_id", "COUNT(*) AS count").
		From("votes v").
		Join("nominees n ON n.id = v.nominee_id AND n.active = ?", true).
		Join("categories c ON c.id = v.category_id AND c.active = ?", true).
		GroupBy("v.category_id", "v.nominee_id")

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build tally query: %w", err)
	}

	var rows []TallyRow
	if err := r.DB.Raw(sqlStr, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to run tally query: %w", err)
	}
	return rows, nil
}
