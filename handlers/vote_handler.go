package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eventcrew/awardsysbackend/services"
)

// VoteHandler exposes vote casting, per-session ballots and the on-demand
// results tally.
type VoteHandler struct {
	Votes      *services.VoteService
	Categories *services.CategoryService
}

func NewVoteHandler(votes *services.VoteService, categories *services.CategoryService) *VoteHandler {
	return &VoteHandler{Votes: votes, Categories: categories}
}

type CastVotePayload struct {
	SessionID  string `json:"session_id"`
	CategoryID string `json:"category_id"`
	NomineeID  uint   `json:"nominee_id"`
}

// CastVote records or overwrites the session's choice in one category.
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var payload CastVotePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload: "+err.Error())
		return
	}

	vote, err := h.Votes.CastVote(payload.SessionID, payload.CategoryID, payload.NomineeID, requestIP(r), r.UserAgent())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, vote)
}

// GetSessionBallot returns every vote the session currently holds, so a
// reconnecting client can restore its own selections.
func (h *VoteHandler) GetSessionBallot(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")

	votes, err := h.Votes.SessionBallot(sessionID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, votes)
}

// ResultNominee is one nominee's standing within a category result.
type ResultNominee struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	PhotoPath *string `json:"photo_path,omitempty"`
	Votes     int64   `json:"votes"`
}

// ResultCategory aggregates a category's nominees with their current counts.
type ResultCategory struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Nominees []ResultNominee `json:"nominees"`
	Total    int64           `json:"total"`
}

// GetResults recomputes the tally from the vote rows and shapes it per
// category. Counts join through active nominees and categories only, so
// soft-deleted entities never appear even though their votes remain stored.
func (h *VoteHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Categories.ListActive()
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	rows, err := h.Votes.Tallies()
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	counts := make(map[string]map[uint]int64, len(categories))
	for _, row := range rows {
		if counts[row.CategoryID] == nil {
			counts[row.CategoryID] = make(map[uint]int64)
		}
		counts[row.CategoryID][row.NomineeID] = row.Count
	}

	results := make([]ResultCategory, 0, len(categories))
	for _, category := range categories {
		rc := ResultCategory{
			ID:       category.ID,
			Title:    category.Title,
			Nominees: make([]ResultNominee, 0, len(category.Nominees)),
		}
		for _, nominee := range category.Nominees {
			votes := counts[category.ID][nominee.ID]
			rc.Nominees = append(rc.Nominees, ResultNominee{
				ID:        nominee.ID,
				Name:      nominee.Name,
				PhotoPath: nominee.PhotoPath,
				Votes:     votes,
			})
			rc.Total += votes
		}
		results = append(results, rc)
	}
	WriteJSON(w, http.StatusOK, results)
}
