package handlers

import (
	"net/http"
	"strconv"

	"github.com/eventcrew/awardsysbackend/repository"
)

// AuditHandler exposes the append-only audit trail to administrators.
type AuditHandler struct {
	Repo repository.AuditRepositoryInterface
}

func NewAuditHandler(repo repository.AuditRepositoryInterface) *AuditHandler {
	return &AuditHandler{Repo: repo}
}

// ListAuditEntries returns entries newest first. Supports ?action=, ?limit=
// and ?offset= query parameters.
func (h *AuditHandler) ListAuditEntries(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	action := r.URL.Query().Get("action")

	entries, err := h.Repo.List(action, limit, offset)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, entries)
}
