package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tablekeep/tablekeep/internal/api/respond"
	"github.com/tablekeep/tablekeep/internal/auth"
	"github.com/tablekeep/tablekeep/internal/model"
	"github.com/tablekeep/tablekeep/internal/services"
)

type SessionHandler struct {
	svc *services.SessionService
}

func NewSessionHandler(svc *services.SessionService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// CreateSession POST /api/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CampaignID   string     `json:"campaignId"`
		Title        string     `json:"title"`
		Notes        string     `json:"notes"`
		EncounterIDs []string   `json:"encounterIds"`
		Completed    bool       `json:"completed"`
		SessionDate  *time.Time `json:"sessionDate"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	out, err := h.svc.CreateSession(r.Context(), auth.UserID(r.Context()), &model.Session{
		CampaignID:   req.CampaignID,
		Title:        req.Title,
		Notes:        req.Notes,
		EncounterIDs: req.EncounterIDs,
		Completed:    req.Completed,
		SessionDate:  req.SessionDate,
	})
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListSessions GET /api/sessions
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	ss, err := h.svc.ListSessions(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"sessions": ss, "count": len(ss)})
}

// UpdateSession PATCH /api/sessions/{sessionId}
func (h *SessionHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	var patch model.SessionPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	s, err := h.svc.UpdateSession(r.Context(), auth.UserID(r.Context()), mux.Vars(r)["sessionId"], patch)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, s)
}
