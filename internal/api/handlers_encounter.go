package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tablekeep/tablekeep/internal/api/respond"
	"github.com/tablekeep/tablekeep/internal/auth"
	"github.com/tablekeep/tablekeep/internal/model"
	"github.com/tablekeep/tablekeep/internal/services"
)

type EncounterHandler struct {
	svc *services.EncounterService
}

func NewEncounterHandler(svc *services.EncounterService) *EncounterHandler {
	return &EncounterHandler{svc: svc}
}

// CreateEncounter POST /api/encounters
func (h *EncounterHandler) CreateEncounter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CampaignID  string           `json:"campaignId"`
		Title       string           `json:"title"`
		Description string           `json:"description"`
		Difficulty  model.Difficulty `json:"difficulty"`
		Enemies     []model.Enemy    `json:"enemies"`
		Date        string           `json:"date"`
		Completed   bool             `json:"completed"`
		Notes       string           `json:"notes"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	out, err := h.svc.CreateEncounter(r.Context(), auth.UserID(r.Context()), &model.Encounter{
		CampaignID:  req.CampaignID,
		Title:       req.Title,
		Description: req.Description,
		Difficulty:  req.Difficulty,
		Enemies:     req.Enemies,
		Date:        req.Date,
		Completed:   req.Completed,
		Notes:       req.Notes,
	})
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListEncounters GET /api/encounters
func (h *EncounterHandler) ListEncounters(w http.ResponseWriter, r *http.Request) {
	es, err := h.svc.ListEncounters(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"encounters": es, "count": len(es)})
}

// UpdateEncounter PATCH /api/encounters/{encounterId}
func (h *EncounterHandler) UpdateEncounter(w http.ResponseWriter, r *http.Request) {
	var patch model.EncounterPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	e, err := h.svc.UpdateEncounter(r.Context(), auth.UserID(r.Context()), mux.Vars(r)["encounterId"], patch)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, e)
}
