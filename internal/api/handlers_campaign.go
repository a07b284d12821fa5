package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tablekeep/tablekeep/internal/api/respond"
	"github.com/tablekeep/tablekeep/internal/auth"
	"github.com/tablekeep/tablekeep/internal/model"
	"github.com/tablekeep/tablekeep/internal/services"
)

// decodeBody decodes the JSON request body into v and answers 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return false
	}
	return true
}

// CampaignHandler is a thin HTTP transport over CampaignService.
type CampaignHandler struct {
	svc *services.CampaignService
}

func NewCampaignHandler(svc *services.CampaignService) *CampaignHandler {
	return &CampaignHandler{svc: svc}
}

// CreateCampaign POST /api/campaigns
func (h *CampaignHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string               `json:"title"`
		Description string               `json:"description"`
		LastSession string               `json:"lastSession"`
		Status      model.CampaignStatus `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	out, err := h.svc.CreateCampaign(r.Context(), auth.UserID(r.Context()), &model.Campaign{
		Title:       req.Title,
		Description: req.Description,
		LastSession: req.LastSession,
		Status:      req.Status,
	})
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListCampaigns GET /api/campaigns
func (h *CampaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	cs, err := h.svc.ListCampaigns(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"campaigns": cs, "count": len(cs)})
}

// GetCampaign GET /api/campaigns/{campaignId}
func (h *CampaignHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCampaign(r.Context(), auth.UserID(r.Context()), mux.Vars(r)["campaignId"])
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, c)
}

// UpdateCampaign PATCH /api/campaigns/{campaignId}
func (h *CampaignHandler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	var patch model.CampaignPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	c, err := h.svc.UpdateCampaign(r.Context(), auth.UserID(r.Context()), mux.Vars(r)["campaignId"], patch)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, c)
}
