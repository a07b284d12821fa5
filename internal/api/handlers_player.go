package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tablekeep/tablekeep/internal/api/respond"
	"github.com/tablekeep/tablekeep/internal/auth"
	"github.com/tablekeep/tablekeep/internal/model"
	"github.com/tablekeep/tablekeep/internal/services"
)

type PlayerHandler struct {
	svc *services.PlayerService
}

func NewPlayerHandler(svc *services.PlayerService) *PlayerHandler { return &PlayerHandler{svc: svc} }

// CreatePlayer POST /api/players
func (h *PlayerHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CampaignID    string `json:"campaignId"`
		PlayerName    string `json:"playerName"`
		CharacterName string `json:"characterName"`
		Race          string `json:"race"`
		Class         string `json:"class"`
		Level         int    `json:"level"`
		HP            *int   `json:"hp"`
		AC            *int   `json:"ac"`
		Notes         string `json:"notes"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	out, err := h.svc.CreatePlayer(r.Context(), auth.UserID(r.Context()), &model.Player{
		CampaignID:    req.CampaignID,
		PlayerName:    req.PlayerName,
		CharacterName: req.CharacterName,
		Race:          req.Race,
		Class:         req.Class,
		Level:         req.Level,
		HP:            req.HP,
		AC:            req.AC,
		Notes:         req.Notes,
	})
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListPlayers GET /api/players[?campaignId=]
func (h *PlayerHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	var (
		ps  []*model.Player
		err error
	)
	userID := auth.UserID(r.Context())
	if cid := r.URL.Query().Get("campaignId"); cid != "" {
		ps, err = h.svc.ListCampaignPlayers(r.Context(), userID, cid)
	} else {
		ps, err = h.svc.ListPlayers(r.Context(), userID)
	}
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"players": ps, "count": len(ps)})
}

// UpdatePlayer PATCH /api/players/{playerId}
func (h *PlayerHandler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	var patch model.PlayerPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	p, err := h.svc.UpdatePlayer(r.Context(), auth.UserID(r.Context()), mux.Vars(r)["playerId"], patch)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}
