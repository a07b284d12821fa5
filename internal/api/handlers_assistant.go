package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/tablekeep/tablekeep/internal/api/respond"
	"github.com/tablekeep/tablekeep/internal/assistant"
	"github.com/tablekeep/tablekeep/internal/auth"
	"github.com/tablekeep/tablekeep/internal/llm"
	"github.com/tablekeep/tablekeep/internal/model"
	"github.com/tablekeep/tablekeep/internal/tts/elevenlabs"
	"github.com/tablekeep/tablekeep/internal/voice"
)

// userMessage strips the sentinel prefix so clients see only the detail.
func userMessage(err error, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}

// ChatHandler exposes the DM assistant.
type ChatHandler struct {
	svc *assistant.Service
}

func NewChatHandler(svc *assistant.Service) *ChatHandler { return &ChatHandler{svc: svc} }

// Chat POST /functions/v1/dm-assistant-chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message    string `json:"message"`
		CampaignID string `json:"campaignId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	reply, err := h.svc.Reply(r.Context(), auth.UserID(r.Context()), req.CampaignID, req.Message)
	switch {
	case err == nil:
		respond.WriteJSON(w, http.StatusOK, map[string]string{"response": reply})
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, userMessage(err, model.ErrValidation))
	case errors.Is(err, model.ErrForbidden):
		respond.WriteForbidden(w, "campaign not found or access denied")
	case errors.Is(err, llm.ErrNotConfigured):
		log.Error().Err(err).Msg("assistant vendor key missing")
		respond.WriteInternalError(w, "AI service not configured")
	case errors.Is(err, assistant.ErrVendor):
		log.Error().Err(err).Msg("assistant vendor call failed")
		respond.WriteInternalError(w, "AI service error")
	default:
		respond.WriteDomainError(w, err)
	}
}

// History GET /api/campaigns/{campaignId}/chat[?limit=]
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respond.WriteBadRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	msgs, err := h.svc.History(r.Context(), auth.UserID(r.Context()), mux.Vars(r)["campaignId"], limit)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"messages": msgs, "count": len(msgs)})
}

// VoiceHandler exposes NPC voice generation.
type VoiceHandler struct {
	svc *voice.Service
}

func NewVoiceHandler(svc *voice.Service) *VoiceHandler { return &VoiceHandler{svc: svc} }

// Generate POST /functions/v1/generate-npc-voice
// Vendor rate limits surface as 429; any other vendor failure is a 500.
func (h *VoiceHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text    string `json:"text"`
		VoiceID string `json:"voiceId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	audio, err := h.svc.Speak(r.Context(), req.Text, req.VoiceID)
	switch {
	case err == nil:
		respond.WriteJSON(w, http.StatusOK, map[string]string{"audio": audio})
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, userMessage(err, model.ErrValidation))
	case errors.Is(err, elevenlabs.ErrRateLimited):
		respond.WriteError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
	case errors.Is(err, elevenlabs.ErrNotConfigured):
		log.Error().Err(err).Msg("voice vendor key missing")
		respond.WriteInternalError(w, "voice service not configured")
	default:
		log.Error().Err(err).Msg("voice generation failed")
		respond.WriteInternalError(w, "voice generation failed")
	}
}
