package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tablekeep/tablekeep/internal/api/recovery"
	"github.com/tablekeep/tablekeep/internal/assistant"
	"github.com/tablekeep/tablekeep/internal/auth"
	"github.com/tablekeep/tablekeep/internal/services"
	"github.com/tablekeep/tablekeep/internal/voice"
)

// Deps are the services the router dispatches to.
type Deps struct {
	Auth       auth.Authenticator
	Campaigns  *services.CampaignService
	Players    *services.PlayerService
	Encounters *services.EncounterService
	Sessions   *services.SessionService
	Maps       *services.MapService
	Assistant  *assistant.Service
	Voice      *voice.Service

	// MaxUploadBytes caps multipart map uploads; 0 means 20 MiB.
	MaxUploadBytes int64
}

// NewRouter wires every route. Everything except /api/health requires a
// bearer credential.
func NewRouter(d Deps) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware)
	root.Use(CORS)
	root.Use(mux.CORSMethodMiddleware(root))

	health := NewHealthHandler()
	root.HandleFunc("/api/health", health.CheckHealth).Methods("GET")

	authed := auth.Middleware(d.Auth)

	apiR := root.PathPrefix("/api").Subrouter()
	apiR.Use(authed)

	campaigns := NewCampaignHandler(d.Campaigns)
	apiR.HandleFunc("/campaigns", campaigns.ListCampaigns).Methods("GET")
	apiR.HandleFunc("/campaigns", campaigns.CreateCampaign).Methods("POST")
	apiR.HandleFunc("/campaigns/{campaignId}", campaigns.GetCampaign).Methods("GET")
	apiR.HandleFunc("/campaigns/{campaignId}", campaigns.UpdateCampaign).Methods("PATCH")

	players := NewPlayerHandler(d.Players)
	apiR.HandleFunc("/players", players.ListPlayers).Methods("GET")
	apiR.HandleFunc("/players", players.CreatePlayer).Methods("POST")
	apiR.HandleFunc("/players/{playerId}", players.UpdatePlayer).Methods("PATCH")

	encounters := NewEncounterHandler(d.Encounters)
	apiR.HandleFunc("/encounters", encounters.ListEncounters).Methods("GET")
	apiR.HandleFunc("/encounters", encounters.CreateEncounter).Methods("POST")
	apiR.HandleFunc("/encounters/{encounterId}", encounters.UpdateEncounter).Methods("PATCH")

	sessions := NewSessionHandler(d.Sessions)
	apiR.HandleFunc("/sessions", sessions.ListSessions).Methods("GET")
	apiR.HandleFunc("/sessions", sessions.CreateSession).Methods("POST")
	apiR.HandleFunc("/sessions/{sessionId}", sessions.UpdateSession).Methods("PATCH")

	maps := NewMapHandler(d.Maps, d.MaxUploadBytes)
	apiR.HandleFunc("/maps", maps.ListMaps).Methods("GET")
	apiR.HandleFunc("/campaigns/{campaignId}/maps", maps.UploadMap).Methods("POST")
	apiR.HandleFunc("/maps/{mapId}/file", maps.DownloadMap).Methods("GET")
	apiR.HandleFunc("/maps/{mapId}", maps.DeleteMap).Methods("DELETE")

	chat := NewChatHandler(d.Assistant)
	apiR.HandleFunc("/campaigns/{campaignId}/chat", chat.History).Methods("GET")

	fn := root.PathPrefix("/functions/v1").Subrouter()
	fn.Use(authed)
	fn.HandleFunc("/dm-assistant-chat", chat.Chat).Methods("POST")
	fn.HandleFunc("/generate-npc-voice", NewVoiceHandler(d.Voice).Generate).Methods("POST")

	// Pre-flight for every path; CORS has already written the headers.
	root.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return root
}
