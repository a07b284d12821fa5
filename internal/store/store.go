package store

import (
	"context"

	"github.com/tablekeep/tablekeep/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
// Every query is scoped to the owning user; rows owned by someone else
// are reported as model.ErrNotFound.
type Store interface {
	Campaigns() Campaigns
	Players() Players
	Encounters() Encounters
	Sessions() Sessions
	Maps() Maps
	ChatMessages() ChatMessages
}

type Campaigns interface {
	Create(ctx context.Context, c *model.Campaign) (*model.Campaign, error)
	Get(ctx context.Context, userID, campaignID string) (*model.Campaign, error)
	List(ctx context.Context, userID string) ([]*model.Campaign, error)
	Update(ctx context.Context, userID, campaignID string, p model.CampaignPatch) (*model.Campaign, error)
}

type Players interface {
	Create(ctx context.Context, p *model.Player) (*model.Player, error)
	Get(ctx context.Context, userID, playerID string) (*model.Player, error)
	List(ctx context.Context, userID string) ([]*model.Player, error)
	ListByCampaign(ctx context.Context, userID, campaignID string) ([]*model.Player, error)
	Update(ctx context.Context, userID, playerID string, p model.PlayerPatch) (*model.Player, error)
}

type Encounters interface {
	Create(ctx context.Context, e *model.Encounter) (*model.Encounter, error)
	Get(ctx context.Context, userID, encounterID string) (*model.Encounter, error)
	List(ctx context.Context, userID string) ([]*model.Encounter, error)
	// ListByCampaign returns encounters newest first, capped at limit when limit > 0.
	ListByCampaign(ctx context.Context, userID, campaignID string, limit int) ([]*model.Encounter, error)
	Update(ctx context.Context, userID, encounterID string, p model.EncounterPatch) (*model.Encounter, error)
}

type Sessions interface {
	Create(ctx context.Context, s *model.Session) (*model.Session, error)
	Get(ctx context.Context, userID, sessionID string) (*model.Session, error)
	List(ctx context.Context, userID string) ([]*model.Session, error)
	ListByCampaign(ctx context.Context, userID, campaignID string) ([]*model.Session, error)
	Update(ctx context.Context, userID, sessionID string, p model.SessionPatch) (*model.Session, error)
}

type Maps interface {
	Create(ctx context.Context, m *model.CampaignMap) (*model.CampaignMap, error)
	Get(ctx context.Context, userID, mapID string) (*model.CampaignMap, error)
	List(ctx context.Context, userID string) ([]*model.CampaignMap, error)
	Delete(ctx context.Context, userID, mapID string) error
}

type ChatMessages interface {
	Create(ctx context.Context, m *model.ChatMessage) (*model.ChatMessage, error)
	// ListRecent returns up to limit of the newest messages in ascending time order.
	ListRecent(ctx context.Context, userID, campaignID string, limit int) ([]*model.ChatMessage, error)
}
