package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tablekeep/tablekeep/internal/api/validate"
	"github.com/tablekeep/tablekeep/internal/model"
	"github.com/tablekeep/tablekeep/internal/store"
)

type PlayerService struct {
	store store.Store
	log   zerolog.Logger
}

func NewPlayerService(s store.Store, log zerolog.Logger) *PlayerService {
	return &PlayerService{store: s, log: log}
}

// CreatePlayer rejects levels outside [1,20]; clamping is the caller's job.
func (s *PlayerService) CreatePlayer(ctx context.Context, userID string, p *model.Player) (*model.Player, error) {
	in := *p
	in.ID = ""
	in.UserID = userID
	if in.Level == 0 {
		in.Level = model.MinLevel
	}
	if err := validate.CreatePlayer(&in); err != nil {
		return nil, err
	}
	if err := requireCampaign(ctx, s.store, userID, in.CampaignID); err != nil {
		return nil, err
	}
	return s.store.Players().Create(ctx, &in)
}

func (s *PlayerService) ListPlayers(ctx context.Context, userID string) ([]*model.Player, error) {
	return s.store.Players().List(ctx, userID)
}

func (s *PlayerService) ListCampaignPlayers(ctx context.Context, userID, campaignID string) ([]*model.Player, error) {
	return s.store.Players().ListByCampaign(ctx, userID, campaignID)
}

func (s *PlayerService) UpdatePlayer(ctx context.Context, userID, playerID string, p model.PlayerPatch) (*model.Player, error) {
	if err := validate.UpdatePlayer(p); err != nil {
		return nil, err
	}
	return s.store.Players().Update(ctx, userID, playerID, p)
}
