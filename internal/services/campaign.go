package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tablekeep/tablekeep/internal/api/validate"
	"github.com/tablekeep/tablekeep/internal/model"
	"github.com/tablekeep/tablekeep/internal/store"
)

// Clock returns the current time. Tests replace it.
type Clock func() time.Time

type CampaignService struct {
	store store.Store
	log   zerolog.Logger
	now   Clock
}

func NewCampaignService(s store.Store, log zerolog.Logger) *CampaignService {
	return &CampaignService{store: s, log: log, now: time.Now}
}

// CreateCampaign stores c for userID. Status defaults to active and the
// last-session label to today's date.
func (s *CampaignService) CreateCampaign(ctx context.Context, userID string, c *model.Campaign) (*model.Campaign, error) {
	in := *c
	in.ID = ""
	in.UserID = userID
	if in.Status == "" {
		in.Status = model.CampaignActive
	}
	if in.LastSession == "" {
		in.LastSession = s.now().Format(model.DateLabelLayout)
	}
	if err := validate.CreateCampaign(&in); err != nil {
		return nil, err
	}
	out, err := s.store.Campaigns().Create(ctx, &in)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("user_id", userID).Str("campaign_id", out.ID).Msg("campaign created")
	return out, nil
}

func (s *CampaignService) GetCampaign(ctx context.Context, userID, campaignID string) (*model.Campaign, error) {
	return s.store.Campaigns().Get(ctx, userID, campaignID)
}

func (s *CampaignService) ListCampaigns(ctx context.Context, userID string) ([]*model.Campaign, error) {
	return s.store.Campaigns().List(ctx, userID)
}

func (s *CampaignService) UpdateCampaign(ctx context.Context, userID, campaignID string, p model.CampaignPatch) (*model.Campaign, error) {
	if err := validate.UpdateCampaign(p); err != nil {
		return nil, err
	}
	return s.store.Campaigns().Update(ctx, userID, campaignID, p)
}

// requireCampaign reports ErrNotFound when campaignID is not owned by userID.
func requireCampaign(ctx context.Context, st store.Store, userID, campaignID string) error {
	if _, err := st.Campaigns().Get(ctx, userID, campaignID); err != nil {
		return fmt.Errorf("campaign %s: %w", campaignID, err)
	}
	return nil
}
