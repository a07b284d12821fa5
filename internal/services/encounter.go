package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tablekeep/tablekeep/internal/api/validate"
	"github.com/tablekeep/tablekeep/internal/model"
	"github.com/tablekeep/tablekeep/internal/store"
)

type EncounterService struct {
	store store.Store
	log   zerolog.Logger
	now   Clock
}

func NewEncounterService(s store.Store, log zerolog.Logger) *EncounterService {
	return &EncounterService{store: s, log: log, now: time.Now}
}

// CreateEncounter defaults difficulty to medium and the date label to today.
func (s *EncounterService) CreateEncounter(ctx context.Context, userID string, e *model.Encounter) (*model.Encounter, error) {
	in := *e
	in.ID = ""
	in.UserID = userID
	if in.Difficulty == "" {
		in.Difficulty = model.DifficultyMedium
	}
	if in.Date == "" {
		in.Date = s.now().Format(model.DateLabelLayout)
	}
	if in.Enemies == nil {
		in.Enemies = []model.Enemy{}
	}
	if err := validate.CreateEncounter(&in); err != nil {
		return nil, err
	}
	if err := requireCampaign(ctx, s.store, userID, in.CampaignID); err != nil {
		return nil, err
	}
	return s.store.Encounters().Create(ctx, &in)
}

func (s *EncounterService) ListEncounters(ctx context.Context, userID string) ([]*model.Encounter, error) {
	return s.store.Encounters().List(ctx, userID)
}

func (s *EncounterService) UpdateEncounter(ctx context.Context, userID, encounterID string, p model.EncounterPatch) (*model.Encounter, error) {
	if err := validate.UpdateEncounter(p); err != nil {
		return nil, err
	}
	return s.store.Encounters().Update(ctx, userID, encounterID, p)
}
