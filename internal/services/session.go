package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tablekeep/tablekeep/internal/api/validate"
	"github.com/tablekeep/tablekeep/internal/model"
	"github.com/tablekeep/tablekeep/internal/store"
)

// SessionService persists sessions. Completing a session does not touch
// encounters here; the workspace drives that cascade through the encounter
// endpoints.
type SessionService struct {
	store store.Store
	log   zerolog.Logger
}

func NewSessionService(s store.Store, log zerolog.Logger) *SessionService {
	return &SessionService{store: s, log: log}
}

func (s *SessionService) CreateSession(ctx context.Context, userID string, in *model.Session) (*model.Session, error) {
	ss := *in
	ss.ID = ""
	ss.UserID = userID
	ss.EncounterIDs = model.UniqueIDs(ss.EncounterIDs)
	if err := validate.CreateSession(&ss); err != nil {
		return nil, err
	}
	if err := requireCampaign(ctx, s.store, userID, ss.CampaignID); err != nil {
		return nil, err
	}
	return s.store.Sessions().Create(ctx, &ss)
}

func (s *SessionService) ListSessions(ctx context.Context, userID string) ([]*model.Session, error) {
	return s.store.Sessions().List(ctx, userID)
}

func (s *SessionService) UpdateSession(ctx context.Context, userID, sessionID string, p model.SessionPatch) (*model.Session, error) {
	if err := validate.UpdateSession(p); err != nil {
		return nil, err
	}
	if p.EncounterIDs != nil {
		ids := model.UniqueIDs(*p.EncounterIDs)
		p.EncounterIDs = &ids
	}
	return s.store.Sessions().Update(ctx, userID, sessionID, p)
}
