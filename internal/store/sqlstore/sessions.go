package sqlstore

import (
	"context"
	"database/sql"

	"github.com/tablekeep/tablekeep/internal/model"
)

const sessionColumns = `id, user_id, campaign_id, title, notes, encounter_ids, completed, session_date, created_at, updated_at`

type sessions struct{ s *Store }

func scanSession(r rowScanner) (*model.Session, error) {
	var s model.Session
	var ids []byte
	var date sql.NullTime
	if err := r.Scan(&s.ID, &s.UserID, &s.CampaignID, &s.Title, &s.Notes, &ids, &s.Completed, &date,
		&s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.EncounterIDs = []string{}
	if err := decodeJSON(ids, &s.EncounterIDs); err != nil {
		return nil, err
	}
	s.SessionDate = timePtr(date)
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return &s, nil
}

func (ss *sessions) Create(ctx context.Context, in *model.Session) (*model.Session, error) {
	out := *in
	if out.ID == "" {
		out.ID = newID()
	}
	if out.EncounterIDs == nil {
		out.EncounterIDs = []string{}
	}
	ids, err := encodeJSON(out.EncounterIDs)
	if err != nil {
		return nil, wrap(err, "encode encounter ids")
	}
	now := ss.s.now()
	out.CreatedAt, out.UpdatedAt = now, now
	_, err = ss.s.exec(ctx, `
        INSERT INTO sessions (`+sessionColumns+`)
        VALUES (?,?,?,?,?,?,?,?,?,?)
    `, out.ID, out.UserID, out.CampaignID, out.Title, out.Notes, ids, out.Completed, nullTime(out.SessionDate),
		out.CreatedAt, out.UpdatedAt)
	if err != nil {
		return nil, wrap(err, "insert session")
	}
	return &out, nil
}

func (ss *sessions) Get(ctx context.Context, userID, sessionID string) (*model.Session, error) {
	row := ss.s.queryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE user_id = ? AND id = ?`, userID, sessionID)
	out, err := scanSession(row)
	if err != nil {
		return nil, wrap(err, "get session")
	}
	return out, nil
}

func (ss *sessions) List(ctx context.Context, userID string) ([]*model.Session, error) {
	return ss.list(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

func (ss *sessions) ListByCampaign(ctx context.Context, userID, campaignID string) ([]*model.Session, error) {
	return ss.list(ctx, `
        SELECT `+sessionColumns+` FROM sessions
        WHERE user_id = ? AND campaign_id = ? ORDER BY created_at DESC, id DESC
    `, userID, campaignID)
}

func (ss *sessions) list(ctx context.Context, q string, args ...any) ([]*model.Session, error) {
	rows, err := ss.s.query(ctx, q, args...)
	if err != nil {
		return nil, wrap(err, "list sessions")
	}
	defer func() { _ = rows.Close() }()
	res := []*model.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, wrap(err, "scan session")
		}
		res = append(res, s)
	}
	return res, wrap(rows.Err(), "list sessions")
}

func (ss *sessions) Update(ctx context.Context, userID, sessionID string, p model.SessionPatch) (*model.Session, error) {
	var a assignments
	if p.Title != nil {
		a.set("title", *p.Title)
	}
	if p.Notes != nil {
		a.set("notes", *p.Notes)
	}
	if p.EncounterIDs != nil {
		ids := *p.EncounterIDs
		if ids == nil {
			ids = []string{}
		}
		raw, err := encodeJSON(ids)
		if err != nil {
			return nil, wrap(err, "encode encounter ids")
		}
		a.set("encounter_ids", raw)
	}
	if p.Completed != nil {
		a.set("completed", *p.Completed)
	}
	if p.SessionDate != nil {
		a.set("session_date", nullTime(p.SessionDate))
	}
	if !a.empty() {
		if err := ss.s.update(ctx, "sessions", userID, sessionID, &a); err != nil {
			return nil, wrap(err, "update session")
		}
	}
	return ss.Get(ctx, userID, sessionID)
}
