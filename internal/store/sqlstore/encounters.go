package sqlstore

import (
	"context"

	"github.com/tablekeep/tablekeep/internal/model"
)

const encounterColumns = `id, user_id, campaign_id, title, description, difficulty, enemies, encounter_date, completed, notes, created_at, updated_at`

type encounters struct{ s *Store }

func scanEncounter(r rowScanner) (*model.Encounter, error) {
	var e model.Encounter
	var difficulty string
	var enemies []byte
	if err := r.Scan(&e.ID, &e.UserID, &e.CampaignID, &e.Title, &e.Description, &difficulty, &enemies,
		&e.Date, &e.Completed, &e.Notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Difficulty = model.Difficulty(difficulty)
	e.Enemies = []model.Enemy{}
	if err := decodeJSON(enemies, &e.Enemies); err != nil {
		return nil, err
	}
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return &e, nil
}

func (es *encounters) Create(ctx context.Context, in *model.Encounter) (*model.Encounter, error) {
	out := *in
	if out.ID == "" {
		out.ID = newID()
	}
	if out.Enemies == nil {
		out.Enemies = []model.Enemy{}
	}
	enemies, err := encodeJSON(out.Enemies)
	if err != nil {
		return nil, wrap(err, "encode enemies")
	}
	now := es.s.now()
	out.CreatedAt, out.UpdatedAt = now, now
	_, err = es.s.exec(ctx, `
        INSERT INTO encounters (`+encounterColumns+`)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
    `, out.ID, out.UserID, out.CampaignID, out.Title, out.Description, string(out.Difficulty), enemies,
		out.Date, out.Completed, out.Notes, out.CreatedAt, out.UpdatedAt)
	if err != nil {
		return nil, wrap(err, "insert encounter")
	}
	return &out, nil
}

func (es *encounters) Get(ctx context.Context, userID, encounterID string) (*model.Encounter, error) {
	row := es.s.queryRow(ctx, `SELECT `+encounterColumns+` FROM encounters WHERE user_id = ? AND id = ?`, userID, encounterID)
	out, err := scanEncounter(row)
	if err != nil {
		return nil, wrap(err, "get encounter")
	}
	return out, nil
}

func (es *encounters) List(ctx context.Context, userID string) ([]*model.Encounter, error) {
	return es.list(ctx, `SELECT `+encounterColumns+` FROM encounters WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

func (es *encounters) ListByCampaign(ctx context.Context, userID, campaignID string, limit int) ([]*model.Encounter, error) {
	q := `SELECT ` + encounterColumns + ` FROM encounters
        WHERE user_id = ? AND campaign_id = ? ORDER BY created_at DESC, id DESC`
	args := []any{userID, campaignID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	return es.list(ctx, q, args...)
}

func (es *encounters) list(ctx context.Context, q string, args ...any) ([]*model.Encounter, error) {
	rows, err := es.s.query(ctx, q, args...)
	if err != nil {
		return nil, wrap(err, "list encounters")
	}
	defer func() { _ = rows.Close() }()
	res := []*model.Encounter{}
	for rows.Next() {
		e, err := scanEncounter(rows)
		if err != nil {
			return nil, wrap(err, "scan encounter")
		}
		res = append(res, e)
	}
	return res, wrap(rows.Err(), "list encounters")
}

func (es *encounters) Update(ctx context.Context, userID, encounterID string, p model.EncounterPatch) (*model.Encounter, error) {
	var a assignments
	if p.Title != nil {
		a.set("title", *p.Title)
	}
	if p.Description != nil {
		a.set("description", *p.Description)
	}
	if p.Difficulty != nil {
		a.set("difficulty", string(*p.Difficulty))
	}
	if p.Enemies != nil {
		enemies := *p.Enemies
		if enemies == nil {
			enemies = []model.Enemy{}
		}
		raw, err := encodeJSON(enemies)
		if err != nil {
			return nil, wrap(err, "encode enemies")
		}
		a.set("enemies", raw)
	}
	if p.Date != nil {
		a.set("encounter_date", *p.Date)
	}
	if p.Completed != nil {
		a.set("completed", *p.Completed)
	}
	if p.Notes != nil {
		a.set("notes", *p.Notes)
	}
	if !a.empty() {
		if err := es.s.update(ctx, "encounters", userID, encounterID, &a); err != nil {
			return nil, wrap(err, "update encounter")
		}
	}
	return es.Get(ctx, userID, encounterID)
}
