package sqlstore

import (
	"context"
	"database/sql"

	"github.com/tablekeep/tablekeep/internal/model"
)

const playerColumns = `id, user_id, campaign_id, player_name, character_name, race, class, level, hp, ac, notes, created_at, updated_at`

type players struct{ s *Store }

func scanPlayer(r rowScanner) (*model.Player, error) {
	var p model.Player
	var hp, ac sql.NullInt64
	if err := r.Scan(&p.ID, &p.UserID, &p.CampaignID, &p.PlayerName, &p.CharacterName, &p.Race, &p.Class,
		&p.Level, &hp, &ac, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.HP, p.AC = intPtr(hp), intPtr(ac)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

func (ps *players) Create(ctx context.Context, in *model.Player) (*model.Player, error) {
	out := *in
	if out.ID == "" {
		out.ID = newID()
	}
	now := ps.s.now()
	out.CreatedAt, out.UpdatedAt = now, now
	_, err := ps.s.exec(ctx, `
        INSERT INTO players (`+playerColumns+`)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
    `, out.ID, out.UserID, out.CampaignID, out.PlayerName, out.CharacterName, out.Race, out.Class,
		out.Level, nullInt(out.HP), nullInt(out.AC), out.Notes, out.CreatedAt, out.UpdatedAt)
	if err != nil {
		return nil, wrap(err, "insert player")
	}
	return &out, nil
}

func (ps *players) Get(ctx context.Context, userID, playerID string) (*model.Player, error) {
	row := ps.s.queryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE user_id = ? AND id = ?`, userID, playerID)
	out, err := scanPlayer(row)
	if err != nil {
		return nil, wrap(err, "get player")
	}
	return out, nil
}

func (ps *players) List(ctx context.Context, userID string) ([]*model.Player, error) {
	return ps.list(ctx, `SELECT `+playerColumns+` FROM players WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

func (ps *players) ListByCampaign(ctx context.Context, userID, campaignID string) ([]*model.Player, error) {
	return ps.list(ctx, `
        SELECT `+playerColumns+` FROM players
        WHERE user_id = ? AND campaign_id = ? ORDER BY created_at DESC, id DESC
    `, userID, campaignID)
}

func (ps *players) list(ctx context.Context, q string, args ...any) ([]*model.Player, error) {
	rows, err := ps.s.query(ctx, q, args...)
	if err != nil {
		return nil, wrap(err, "list players")
	}
	defer func() { _ = rows.Close() }()
	res := []*model.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, wrap(err, "scan player")
		}
		res = append(res, p)
	}
	return res, wrap(rows.Err(), "list players")
}

func (ps *players) Update(ctx context.Context, userID, playerID string, p model.PlayerPatch) (*model.Player, error) {
	var a assignments
	if p.PlayerName != nil {
		a.set("player_name", *p.PlayerName)
	}
	if p.CharacterName != nil {
		a.set("character_name", *p.CharacterName)
	}
	if p.Race != nil {
		a.set("race", *p.Race)
	}
	if p.Class != nil {
		a.set("class", *p.Class)
	}
	if p.Level != nil {
		a.set("level", *p.Level)
	}
	if p.HP != nil {
		a.set("hp", nullInt(p.HP))
	}
	if p.AC != nil {
		a.set("ac", nullInt(p.AC))
	}
	if p.Notes != nil {
		a.set("notes", *p.Notes)
	}
	if !a.empty() {
		if err := ps.s.update(ctx, "players", userID, playerID, &a); err != nil {
			return nil, wrap(err, "update player")
		}
	}
	return ps.Get(ctx, userID, playerID)
}
