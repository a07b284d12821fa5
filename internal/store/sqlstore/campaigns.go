package sqlstore

import (
	"context"

	"github.com/tablekeep/tablekeep/internal/model"
)

const campaignColumns = `id, user_id, title, description, last_session, status, created_at, updated_at`

type campaigns struct{ s *Store }

func scanCampaign(r rowScanner) (*model.Campaign, error) {
	var c model.Campaign
	var status string
	if err := r.Scan(&c.ID, &c.UserID, &c.Title, &c.Description, &c.LastSession, &status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Status = model.CampaignStatus(status)
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}

func (c *campaigns) Create(ctx context.Context, in *model.Campaign) (*model.Campaign, error) {
	out := *in
	if out.ID == "" {
		out.ID = newID()
	}
	now := c.s.now()
	out.CreatedAt, out.UpdatedAt = now, now
	_, err := c.s.exec(ctx, `
        INSERT INTO campaigns (`+campaignColumns+`)
        VALUES (?,?,?,?,?,?,?,?)
    `, out.ID, out.UserID, out.Title, out.Description, out.LastSession, string(out.Status), out.CreatedAt, out.UpdatedAt)
	if err != nil {
		return nil, wrap(err, "insert campaign")
	}
	return &out, nil
}

func (c *campaigns) Get(ctx context.Context, userID, campaignID string) (*model.Campaign, error) {
	row := c.s.queryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE user_id = ? AND id = ?`, userID, campaignID)
	out, err := scanCampaign(row)
	if err != nil {
		return nil, wrap(err, "get campaign")
	}
	return out, nil
}

func (c *campaigns) List(ctx context.Context, userID string) ([]*model.Campaign, error) {
	rows, err := c.s.query(ctx, `
        SELECT `+campaignColumns+`
        FROM campaigns WHERE user_id = ? ORDER BY created_at DESC, id DESC
    `, userID)
	if err != nil {
		return nil, wrap(err, "list campaigns")
	}
	defer func() { _ = rows.Close() }()
	res := []*model.Campaign{}
	for rows.Next() {
		out, err := scanCampaign(rows)
		if err != nil {
			return nil, wrap(err, "scan campaign")
		}
		res = append(res, out)
	}
	return res, wrap(rows.Err(), "list campaigns")
}

func (c *campaigns) Update(ctx context.Context, userID, campaignID string, p model.CampaignPatch) (*model.Campaign, error) {
	var a assignments
	if p.Title != nil {
		a.set("title", *p.Title)
	}
	if p.Description != nil {
		a.set("description", *p.Description)
	}
	if p.LastSession != nil {
		a.set("last_session", *p.LastSession)
	}
	if p.Status != nil {
		a.set("status", string(*p.Status))
	}
	if !a.empty() {
		if err := c.s.update(ctx, "campaigns", userID, campaignID, &a); err != nil {
			return nil, wrap(err, "update campaign")
		}
	}
	return c.Get(ctx, userID, campaignID)
}
