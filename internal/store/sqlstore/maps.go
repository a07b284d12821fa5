package sqlstore

import (
	"context"

	"github.com/tablekeep/tablekeep/internal/model"
)

const mapColumns = `id, user_id, campaign_id, title, description, file_url, file_key, file_type, file_size, created_at, updated_at`

type maps struct{ s *Store }

func scanMap(r rowScanner) (*model.CampaignMap, error) {
	var m model.CampaignMap
	if err := r.Scan(&m.ID, &m.UserID, &m.CampaignID, &m.Title, &m.Description, &m.FileURL, &m.FileKey,
		&m.FileType, &m.FileSize, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	return &m, nil
}

func (ms *maps) Create(ctx context.Context, in *model.CampaignMap) (*model.CampaignMap, error) {
	out := *in
	if out.ID == "" {
		out.ID = newID()
	}
	now := ms.s.now()
	out.CreatedAt, out.UpdatedAt = now, now
	_, err := ms.s.exec(ctx, `
        INSERT INTO campaign_maps (`+mapColumns+`)
        VALUES (?,?,?,?,?,?,?,?,?,?,?)
    `, out.ID, out.UserID, out.CampaignID, out.Title, out.Description, out.FileURL, out.FileKey,
		out.FileType, out.FileSize, out.CreatedAt, out.UpdatedAt)
	if err != nil {
		return nil, wrap(err, "insert map")
	}
	return &out, nil
}

func (ms *maps) Get(ctx context.Context, userID, mapID string) (*model.CampaignMap, error) {
	row := ms.s.queryRow(ctx, `SELECT `+mapColumns+` FROM campaign_maps WHERE user_id = ? AND id = ?`, userID, mapID)
	out, err := scanMap(row)
	if err != nil {
		return nil, wrap(err, "get map")
	}
	return out, nil
}

func (ms *maps) List(ctx context.Context, userID string) ([]*model.CampaignMap, error) {
	rows, err := ms.s.query(ctx, `
        SELECT `+mapColumns+` FROM campaign_maps
        WHERE user_id = ? ORDER BY created_at DESC, id DESC
    `, userID)
	if err != nil {
		return nil, wrap(err, "list maps")
	}
	defer func() { _ = rows.Close() }()
	res := []*model.CampaignMap{}
	for rows.Next() {
		m, err := scanMap(rows)
		if err != nil {
			return nil, wrap(err, "scan map")
		}
		res = append(res, m)
	}
	return res, wrap(rows.Err(), "list maps")
}

func (ms *maps) Delete(ctx context.Context, userID, mapID string) error {
	res, err := ms.s.exec(ctx, `DELETE FROM campaign_maps WHERE user_id = ? AND id = ?`, userID, mapID)
	if err != nil {
		return wrap(err, "delete map")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrap(err, "delete map")
	}
	if n == 0 {
		return wrap(model.ErrNotFound, "delete map")
	}
	return nil
}
