package sqlstore

import (
	"context"

	"github.com/tablekeep/tablekeep/internal/model"
)

type chatMessages struct{ s *Store }

func (cm *chatMessages) Create(ctx context.Context, in *model.ChatMessage) (*model.ChatMessage, error) {
	out := *in
	if out.ID == "" {
		out.ID = newID()
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = cm.s.now()
	}
	_, err := cm.s.exec(ctx, `
        INSERT INTO chat_messages (id, user_id, campaign_id, role, content, created_at)
        VALUES (?,?,?,?,?,?)
    `, out.ID, out.UserID, out.CampaignID, string(out.Role), out.Content, out.CreatedAt)
	if err != nil {
		return nil, wrap(err, "insert chat message")
	}
	return &out, nil
}

func (cm *chatMessages) ListRecent(ctx context.Context, userID, campaignID string, limit int) ([]*model.ChatMessage, error) {
	rows, err := cm.s.query(ctx, `
        SELECT id, user_id, campaign_id, role, content, created_at
        FROM chat_messages WHERE user_id = ? AND campaign_id = ?
        ORDER BY created_at DESC, id DESC LIMIT ?
    `, userID, campaignID, limit)
	if err != nil {
		return nil, wrap(err, "list chat messages")
	}
	defer func() { _ = rows.Close() }()
	var newest []*model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		var role string
		if err := rows.Scan(&m.ID, &m.UserID, &m.CampaignID, &role, &m.Content, &m.CreatedAt); err != nil {
			return nil, wrap(err, "scan chat message")
		}
		m.Role = model.ChatRole(role)
		m.CreatedAt = m.CreatedAt.UTC()
		newest = append(newest, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(err, "list chat messages")
	}
	// oldest first
	res := make([]*model.ChatMessage, 0, len(newest))
	for i := len(newest) - 1; i >= 0; i-- {
		res = append(res, newest[i])
	}
	return res, nil
}
