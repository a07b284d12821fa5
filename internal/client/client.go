// Package client is a typed REST client for the campaign service.
package client

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tablekeep/tablekeep/internal/model"
)

const defaultTimeout = 90 * time.Second

// Client talks to one service on behalf of one bearer token.
type Client struct {
	rc *resty.Client
}

// New builds a client for baseURL authenticating with token, which may be a
// JWT or the local dev key.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("baseURL cannot be empty")
	}
	if token == "" {
		return nil, errors.New("token cannot be empty")
	}
	c := &Client{rc: resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(token).
		SetHeader("Accept", "application/json").
		SetTimeout(defaultTimeout)}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// do sends req and maps failures. A non-2xx answer becomes an *APIError.
func do(op string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.IsError() {
		apiErr, _ := resp.Error().(*APIError)
		if apiErr == nil {
			apiErr = &APIError{}
		}
		apiErr.Op = op
		apiErr.StatusCode = resp.StatusCode()
		if apiErr.Status == "" {
			apiErr.Status = http.StatusText(resp.StatusCode())
		}
		return apiErr
	}
	return nil
}

func (c *Client) req(ctx context.Context) *resty.Request {
	return c.rc.R().SetContext(ctx).SetError(&APIError{})
}

// Health reports the service status string ("healthy" or "unhealthy").
func (c *Client) Health(ctx context.Context) (string, error) {
	var out struct {
		Status string `json:"status"`
	}
	resp, err := c.req(ctx).SetResult(&out).Get("/api/health")
	if err := do("health", resp, err); err != nil {
		return "", err
	}
	return out.Status, nil
}

// Campaigns

func (c *Client) ListCampaigns(ctx context.Context) ([]*model.Campaign, error) {
	var out struct {
		Campaigns []*model.Campaign `json:"campaigns"`
	}
	resp, err := c.req(ctx).SetResult(&out).Get("/api/campaigns")
	if err := do("list campaigns", resp, err); err != nil {
		return nil, err
	}
	return out.Campaigns, nil
}

func (c *Client) GetCampaign(ctx context.Context, id string) (*model.Campaign, error) {
	var out model.Campaign
	resp, err := c.req(ctx).SetPathParam("id", id).SetResult(&out).Get("/api/campaigns/{id}")
	if err := do("get campaign", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCampaign(ctx context.Context, in *model.Campaign) (*model.Campaign, error) {
	var out model.Campaign
	body := map[string]interface{}{
		"title":       in.Title,
		"description": in.Description,
		"lastSession": in.LastSession,
		"status":      in.Status,
	}
	resp, err := c.req(ctx).SetBody(body).SetResult(&out).Post("/api/campaigns")
	if err := do("create campaign", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCampaign(ctx context.Context, id string, p model.CampaignPatch) (*model.Campaign, error) {
	var out model.Campaign
	resp, err := c.req(ctx).SetPathParam("id", id).SetBody(p).SetResult(&out).Patch("/api/campaigns/{id}")
	if err := do("update campaign", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// Players

func (c *Client) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	var out struct {
		Players []*model.Player `json:"players"`
	}
	resp, err := c.req(ctx).SetResult(&out).Get("/api/players")
	if err := do("list players", resp, err); err != nil {
		return nil, err
	}
	return out.Players, nil
}

func (c *Client) CreatePlayer(ctx context.Context, in *model.Player) (*model.Player, error) {
	var out model.Player
	resp, err := c.req(ctx).SetBody(in).SetResult(&out).Post("/api/players")
	if err := do("create player", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePlayer(ctx context.Context, id string, p model.PlayerPatch) (*model.Player, error) {
	var out model.Player
	resp, err := c.req(ctx).SetPathParam("id", id).SetBody(p).SetResult(&out).Patch("/api/players/{id}")
	if err := do("update player", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// Encounters

func (c *Client) ListEncounters(ctx context.Context) ([]*model.Encounter, error) {
	var out struct {
		Encounters []*model.Encounter `json:"encounters"`
	}
	resp, err := c.req(ctx).SetResult(&out).Get("/api/encounters")
	if err := do("list encounters", resp, err); err != nil {
		return nil, err
	}
	return out.Encounters, nil
}

func (c *Client) CreateEncounter(ctx context.Context, in *model.Encounter) (*model.Encounter, error) {
	var out model.Encounter
	resp, err := c.req(ctx).SetBody(in).SetResult(&out).Post("/api/encounters")
	if err := do("create encounter", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateEncounter(ctx context.Context, id string, p model.EncounterPatch) (*model.Encounter, error) {
	var out model.Encounter
	resp, err := c.req(ctx).SetPathParam("id", id).SetBody(p).SetResult(&out).Patch("/api/encounters/{id}")
	if err := do("update encounter", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// Sessions

func (c *Client) ListSessions(ctx context.Context) ([]*model.Session, error) {
	var out struct {
		Sessions []*model.Session `json:"sessions"`
	}
	resp, err := c.req(ctx).SetResult(&out).Get("/api/sessions")
	if err := do("list sessions", resp, err); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

func (c *Client) CreateSession(ctx context.Context, in *model.Session) (*model.Session, error) {
	var out model.Session
	resp, err := c.req(ctx).SetBody(in).SetResult(&out).Post("/api/sessions")
	if err := do("create session", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSession(ctx context.Context, id string, p model.SessionPatch) (*model.Session, error) {
	var out model.Session
	resp, err := c.req(ctx).SetPathParam("id", id).SetBody(p).SetResult(&out).Patch("/api/sessions/{id}")
	if err := do("update session", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// Maps

func (c *Client) ListMaps(ctx context.Context) ([]*model.CampaignMap, error) {
	var out struct {
		Maps []*model.CampaignMap `json:"maps"`
	}
	resp, err := c.req(ctx).SetResult(&out).Get("/api/maps")
	if err := do("list maps", resp, err); err != nil {
		return nil, err
	}
	return out.Maps, nil
}

// UploadMap sends u as multipart/form-data. An empty ContentType is guessed
// from the file extension.
func (c *Client) UploadMap(ctx context.Context, u model.MapUpload) (*model.CampaignMap, error) {
	if u.Body == nil {
		return nil, fmt.Errorf("upload map: %w: file is required", model.ErrValidation)
	}
	contentType := u.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(u.Filename)))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	var out model.CampaignMap
	resp, err := c.req(ctx).
		SetPathParam("id", u.CampaignID).
		SetFormData(map[string]string{"title": u.Title, "description": u.Description}).
		SetMultipartField("file", filepath.Base(u.Filename), contentType, u.Body).
		SetResult(&out).
		Post("/api/campaigns/{id}/maps")
	if err := do("upload map", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// DownloadMap streams the map file into w and returns the bytes written.
func (c *Client) DownloadMap(ctx context.Context, id string, w io.Writer) (int64, error) {
	resp, err := c.rc.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetPathParam("id", id).
		Get("/api/maps/{id}/file")
	if err != nil {
		return 0, fmt.Errorf("download map: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()
	if resp.StatusCode() != http.StatusOK {
		return 0, &APIError{Op: "download map", StatusCode: resp.StatusCode(), Status: http.StatusText(resp.StatusCode())}
	}
	return io.Copy(w, body)
}

func (c *Client) DeleteMap(ctx context.Context, id string) error {
	resp, err := c.req(ctx).SetPathParam("id", id).Delete("/api/maps/{id}")
	return do("delete map", resp, err)
}

// AI functions

// Chat asks the DM assistant about campaignID and returns its reply.
func (c *Client) Chat(ctx context.Context, campaignID, message string) (string, error) {
	var out struct {
		Response string `json:"response"`
	}
	resp, err := c.req(ctx).
		SetBody(map[string]string{"message": message, "campaignId": campaignID}).
		SetResult(&out).
		Post("/functions/v1/dm-assistant-chat")
	if err := do("assistant chat", resp, err); err != nil {
		return "", err
	}
	return out.Response, nil
}

// ChatHistory returns up to limit recent messages, oldest first; 0 uses the
// service default.
func (c *Client) ChatHistory(ctx context.Context, campaignID string, limit int) ([]*model.ChatMessage, error) {
	var out struct {
		Messages []*model.ChatMessage `json:"messages"`
	}
	r := c.req(ctx).SetPathParam("id", campaignID).SetResult(&out)
	if limit > 0 {
		r.SetQueryParam("limit", strconv.Itoa(limit))
	}
	resp, err := r.Get("/api/campaigns/{id}/chat")
	if err := do("chat history", resp, err); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// GenerateVoice returns MPEG audio of text spoken by voiceID.
func (c *Client) GenerateVoice(ctx context.Context, text, voiceID string) ([]byte, error) {
	var out struct {
		Audio string `json:"audio"`
	}
	resp, err := c.req(ctx).
		SetBody(map[string]string{"text": text, "voiceId": voiceID}).
		SetResult(&out).
		Post("/functions/v1/generate-npc-voice")
	if err := do("generate voice", resp, err); err != nil {
		return nil, err
	}
	audio, err := base64.StdEncoding.DecodeString(out.Audio)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	return audio, nil
}
