// Package assistant implements the DM assistant chat proxy: it gathers the
// campaign context, asks the LLM for a reply and records both turns.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tablekeep/tablekeep/internal/api/validate"
	"github.com/tablekeep/tablekeep/internal/llm"
	"github.com/tablekeep/tablekeep/internal/model"
	"github.com/tablekeep/tablekeep/internal/store"
)

// FallbackReply is recorded when the model returns no text.
const FallbackReply = "No response from AI"

// ErrVendor wraps failures of the upstream model call.
var ErrVendor = errors.New("assistant vendor call failed")

type Options struct {
	HistoryLimit   int
	EncounterLimit int
	Language       string
	Temperature    float32
	MaxTokens      int
}

func DefaultOptions() Options {
	return Options{HistoryLimit: 20, EncounterLimit: 10, Language: "English", Temperature: 0.7, MaxTokens: 2048}
}

type Service struct {
	store store.Store
	llm   llm.Provider
	log   zerolog.Logger
	opts  Options
	now   func() time.Time
}

func New(s store.Store, p llm.Provider, log zerolog.Logger, opts Options) *Service {
	def := DefaultOptions()
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = def.HistoryLimit
	}
	if opts.EncounterLimit <= 0 {
		opts.EncounterLimit = def.EncounterLimit
	}
	if opts.Language == "" {
		opts.Language = def.Language
	}
	if opts.Temperature == 0 {
		opts.Temperature = def.Temperature
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = def.MaxTokens
	}
	return &Service{store: s, llm: p, log: log, opts: opts, now: func() time.Time { return time.Now().UTC() }}
}

// campaignFor returns the campaign when userID owns it, ErrForbidden otherwise.
func (s *Service) campaignFor(ctx context.Context, userID, campaignID string) (*model.Campaign, error) {
	c, err := s.store.Campaigns().Get(ctx, userID, campaignID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("%w: campaign not found or access denied", model.ErrForbidden)
	}
	return c, err
}

// Reply answers message in the context of campaignID. Both turns are stored
// only after the model call succeeds, user turn first.
func (s *Service) Reply(ctx context.Context, userID, campaignID, message string) (string, error) {
	if err := validate.ChatRequest(message, campaignID); err != nil {
		return "", err
	}
	c, err := s.campaignFor(ctx, userID, campaignID)
	if err != nil {
		return "", err
	}

	var (
		history    []*model.ChatMessage
		players    []*model.Player
		encounters []*model.Encounter
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		history, err = s.store.ChatMessages().ListRecent(gctx, userID, campaignID, s.opts.HistoryLimit)
		return err
	})
	g.Go(func() (err error) {
		players, err = s.store.Players().ListByCampaign(gctx, userID, campaignID)
		return err
	})
	g.Go(func() (err error) {
		encounters, err = s.store.Encounters().ListByCampaign(gctx, userID, campaignID, s.opts.EncounterLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("load campaign context: %w", err)
	}

	req := llm.Request{
		System:      SystemPrompt(CampaignContext{Campaign: c, Players: players, Encounters: encounters}, s.opts.Language),
		Messages:    conversation(history, message),
		Temperature: s.opts.Temperature,
		MaxTokens:   s.opts.MaxTokens,
	}
	resp, err := s.llm.Complete(ctx, req)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrVendor, err)
	}
	reply := resp.Content
	if strings.TrimSpace(reply) == "" {
		reply = FallbackReply
	}

	at := s.now()
	if _, err := s.store.ChatMessages().Create(ctx, &model.ChatMessage{
		UserID: userID, CampaignID: campaignID, Role: model.RoleUser, Content: message, CreatedAt: at,
	}); err != nil {
		return "", fmt.Errorf("record user turn: %w", err)
	}
	if _, err := s.store.ChatMessages().Create(ctx, &model.ChatMessage{
		UserID: userID, CampaignID: campaignID, Role: model.RoleAssistant, Content: reply, CreatedAt: at.Add(time.Millisecond),
	}); err != nil {
		return "", fmt.Errorf("record assistant turn: %w", err)
	}

	s.log.Info().Str("campaign_id", campaignID).Int("history", len(history)).Msg("chat interaction recorded")
	return reply, nil
}

// History returns up to limit recent messages, oldest first.
func (s *Service) History(ctx context.Context, userID, campaignID string, limit int) ([]*model.ChatMessage, error) {
	if _, err := s.campaignFor(ctx, userID, campaignID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.opts.HistoryLimit
	}
	return s.store.ChatMessages().ListRecent(ctx, userID, campaignID, limit)
}

// conversation maps stored turns to model roles and appends the new message.
func conversation(history []*model.ChatMessage, message string) []llm.Message {
	out := make([]llm.Message, 0, len(history)+1)
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == model.RoleAssistant {
			role = llm.RoleModel
		}
		out = append(out, llm.Message{Role: role, Content: m.Content})
	}
	return append(out, llm.Message{Role: llm.RoleUser, Content: message})
}
