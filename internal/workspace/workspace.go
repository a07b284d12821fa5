// Package workspace holds one signed-in user's campaigns, players,
// encounters, sessions and maps in memory and keeps them in step with the
// service. Every write goes to the service first; memory changes only after
// it succeeds, except DeleteMap which drops the record up front.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tablekeep/tablekeep/internal/model"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("workspace closed")

// Remote is the service the workspace mirrors. *client.Client implements it.
type Remote interface {
	ListCampaigns(ctx context.Context) ([]*model.Campaign, error)
	ListPlayers(ctx context.Context) ([]*model.Player, error)
	ListEncounters(ctx context.Context) ([]*model.Encounter, error)
	ListSessions(ctx context.Context) ([]*model.Session, error)
	ListMaps(ctx context.Context) ([]*model.CampaignMap, error)

	CreateCampaign(ctx context.Context, in *model.Campaign) (*model.Campaign, error)
	UpdateCampaign(ctx context.Context, id string, p model.CampaignPatch) (*model.Campaign, error)
	CreatePlayer(ctx context.Context, in *model.Player) (*model.Player, error)
	UpdatePlayer(ctx context.Context, id string, p model.PlayerPatch) (*model.Player, error)
	CreateEncounter(ctx context.Context, in *model.Encounter) (*model.Encounter, error)
	UpdateEncounter(ctx context.Context, id string, p model.EncounterPatch) (*model.Encounter, error)
	CreateSession(ctx context.Context, in *model.Session) (*model.Session, error)
	UpdateSession(ctx context.Context, id string, p model.SessionPatch) (*model.Session, error)
	UploadMap(ctx context.Context, u model.MapUpload) (*model.CampaignMap, error)
	DeleteMap(ctx context.Context, id string) error

	Chatter
}

type Option func(*Workspace)

// WithNotifier routes notifications to n instead of the logger.
func WithNotifier(n Notifier) Option {
	return func(w *Workspace) { w.notifier = n }
}

func WithLogger(log zerolog.Logger) Option {
	return func(w *Workspace) { w.log = log }
}

type Workspace struct {
	remote   Remote
	userID   string
	notifier Notifier
	log      zerolog.Logger

	mu         sync.RWMutex
	closed     bool
	campaigns  []*model.Campaign
	players    []*model.Player
	encounters []*model.Encounter
	sessions   []*model.Session
	maps       []*model.CampaignMap
	convs      map[string]*Conversation
}

// Open builds the workspace for userID and loads every collection. A kind
// that fails to load stays empty and produces an error notification; Open
// itself only fails on bad arguments.
func Open(ctx context.Context, remote Remote, userID string, opts ...Option) (*Workspace, error) {
	if remote == nil {
		return nil, errors.New("workspace: remote is nil")
	}
	if userID == "" {
		return nil, errors.New("workspace: user id is empty")
	}
	w := &Workspace{remote: remote, userID: userID, log: zerolog.Nop(), convs: map[string]*Conversation{}}
	for _, opt := range opts {
		opt(w)
	}
	if w.notifier == nil {
		w.notifier = LogNotifier{Log: w.log}
	}
	_ = w.Reload(ctx)
	return w, nil
}

func (w *Workspace) UserID() string { return w.userID }

// Reload replaces every collection with a fresh query. Kinds are fetched in
// parallel and independently; the returned error joins every failure.
func (w *Workspace) Reload(ctx context.Context) error {
	if err := w.check(); err != nil {
		return err
	}
	var (
		campaigns  []*model.Campaign
		players    []*model.Player
		encounters []*model.Encounter
		sessions   []*model.Session
		maps       []*model.CampaignMap
		errs       = make([]error, 5)
	)
	var g errgroup.Group
	g.Go(func() error { campaigns, errs[0] = w.remote.ListCampaigns(ctx); return nil })
	g.Go(func() error { players, errs[1] = w.remote.ListPlayers(ctx); return nil })
	g.Go(func() error { encounters, errs[2] = w.remote.ListEncounters(ctx); return nil })
	g.Go(func() error { sessions, errs[3] = w.remote.ListSessions(ctx); return nil })
	g.Go(func() error { maps, errs[4] = w.remote.ListMaps(ctx); return nil })
	_ = g.Wait()

	for i, kind := range []Kind{KindCampaigns, KindPlayers, KindEncounters, KindSessions, KindMaps} {
		if errs[i] != nil {
			errs[i] = fmt.Errorf("load %s: %w", kind, errs[i])
			w.fail("load "+string(kind), errs[i])
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	w.campaigns = orEmpty(campaigns, errs[0])
	w.players = orEmpty(players, errs[1])
	w.encounters = orEmpty(encounters, errs[2])
	w.sessions = orEmpty(sessions, errs[3])
	w.maps = orEmpty(maps, errs[4])
	return errors.Join(errs...)
}

func orEmpty[T any](items []*T, err error) []*T {
	if err != nil || items == nil {
		return []*T{}
	}
	return items
}

// Close drops every collection. Later calls fail with ErrClosed.
func (w *Workspace) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	w.campaigns, w.players, w.encounters, w.sessions, w.maps = nil, nil, nil, nil, nil
	w.convs = nil
	return nil
}

func (w *Workspace) check() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrClosed
	}
	return nil
}

func (w *Workspace) fail(op string, err error) {
	w.notifier.Notify(Notification{Level: LevelError, Op: op, Message: op + " failed", Err: err})
}

// Snapshots. Each returns copies in collection order, newest first.

func (w *Workspace) Campaigns() []model.Campaign {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return values(w.campaigns)
}

func (w *Workspace) Players() []model.Player {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return values(w.players)
}

func (w *Workspace) Encounters() []model.Encounter {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return values(w.encounters)
}

func (w *Workspace) Sessions() []model.Session {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return values(w.sessions)
}

func (w *Workspace) Maps() []model.CampaignMap {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return values(w.maps)
}

// Campaign returns the in-memory campaign with id.
func (w *Workspace) Campaign(id string) (model.Campaign, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return find(w.campaigns, id)
}

func (w *Workspace) Encounter(id string) (model.Encounter, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return find(w.encounters, id)
}

type identified interface {
	GetID() string
}

func values[T any](items []*T) []T {
	out := make([]T, len(items))
	for i, p := range items {
		out[i] = *p
	}
	return out
}

func find[T any, P interface {
	*T
	identified
}](items []*T, id string) (T, bool) {
	for _, it := range items {
		if P(it).GetID() == id {
			return *it, true
		}
	}
	var zero T
	return zero, false
}
