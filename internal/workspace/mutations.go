package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tablekeep/tablekeep/internal/model"
)

// create runs call and, on success, prepends the server row to *list.
func create[T any](w *Workspace, op string, list *[]*T, call func() (*T, error)) (*T, error) {
	if err := w.check(); err != nil {
		return nil, err
	}
	out, err := call()
	if err != nil {
		w.fail(op, err)
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, ErrClosed
	}
	*list = append([]*T{out}, *list...)
	cp := *out
	return &cp, nil
}

// update runs call and, on success, merges the patch into the record with id.
// A record missing from memory is left missing; the server row is returned.
func update[T any, P interface {
	*T
	identified
}](w *Workspace, op string, list *[]*T, id string, call func() (*T, error), apply func(*T)) (*T, error) {
	if err := w.check(); err != nil {
		return nil, err
	}
	out, err := call()
	if err != nil {
		w.fail(op, err)
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, ErrClosed
	}
	for _, it := range *list {
		if P(it).GetID() == id {
			apply(it)
			cp := *it
			return &cp, nil
		}
	}
	return out, nil
}

func (w *Workspace) CreateCampaign(ctx context.Context, in *model.Campaign) (*model.Campaign, error) {
	return create(w, "create campaign", &w.campaigns, func() (*model.Campaign, error) {
		return w.remote.CreateCampaign(ctx, in)
	})
}

func (w *Workspace) UpdateCampaign(ctx context.Context, id string, p model.CampaignPatch) (*model.Campaign, error) {
	return update(w, "update campaign", &w.campaigns, id, func() (*model.Campaign, error) {
		return w.remote.UpdateCampaign(ctx, id, p)
	}, p.Apply)
}

func (w *Workspace) CreatePlayer(ctx context.Context, in *model.Player) (*model.Player, error) {
	return create(w, "create player", &w.players, func() (*model.Player, error) {
		return w.remote.CreatePlayer(ctx, in)
	})
}

func (w *Workspace) UpdatePlayer(ctx context.Context, id string, p model.PlayerPatch) (*model.Player, error) {
	return update(w, "update player", &w.players, id, func() (*model.Player, error) {
		return w.remote.UpdatePlayer(ctx, id, p)
	}, p.Apply)
}

func (w *Workspace) CreateEncounter(ctx context.Context, in *model.Encounter) (*model.Encounter, error) {
	return create(w, "create encounter", &w.encounters, func() (*model.Encounter, error) {
		return w.remote.CreateEncounter(ctx, in)
	})
}

func (w *Workspace) UpdateEncounter(ctx context.Context, id string, p model.EncounterPatch) (*model.Encounter, error) {
	return update(w, "update encounter", &w.encounters, id, func() (*model.Encounter, error) {
		return w.remote.UpdateEncounter(ctx, id, p)
	}, p.Apply)
}

// EncounterNotes maps an encounter id to the note written for it while
// completing a session.
type EncounterNotes map[string]string

// CascadeError reports encounters left unchanged by a session completion.
// The session itself and every encounter not listed were written.
type CascadeError struct {
	SessionID string
	Failed    []string
	Errs      []error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("session %s completed but %d encounter(s) not updated: %s",
		e.SessionID, len(e.Failed), strings.Join(e.Failed, ", "))
}

func (e *CascadeError) Unwrap() []error { return e.Errs }

// CreateSession creates the session; when it is created completed, every
// referenced encounter is then completed too (see completeEncounters).
func (w *Workspace) CreateSession(ctx context.Context, in *model.Session, notes EncounterNotes) (*model.Session, error) {
	s, err := create(w, "create session", &w.sessions, func() (*model.Session, error) {
		return w.remote.CreateSession(ctx, in)
	})
	if err != nil {
		return nil, err
	}
	if s.Completed {
		return s, w.completeEncounters(ctx, s, notes)
	}
	return s, nil
}

// UpdateSession applies p; a patch setting completed=true cascades to the
// session's encounters.
func (w *Workspace) UpdateSession(ctx context.Context, id string, p model.SessionPatch, notes EncounterNotes) (*model.Session, error) {
	s, err := update(w, "update session", &w.sessions, id, func() (*model.Session, error) {
		return w.remote.UpdateSession(ctx, id, p)
	}, p.Apply)
	if err != nil {
		return nil, err
	}
	if p.Completed != nil && *p.Completed {
		return s, w.completeEncounters(ctx, s, notes)
	}
	return s, nil
}

// completeEncounters marks each encounter of s completed, one at a time,
// with notes[id] or else the encounter's current notes. Each id is updated
// once even if the session lists it twice. Ids not present in
// memory are skipped. A failure does not stop the loop and nothing is
// rolled back.
func (w *Workspace) completeEncounters(ctx context.Context, s *model.Session, notes EncounterNotes) error {
	var cerr CascadeError
	for _, eid := range model.UniqueIDs(s.EncounterIDs) {
		enc, ok := w.Encounter(eid)
		if !ok {
			w.log.Debug().Str("session_id", s.ID).Str("encounter_id", eid).Msg("cascade skipped unknown encounter")
			continue
		}
		note := notes[eid]
		if note == "" {
			note = enc.Notes
		}
		patch := model.EncounterPatch{Completed: model.Ptr(true), Notes: model.Ptr(note)}
		if _, err := w.UpdateEncounter(ctx, eid, patch); err != nil {
			cerr.Failed = append(cerr.Failed, eid)
			cerr.Errs = append(cerr.Errs, err)
		}
	}
	if len(cerr.Failed) == 0 {
		return nil
	}
	cerr.SessionID = s.ID
	w.fail("complete session encounters", &cerr)
	return &cerr
}

func (w *Workspace) UploadMap(ctx context.Context, u model.MapUpload) (*model.CampaignMap, error) {
	return create(w, "upload map", &w.maps, func() (*model.CampaignMap, error) {
		return w.remote.UploadMap(ctx, u)
	})
}

// DeleteMap drops the map from memory, then asks the service to delete the
// file and the row. On failure the record is not restored.
func (w *Workspace) DeleteMap(ctx context.Context, id string) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	for i, m := range w.maps {
		if m.ID == id {
			w.maps = append(w.maps[:i:i], w.maps[i+1:]...)
			break
		}
	}
	w.mu.Unlock()

	if err := w.remote.DeleteMap(ctx, id); err != nil {
		w.fail("delete map", err)
		return err
	}
	return nil
}

// IsCascade reports whether err came from a partially applied session completion.
func IsCascade(err error) bool {
	var ce *CascadeError
	return errors.As(err, &ce)
}
