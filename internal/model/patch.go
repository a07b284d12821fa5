package model

import "time"

// Patches are explicit field masks for sparse updates: a nil field is left
// untouched, a non-nil field is written. Each patch enumerates every
// updatable field of its entity.

// Ptr returns a pointer to v. Handy when building patches.
func Ptr[T any](v T) *T { return &v }

// CampaignPatch carries fields accepted by a campaign update.
type CampaignPatch struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	LastSession *string         `json:"lastSession,omitempty"`
	Status      *CampaignStatus `json:"status,omitempty"`
}

func (p CampaignPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.LastSession == nil && p.Status == nil
}

// Apply merges the set fields of p into c.
func (p CampaignPatch) Apply(c *Campaign) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.LastSession != nil {
		c.LastSession = *p.LastSession
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
}

// PlayerPatch carries fields accepted by a player update. HP and AC can be
// set but not cleared.
type PlayerPatch struct {
	PlayerName    *string `json:"playerName,omitempty"`
	CharacterName *string `json:"characterName,omitempty"`
	Race          *string `json:"race,omitempty"`
	Class         *string `json:"class,omitempty"`
	Level         *int    `json:"level,omitempty"`
	HP            *int    `json:"hp,omitempty"`
	AC            *int    `json:"ac,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

func (p PlayerPatch) IsEmpty() bool {
	return p.PlayerName == nil && p.CharacterName == nil && p.Race == nil && p.Class == nil &&
		p.Level == nil && p.HP == nil && p.AC == nil && p.Notes == nil
}

func (p PlayerPatch) Apply(pl *Player) {
	if p.PlayerName != nil {
		pl.PlayerName = *p.PlayerName
	}
	if p.CharacterName != nil {
		pl.CharacterName = *p.CharacterName
	}
	if p.Race != nil {
		pl.Race = *p.Race
	}
	if p.Class != nil {
		pl.Class = *p.Class
	}
	if p.Level != nil {
		pl.Level = *p.Level
	}
	if p.HP != nil {
		pl.HP = Ptr(*p.HP)
	}
	if p.AC != nil {
		pl.AC = Ptr(*p.AC)
	}
	if p.Notes != nil {
		pl.Notes = *p.Notes
	}
}

// EncounterPatch carries fields accepted by an encounter update.
type EncounterPatch struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Difficulty  *Difficulty `json:"difficulty,omitempty"`
	Enemies     *[]Enemy    `json:"enemies,omitempty"`
	Date        *string     `json:"date,omitempty"`
	Completed   *bool       `json:"completed,omitempty"`
	Notes       *string     `json:"notes,omitempty"`
}

func (p EncounterPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Difficulty == nil && p.Enemies == nil &&
		p.Date == nil && p.Completed == nil && p.Notes == nil
}

func (p EncounterPatch) Apply(e *Encounter) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Difficulty != nil {
		e.Difficulty = *p.Difficulty
	}
	if p.Enemies != nil {
		e.Enemies = append([]Enemy(nil), (*p.Enemies)...)
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Completed != nil {
		e.Completed = *p.Completed
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
}

// SessionPatch carries fields accepted by a session update. SessionDate can
// be set but not cleared. EncounterIDs is applied as a set.
type SessionPatch struct {
	Title        *string    `json:"title,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	EncounterIDs *[]string  `json:"encounterIds,omitempty"`
	Completed    *bool      `json:"completed,omitempty"`
	SessionDate  *time.Time `json:"sessionDate,omitempty"`
}

func (p SessionPatch) IsEmpty() bool {
	return p.Title == nil && p.Notes == nil && p.EncounterIDs == nil && p.Completed == nil && p.SessionDate == nil
}

func (p SessionPatch) Apply(s *Session) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Notes != nil {
		s.Notes = *p.Notes
	}
	if p.EncounterIDs != nil {
		s.EncounterIDs = UniqueIDs(*p.EncounterIDs)
	}
	if p.Completed != nil {
		s.Completed = *p.Completed
	}
	if p.SessionDate != nil {
		s.SessionDate = Ptr(*p.SessionDate)
	}
}

// UniqueIDs drops empty ids and repeats, keeping first occurrences in order.
// A session's encounter references form a set.
func UniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
