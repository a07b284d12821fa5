// Package forms normalizes user input before it reaches the workspace:
// text is trimmed, required fields are enforced and player levels are clamped.
package forms

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tablekeep/tablekeep/internal/model"
)

// ErrRequired reports an empty required field. No request should be sent.
var ErrRequired = errors.New("required field is empty")

// Required returns v trimmed, or ErrRequired naming field.
func Required(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrRequired, field)
	}
	return v, nil
}

// ClampLevel forces n into [1,20].
func ClampLevel(n int) int {
	switch {
	case n < model.MinLevel:
		return model.MinLevel
	case n > model.MaxLevel:
		return model.MaxLevel
	}
	return n
}

type CampaignInput struct {
	Title       string
	Description string
	LastSession string
	Status      string
}

func (in CampaignInput) Build() (*model.Campaign, error) {
	title, err := Required("title", in.Title)
	if err != nil {
		return nil, err
	}
	return &model.Campaign{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		LastSession: strings.TrimSpace(in.LastSession),
		Status:      model.CampaignStatus(strings.ToLower(strings.TrimSpace(in.Status))),
	}, nil
}

type PlayerInput struct {
	CampaignID    string
	PlayerName    string
	CharacterName string
	Race          string
	Class         string
	Level         int
	HP            *int
	AC            *int
	Notes         string
}

// Build requires every name field and clamps Level.
func (in PlayerInput) Build() (*model.Player, error) {
	p := &model.Player{Level: ClampLevel(in.Level), HP: in.HP, AC: in.AC, Notes: strings.TrimSpace(in.Notes)}
	for _, f := range []struct {
		name string
		in   string
		out  *string
	}{
		{"campaignId", in.CampaignID, &p.CampaignID},
		{"playerName", in.PlayerName, &p.PlayerName},
		{"characterName", in.CharacterName, &p.CharacterName},
		{"race", in.Race, &p.Race},
		{"class", in.Class, &p.Class},
	} {
		v, err := Required(f.name, f.in)
		if err != nil {
			return nil, err
		}
		*f.out = v
	}
	return p, nil
}

type EncounterInput struct {
	CampaignID  string
	Title       string
	Description string
	Difficulty  string
	Enemies     []model.Enemy
	Date        string
	Notes       string
}

// Build drops enemy rows with a blank name and keeps the rest in order.
func (in EncounterInput) Build() (*model.Encounter, error) {
	campaignID, err := Required("campaignId", in.CampaignID)
	if err != nil {
		return nil, err
	}
	title, err := Required("title", in.Title)
	if err != nil {
		return nil, err
	}
	enemies := make([]model.Enemy, 0, len(in.Enemies))
	for _, e := range in.Enemies {
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			continue
		}
		e.Details = strings.TrimSpace(e.Details)
		enemies = append(enemies, e)
	}
	return &model.Encounter{
		CampaignID:  campaignID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Difficulty:  model.Difficulty(strings.ToLower(strings.TrimSpace(in.Difficulty))),
		Enemies:     enemies,
		Date:        strings.TrimSpace(in.Date),
		Notes:       strings.TrimSpace(in.Notes),
	}, nil
}

type SessionInput struct {
	CampaignID   string
	Title        string
	Notes        string
	EncounterIDs []string
	Completed    bool
	SessionDate  *time.Time
}

func (in SessionInput) Build() (*model.Session, error) {
	campaignID, err := Required("campaignId", in.CampaignID)
	if err != nil {
		return nil, err
	}
	title, err := Required("title", in.Title)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(in.EncounterIDs))
	for _, id := range in.EncounterIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return &model.Session{
		CampaignID:   campaignID,
		Title:        title,
		Notes:        strings.TrimSpace(in.Notes),
		EncounterIDs: ids,
		Completed:    in.Completed,
		SessionDate:  in.SessionDate,
	}, nil
}

type ChatInput struct {
	CampaignID string
	Message    string
}

// Build returns the trimmed campaign id and message.
func (in ChatInput) Build() (string, string, error) {
	campaignID, err := Required("campaignId", in.CampaignID)
	if err != nil {
		return "", "", err
	}
	msg, err := Required("message", in.Message)
	if err != nil {
		return "", "", err
	}
	return campaignID, msg, nil
}
