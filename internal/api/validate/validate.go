package validate

import (
	"fmt"
	"strings"

	"github.com/tablekeep/tablekeep/internal/model"
)

const (
	maxTitle       = 200
	maxName        = 100
	maxDescription = 5000
	maxNotes       = 20000
	maxMessage     = 8000
	maxVoiceText   = 5000
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{model.ErrValidation}, args...)...)
}

func NonEmpty(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return invalid("%s is required", field)
	}
	return nil
}

func MaxLen(field string, v *string, limit int) error {
	if v == nil {
		return nil
	}
	if len(*v) > limit {
		return invalid("%s exceeds %d characters", field, limit)
	}
	return nil
}

// Title validates a required display title.
func Title(v string) error {
	if err := NonEmpty("title", v); err != nil {
		return err
	}
	return MaxLen("title", &v, maxTitle)
}

// Level rejects levels outside [model.MinLevel, model.MaxLevel].
func Level(n int) error {
	if n < model.MinLevel || n > model.MaxLevel {
		return invalid("level must be between %d and %d", model.MinLevel, model.MaxLevel)
	}
	return nil
}

func NonNegative(field string, v *int) error {
	if v != nil && *v < 0 {
		return invalid("%s must not be negative", field)
	}
	return nil
}

func Status(s model.CampaignStatus) error {
	if !s.Valid() {
		return invalid("status must be one of active, paused, completed")
	}
	return nil
}

func Difficulty(d model.Difficulty) error {
	if !d.Valid() {
		return invalid("difficulty must be one of easy, medium, hard, deadly")
	}
	return nil
}

func Enemies(list []model.Enemy) error {
	for i, e := range list {
		if err := NonEmpty(fmt.Sprintf("enemies[%d].name", i), e.Name); err != nil {
			return err
		}
		if err := NonNegative(fmt.Sprintf("enemies[%d].hp", i), e.HP); err != nil {
			return err
		}
		if err := NonNegative(fmt.Sprintf("enemies[%d].ac", i), e.AC); err != nil {
			return err
		}
	}
	return nil
}

func first(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// -------- Request specific helpers ----------

func CreateCampaign(c *model.Campaign) error {
	return first(
		Title(c.Title),
		MaxLen("description", &c.Description, maxDescription),
		Status(c.Status),
	)
}

func UpdateCampaign(p model.CampaignPatch) error {
	var errs []error
	if p.Title != nil {
		errs = append(errs, Title(*p.Title))
	}
	errs = append(errs, MaxLen("description", p.Description, maxDescription))
	if p.Status != nil {
		errs = append(errs, Status(*p.Status))
	}
	return first(errs...)
}

func CreatePlayer(p *model.Player) error {
	return first(
		NonEmpty("campaignId", p.CampaignID),
		NonEmpty("playerName", p.PlayerName),
		NonEmpty("characterName", p.CharacterName),
		MaxLen("playerName", &p.PlayerName, maxName),
		MaxLen("characterName", &p.CharacterName, maxName),
		Level(p.Level),
		NonNegative("hp", p.HP),
		NonNegative("ac", p.AC),
		MaxLen("notes", &p.Notes, maxNotes),
	)
}

func UpdatePlayer(p model.PlayerPatch) error {
	var errs []error
	if p.PlayerName != nil {
		errs = append(errs, NonEmpty("playerName", *p.PlayerName))
	}
	if p.CharacterName != nil {
		errs = append(errs, NonEmpty("characterName", *p.CharacterName))
	}
	if p.Level != nil {
		errs = append(errs, Level(*p.Level))
	}
	errs = append(errs,
		NonNegative("hp", p.HP),
		NonNegative("ac", p.AC),
		MaxLen("notes", p.Notes, maxNotes),
	)
	return first(errs...)
}

func CreateEncounter(e *model.Encounter) error {
	return first(
		NonEmpty("campaignId", e.CampaignID),
		Title(e.Title),
		MaxLen("description", &e.Description, maxDescription),
		Difficulty(e.Difficulty),
		Enemies(e.Enemies),
		MaxLen("notes", &e.Notes, maxNotes),
	)
}

func UpdateEncounter(p model.EncounterPatch) error {
	var errs []error
	if p.Title != nil {
		errs = append(errs, Title(*p.Title))
	}
	if p.Difficulty != nil {
		errs = append(errs, Difficulty(*p.Difficulty))
	}
	if p.Enemies != nil {
		errs = append(errs, Enemies(*p.Enemies))
	}
	errs = append(errs,
		MaxLen("description", p.Description, maxDescription),
		MaxLen("notes", p.Notes, maxNotes),
	)
	return first(errs...)
}

func CreateSession(s *model.Session) error {
	return first(
		NonEmpty("campaignId", s.CampaignID),
		Title(s.Title),
		MaxLen("notes", &s.Notes, maxNotes),
	)
}

func UpdateSession(p model.SessionPatch) error {
	var errs []error
	if p.Title != nil {
		errs = append(errs, Title(*p.Title))
	}
	errs = append(errs, MaxLen("notes", p.Notes, maxNotes))
	return first(errs...)
}

func CreateMap(campaignID, title string) error {
	return first(NonEmpty("campaignId", campaignID), Title(title))
}

// ChatRequest validates the assistant proxy payload.
func ChatRequest(message, campaignID string) error {
	if strings.TrimSpace(message) == "" || strings.TrimSpace(campaignID) == "" {
		return invalid("message and campaignId are required")
	}
	return MaxLen("message", &message, maxMessage)
}

// VoiceRequest validates the voice proxy payload.
func VoiceRequest(text, voiceID string) error {
	if strings.TrimSpace(text) == "" || strings.TrimSpace(voiceID) == "" {
		return invalid("text and voiceId are required")
	}
	return MaxLen("text", &text, maxVoiceText)
}
