package assistant

import (
	"fmt"
	"strings"

	"github.com/tablekeep/tablekeep/internal/model"
)

// CampaignContext is everything the prompt knows about a campaign.
type CampaignContext struct {
	Campaign   *model.Campaign
	Players    []*model.Player
	Encounters []*model.Encounter
}

// playerLine renders "- Ireena (Human Cleric, level 3)".
func playerLine(p *model.Player) string {
	return fmt.Sprintf("- %s (%s %s, level %d)", p.CharacterName, p.Race, p.Class, p.Level)
}

// encounterLine renders "- Wolves (hard, pending)".
func encounterLine(e *model.Encounter) string {
	state := "pending"
	if e.Completed {
		state = "completed"
	}
	return fmt.Sprintf("- %s (%s, %s)", e.Title, e.Difficulty, state)
}

// RenderContext formats the campaign block embedded in the system prompt.
func RenderContext(cc CampaignContext) string {
	var b strings.Builder
	desc := cc.Campaign.Description
	if strings.TrimSpace(desc) == "" {
		desc = "No description"
	}
	fmt.Fprintf(&b, "**Campaign:** %s\n", cc.Campaign.Title)
	fmt.Fprintf(&b, "**Description:** %s\n", desc)
	fmt.Fprintf(&b, "**Status:** %s\n\n", cc.Campaign.Status)

	b.WriteString("**Players:**\n")
	if len(cc.Players) == 0 {
		b.WriteString("No players registered yet.\n")
	}
	for _, p := range cc.Players {
		b.WriteString(playerLine(p))
		b.WriteByte('\n')
	}

	b.WriteString("\n**Recent encounters:**\n")
	if len(cc.Encounters) == 0 {
		b.WriteString("No encounters registered yet.\n")
	}
	for _, e := range cc.Encounters {
		b.WriteString(encounterLine(e))
		b.WriteByte('\n')
	}
	return b.String()
}

// SystemPrompt frames the model as a D&D 5e assistant for the given campaign
// and asks it to answer in language.
func SystemPrompt(cc CampaignContext, language string) string {
	if language == "" {
		language = "English"
	}
	return `You are an expert Dungeons & Dragons 5e assistant helping Dungeon Masters run their campaigns.

Your role:
- Suggest creative ideas for encounters, NPCs, locations and treasure
- Help balance encounters for the level and number of players
- Answer questions about D&D 5e rules
- Write narrative descriptions and NPC dialogue
- Offer adventure hooks and plot twists
- Help design dungeons and conceptual maps

Current campaign context:
` + RenderContext(cc) + `
IMPORTANT:
- Keep answers practical and direct
- When suggesting encounters, give full details (enemies, CR, tactics)
- When suggesting NPCs, include personality, motivations and secrets
- Adapt suggestions to the players' level
- Be creative but stay consistent with D&D 5e
- When the DM asks you to create something, produce detailed content and leave the final tuning to them
- Always answer in ` + language
}
