package forms

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablekeep/tablekeep/internal/model"
)

func TestClampLevel(t *testing.T) {
	cases := map[int]int{-3: 1, 0: 1, 1: 1, 7: 7, 20: 20, 25: 20}
	for in, want := range cases {
		assert.Equal(t, want, ClampLevel(in), "level %d", in)
	}
}

func TestPlayerInput_ClampsAndTrims(t *testing.T) {
	p, err := PlayerInput{
		CampaignID: " c1 ", PlayerName: " Ana ", CharacterName: "Ireena", Race: "Human", Class: "Cleric", Level: 25,
	}.Build()
	require.NoError(t, err)
	assert.Equal(t, 20, p.Level)
	assert.Equal(t, "c1", p.CampaignID)
	assert.Equal(t, "Ana", p.PlayerName)

	_, err = PlayerInput{CampaignID: "c1", PlayerName: "Ana", CharacterName: "  ", Race: "Human", Class: "Cleric"}.Build()
	assert.True(t, errors.Is(err, ErrRequired))
	assert.Contains(t, err.Error(), "characterName")
}

func TestCampaignInput(t *testing.T) {
	_, err := CampaignInput{Title: "   "}.Build()
	assert.True(t, errors.Is(err, ErrRequired))

	c, err := CampaignInput{Title: " Test ", Status: " Paused "}.Build()
	require.NoError(t, err)
	assert.Equal(t, "Test", c.Title)
	assert.Equal(t, model.CampaignPaused, c.Status)
}

func TestEncounterInput_DropsBlankEnemies(t *testing.T) {
	e, err := EncounterInput{
		CampaignID: "c1", Title: "Ambush",
		Enemies: []model.Enemy{{Name: "Goblin"}, {Name: " "}, {Name: " Wolf "}},
	}.Build()
	require.NoError(t, err)
	require.Len(t, e.Enemies, 2)
	assert.Equal(t, "Goblin", e.Enemies[0].Name)
	assert.Equal(t, "Wolf", e.Enemies[1].Name)
}

func TestSessionInput(t *testing.T) {
	s, err := SessionInput{CampaignID: "c1", Title: "S1", EncounterIDs: []string{"e1", " ", "e2 "}}.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2"}, s.EncounterIDs)

	_, err = SessionInput{CampaignID: "c1"}.Build()
	assert.True(t, errors.Is(err, ErrRequired))
}

func TestChatInput(t *testing.T) {
	cid, msg, err := ChatInput{CampaignID: "c1", Message: " hi "}.Build()
	require.NoError(t, err)
	assert.Equal(t, "c1", cid)
	assert.Equal(t, "hi", msg)

	_, _, err = ChatInput{CampaignID: "c1"}.Build()
	assert.True(t, errors.Is(err, ErrRequired))
}
