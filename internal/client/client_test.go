package client_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablekeep/tablekeep/internal/api/apitest"
	"github.com/tablekeep/tablekeep/internal/auth"
	"github.com/tablekeep/tablekeep/internal/client"
	"github.com/tablekeep/tablekeep/internal/forms"
	"github.com/tablekeep/tablekeep/internal/model"
	"github.com/tablekeep/tablekeep/internal/tts/elevenlabs"
	"github.com/tablekeep/tablekeep/internal/workspace"
)

func newClient(t *testing.T, f *apitest.Fixture, userID string) *client.Client {
	t.Helper()
	c, err := client.New(f.Server.URL, f.Token(t, userID), client.WithHTTPTimeout(10*time.Second))
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	_, err := client.New("", "tok")
	assert.Error(t, err)
	_, err = client.New("http://x", "")
	assert.Error(t, err)
	_, err = client.New("http://x", "tok", client.WithHTTPTimeout(0))
	assert.Error(t, err)
	c, err := client.New("http://x/", "tok", client.WithUserAgent("campaignctl"), client.WithDebugLogging(true))
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestAPIError_Unwrap(t *testing.T) {
	cases := []struct {
		code int
		want error
	}{
		{http.StatusBadRequest, model.ErrValidation},
		{http.StatusRequestEntityTooLarge, model.ErrValidation},
		{http.StatusUnauthorized, client.ErrUnauthorized},
		{http.StatusForbidden, model.ErrForbidden},
		{http.StatusNotFound, model.ErrNotFound},
		{http.StatusConflict, model.ErrConflict},
		{http.StatusTooManyRequests, client.ErrRateLimited},
	}
	for _, tc := range cases {
		err := error(&client.APIError{StatusCode: tc.code, Op: "op"})
		assert.ErrorIs(t, err, tc.want, "status %d", tc.code)
	}
	err := &client.APIError{StatusCode: 500, Status: "Internal Server Error", Op: "op"}
	assert.NoError(t, err.Unwrap())
	assert.Equal(t, "op: HTTP 500: Internal Server Error", err.Error())
}

func TestHealthAndAuth(t *testing.T) {
	f := apitest.Start(t, 0)
	ctx := context.Background()

	bad, err := client.New(f.Server.URL, "nope")
	require.NoError(t, err)
	status, err := bad.Health(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, status)

	_, err = bad.ListCampaigns(ctx)
	assert.ErrorIs(t, err, client.ErrUnauthorized)

	dev, err := client.New(f.Server.URL, auth.LocalDevAPIKey)
	require.NoError(t, err)
	list, err := dev.ListCampaigns(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestWorkspace_CreateCampaignAppearsOnce(t *testing.T) {
	f := apitest.Start(t, 0)
	ctx := context.Background()
	c := newClient(t, f, "u1")

	w, err := workspace.Open(ctx, c, "u1")
	require.NoError(t, err)
	defer w.Close()

	in, err := forms.CampaignInput{Title: "Test"}.Build()
	require.NoError(t, err)
	created, err := w.CreateCampaign(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignActive, created.Status)

	n := 0
	for _, camp := range w.Campaigns() {
		if camp.Title == "Test" {
			n++
		}
	}
	assert.Equal(t, 1, n)

	require.NoError(t, w.Reload(ctx))
	require.Len(t, w.Campaigns(), 1)
	assert.Equal(t, created.ID, w.Campaigns()[0].ID)
}

func TestPlayerLevel(t *testing.T) {
	f := apitest.Start(t, 0)
	ctx := context.Background()
	c := newClient(t, f, "u1")
	camp, err := c.CreateCampaign(ctx, &model.Campaign{Title: "Barovia"})
	require.NoError(t, err)

	in := forms.PlayerInput{CampaignID: camp.ID, PlayerName: "Ana", CharacterName: "Ireena", Race: "Human", Class: "Cleric", Level: 25}
	p, err := in.Build()
	require.NoError(t, err)
	saved, err := c.CreatePlayer(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 20, saved.Level)

	p.Level = 25
	_, err = c.CreatePlayer(ctx, p)
	assert.ErrorIs(t, err, model.ErrValidation)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.NotEmpty(t, apiErr.Message)

	upd, err := c.UpdatePlayer(ctx, saved.ID, model.PlayerPatch{HP: model.Ptr(31)})
	require.NoError(t, err)
	require.NotNil(t, upd.HP)
	assert.Equal(t, 31, *upd.HP)
	assert.Equal(t, "Ireena", upd.CharacterName)
}

func TestCampaignGetAndOwnership(t *testing.T) {
	f := apitest.Start(t, 0)
	ctx := context.Background()
	owner := newClient(t, f, "u1")
	other := newClient(t, f, "u2")

	camp, err := owner.CreateCampaign(ctx, &model.Campaign{Title: "Strahd"})
	require.NoError(t, err)
	got, err := owner.GetCampaign(ctx, camp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Strahd", got.Title)

	_, err = other.GetCampaign(ctx, camp.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	upd, err := owner.UpdateCampaign(ctx, camp.ID, model.CampaignPatch{Status: model.Ptr(model.CampaignCompleted)})
	require.NoError(t, err)
	assert.Equal(t, model.CampaignCompleted, upd.Status)
	assert.Equal(t, "Strahd", upd.Title)
}

func TestWorkspace_SessionCompletionCascade(t *testing.T) {
	f := apitest.Start(t, 0)
	ctx := context.Background()
	c := newClient(t, f, "u1")
	w, err := workspace.Open(ctx, c, "u1")
	require.NoError(t, err)
	defer w.Close()

	camp, err := w.CreateCampaign(ctx, &model.Campaign{Title: "Phandelver"})
	require.NoError(t, err)
	var ids []string
	for _, title := range []string{"Goblin ambush", "Cragmaw hideout", "Unrelated"} {
		in, err := forms.EncounterInput{CampaignID: camp.ID, Title: title}.Build()
		require.NoError(t, err)
		e, err := w.CreateEncounter(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, model.DifficultyMedium, e.Difficulty)
		ids = append(ids, e.ID)
	}

	sin, err := forms.SessionInput{CampaignID: camp.ID, Title: "Session 1", EncounterIDs: ids[:2]}.Build()
	require.NoError(t, err)
	s, err := w.CreateSession(ctx, sin, nil)
	require.NoError(t, err)

	_, err = w.UpdateSession(ctx, s.ID, model.SessionPatch{Completed: model.Ptr(true)},
		workspace.EncounterNotes{ids[0]: "the goblins fled"})
	require.NoError(t, err)

	remote, err := c.ListEncounters(ctx)
	require.NoError(t, err)
	byID := map[string]*model.Encounter{}
	for _, e := range remote {
		byID[e.ID] = e
	}
	assert.True(t, byID[ids[0]].Completed)
	assert.Equal(t, "the goblins fled", byID[ids[0]].Notes)
	assert.True(t, byID[ids[1]].Completed)
	assert.False(t, byID[ids[2]].Completed)

	local, ok := w.Encounter(ids[0])
	require.True(t, ok)
	assert.True(t, local.Completed)
	assert.Len(t, w.SessionsByCampaign(camp.ID), 1)
}

func TestWorkspace_SessionEncounterIDsMatchServer(t *testing.T) {
	f := apitest.Start(t, 0)
	ctx := context.Background()
	c := newClient(t, f, "u1")
	w, err := workspace.Open(ctx, c, "u1")
	require.NoError(t, err)
	defer w.Close()

	camp, err := w.CreateCampaign(ctx, &model.Campaign{Title: "Mines"})
	require.NoError(t, err)
	e, err := w.CreateEncounter(ctx, &model.Encounter{CampaignID: camp.ID, Title: "Bugbears", Difficulty: model.DifficultyHard})
	require.NoError(t, err)
	s, err := w.CreateSession(ctx, &model.Session{CampaignID: camp.ID, Title: "Session 1"}, nil)
	require.NoError(t, err)

	_, err = w.UpdateSession(ctx, s.ID, model.SessionPatch{EncounterIDs: &[]string{e.ID, e.ID}}, nil)
	require.NoError(t, err)

	remote, err := c.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, remote, 1)
	assert.Equal(t, []string{e.ID}, remote[0].EncounterIDs)
	local := w.SessionsByCampaign(camp.ID)
	require.Len(t, local, 1)
	assert.Equal(t, remote[0].EncounterIDs, local[0].EncounterIDs)
}

func TestMaps_RoundTrip(t *testing.T) {
	f := apitest.Start(t, 0)
	ctx := context.Background()
	c := newClient(t, f, "u1")
	camp, err := c.CreateCampaign(ctx, &model.Campaign{Title: "Ravenloft"})
	require.NoError(t, err)

	data := []byte("\x89PNG fake map bytes")
	m, err := c.UploadMap(ctx, model.MapUpload{
		CampaignID: camp.ID, Title: "Castle", Filename: "castle.png", Body: bytes.NewReader(data),
	})
	require.NoError(t, err)
	assert.Equal(t, "image/png", m.FileType)
	assert.Equal(t, int64(len(data)), m.FileSize)

	maps, err := c.ListMaps(ctx)
	require.NoError(t, err)
	require.Len(t, maps, 1)

	var buf bytes.Buffer
	n, err := c.DownloadMap(ctx, m.ID, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)
	assert.Equal(t, data, buf.Bytes())

	require.NoError(t, c.DeleteMap(ctx, m.ID))
	_, err = c.DownloadMap(ctx, m.ID, &buf)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = c.UploadMap(ctx, model.MapUpload{CampaignID: camp.ID, Title: "x"})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestMaps_TooLarge(t *testing.T) {
	f := apitest.Start(t, 1024)
	ctx := context.Background()
	c := newClient(t, f, "u1")
	camp, err := c.CreateCampaign(ctx, &model.Campaign{Title: "Big"})
	require.NoError(t, err)

	_, err = c.UploadMap(ctx, model.MapUpload{
		CampaignID: camp.ID, Title: "Huge", Filename: "huge.jpg",
		Body: strings.NewReader(strings.Repeat("x", 4096)),
	})
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusRequestEntityTooLarge, apiErr.StatusCode)
}

func TestChatAndHistory(t *testing.T) {
	f := apitest.Start(t, 0)
	f.LLM.Script("The mists part.", nil)
	ctx := context.Background()
	c := newClient(t, f, "u1")
	camp, err := c.CreateCampaign(ctx, &model.Campaign{Title: "Mists"})
	require.NoError(t, err)

	reply, err := c.Chat(ctx, camp.ID, "Describe the gates")
	require.NoError(t, err)
	assert.Equal(t, "The mists part.", reply)

	hist, err := c.ChatHistory(ctx, camp.ID, 10)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, model.RoleUser, hist[0].Role)
	assert.Equal(t, model.RoleAssistant, hist[1].Role)

	_, err = c.Chat(ctx, camp.ID, "   ")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = newClient(t, f, "u2").Chat(ctx, camp.ID, "hi")
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestGenerateVoice(t *testing.T) {
	f := apitest.Start(t, 0)
	ctx := context.Background()
	c := newClient(t, f, "u1")

	audio, err := c.GenerateVoice(ctx, "Welcome, traveler.", "v1")
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3"), audio)

	f.Synth.Script(nil, elevenlabs.ErrRateLimited)
	_, err = c.GenerateVoice(ctx, "again", "v1")
	assert.ErrorIs(t, err, client.ErrRateLimited)

	_, err = c.GenerateVoice(ctx, "", "v1")
	assert.ErrorIs(t, err, model.ErrValidation)
}
