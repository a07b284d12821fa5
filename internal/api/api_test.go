package api_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablekeep/tablekeep/internal/api/apitest"
	"github.com/tablekeep/tablekeep/internal/auth"
	"github.com/tablekeep/tablekeep/internal/llm"
	"github.com/tablekeep/tablekeep/internal/model"
	"github.com/tablekeep/tablekeep/internal/tts/elevenlabs"
)

type caller struct {
	t     *testing.T
	base  string
	token string
}

func (c caller) do(method, path string, body interface{}) (*http.Response, []byte) {
	c.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, rd)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, out
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(b, &v), string(b))
	return v
}

func newCaller(t *testing.T, f *apitest.Fixture, userID string) caller {
	return caller{t: t, base: f.Server.URL, token: f.Token(t, userID)}
}

func createCampaign(t *testing.T, c caller, title string) model.Campaign {
	t.Helper()
	resp, body := c.do("POST", "/api/campaigns", map[string]string{"title": title})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	return decode[model.Campaign](t, body)
}

func TestHealth_NoAuth(t *testing.T) {
	f := apitest.Start(t, 0)
	resp, body := caller{t: t, base: f.Server.URL}.do("GET", "/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status"`)
}

func TestAuthRequired(t *testing.T) {
	f := apitest.Start(t, 0)
	anon := caller{t: t, base: f.Server.URL}

	resp, _ := anon.do("GET", "/api/campaigns", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = anon.do("POST", "/functions/v1/dm-assistant-chat", map[string]string{"message": "hi", "campaignId": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	bad := caller{t: t, base: f.Server.URL, token: "not-a-jwt"}
	resp, _ = bad.do("GET", "/api/campaigns", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	dev := caller{t: t, base: f.Server.URL, token: auth.LocalDevAPIKey}
	resp, _ = dev.do("GET", "/api/campaigns", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPreflight(t *testing.T) {
	f := apitest.Start(t, 0)
	req, err := http.NewRequest(http.MethodOptions, f.Server.URL+"/functions/v1/dm-assistant-chat", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "authorization, x-client-info, apikey, content-type", resp.Header.Get("Access-Control-Allow-Headers"))
}

func TestCampaigns_CreateListUpdate(t *testing.T) {
	f := apitest.Start(t, 0)
	c := newCaller(t, f, "u1")

	created := createCampaign(t, c, "Test")
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.CampaignActive, created.Status)
	assert.NotEmpty(t, created.LastSession)

	resp, body := c.do("GET", "/api/campaigns", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[struct {
		Campaigns []model.Campaign `json:"campaigns"`
		Count     int              `json:"count"`
	}](t, body)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "Test", list.Campaigns[0].Title)

	resp, body = c.do("PATCH", "/api/campaigns/"+created.ID, map[string]string{"status": "paused"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	updated := decode[model.Campaign](t, body)
	assert.Equal(t, model.CampaignPaused, updated.Status)
	assert.Equal(t, "Test", updated.Title)

	resp, _ = c.do("PATCH", "/api/campaigns/"+created.ID, map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = c.do("POST", "/api/campaigns", map[string]string{"title": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = c.do("GET", "/api/campaigns/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCampaigns_OwnerIsolation(t *testing.T) {
	f := apitest.Start(t, 0)
	owner := newCaller(t, f, "owner")
	other := newCaller(t, f, "other")
	camp := createCampaign(t, owner, "Private")

	resp, _ := other.do("GET", "/api/campaigns/"+camp.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = other.do("POST", "/api/players", map[string]interface{}{
		"campaignId": camp.ID, "playerName": "Eve", "characterName": "Spy", "race": "Elf", "class": "Rogue",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := other.do("GET", "/api/campaigns", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"count":0`)
}

func TestPlayers_LevelBoundsAndFilter(t *testing.T) {
	f := apitest.Start(t, 0)
	c := newCaller(t, f, "u1")
	camp := createCampaign(t, c, "Test")
	other := createCampaign(t, c, "Other")

	player := map[string]interface{}{
		"campaignId": camp.ID, "playerName": "Ana", "characterName": "Ireena", "race": "Human", "class": "Cleric", "level": 25,
	}
	resp, _ := c.do("POST", "/api/players", player)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	player["level"] = 20
	resp, body := c.do("POST", "/api/players", player)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	p := decode[model.Player](t, body)
	assert.Equal(t, 20, p.Level)

	player["campaignId"] = other.ID
	resp, _ = c.do("POST", "/api/players", player)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = c.do("GET", "/api/players?campaignId="+camp.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"count":1`)

	resp, body = c.do("PATCH", "/api/players/"+p.ID, map[string]interface{}{"hp": 31})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	p = decode[model.Player](t, body)
	require.NotNil(t, p.HP)
	assert.Equal(t, 31, *p.HP)
	assert.Equal(t, 20, p.Level)
}

func TestEncountersAndSessions(t *testing.T) {
	f := apitest.Start(t, 0)
	c := newCaller(t, f, "u1")
	camp := createCampaign(t, c, "Test")

	resp, body := c.do("POST", "/api/encounters", map[string]interface{}{
		"campaignId": camp.ID, "title": "Goblin ambush",
		"enemies": []map[string]interface{}{{"name": "Goblin", "hp": 7}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	enc := decode[model.Encounter](t, body)
	assert.Equal(t, model.DifficultyMedium, enc.Difficulty)
	require.Len(t, enc.Enemies, 1)

	resp, _ = c.do("POST", "/api/encounters", map[string]interface{}{"campaignId": camp.ID, "title": "x", "difficulty": "trivial"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = c.do("POST", "/api/sessions", map[string]interface{}{
		"campaignId": camp.ID, "title": "Session 1", "encounterIds": []string{enc.ID, enc.ID},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	sess := decode[model.Session](t, body)
	assert.Equal(t, []string{enc.ID}, sess.EncounterIDs)

	resp, body = c.do("PATCH", "/api/sessions/"+sess.ID, map[string]interface{}{"completed": true})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.True(t, decode[model.Session](t, body).Completed)

	resp, body = c.do("PATCH", "/api/encounters/"+enc.ID, map[string]interface{}{"completed": true, "notes": "won"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	enc = decode[model.Encounter](t, body)
	assert.True(t, enc.Completed)
	assert.Equal(t, "won", enc.Notes)
	assert.Equal(t, "Goblin ambush", enc.Title)

	resp, _ = c.do("PATCH", "/api/encounters/"+enc.ID, "{")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func uploadMap(t *testing.T, f *apitest.Fixture, token, campaignID string, data []byte) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Castle Ravenloft"))
	require.NoError(t, mw.WriteField("description", "Level 1"))
	fw, err := mw.CreateFormFile("file", "ravenloft.PNG")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest("POST", f.Server.URL+"/api/campaigns/"+campaignID+"/maps", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestMaps_UploadDownloadDelete(t *testing.T) {
	f := apitest.Start(t, 0)
	c := newCaller(t, f, "u1")
	camp := createCampaign(t, c, "Test")
	data := []byte("\x89PNG fake image bytes")

	resp, body := uploadMap(t, f, c.token, camp.ID, data)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	m := decode[model.CampaignMap](t, body)
	assert.Equal(t, int64(len(data)), m.FileSize)
	assert.True(t, strings.HasPrefix(m.FileKey, "u1/"))
	assert.True(t, strings.HasSuffix(m.FileKey, ".png"))
	assert.Equal(t, "/api/maps/"+m.ID+"/file", m.FileURL)

	resp, body = c.do("GET", "/api/maps/"+m.ID+"/file", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, data, body)

	resp, _ = newCaller(t, f, "intruder").do("GET", "/api/maps/"+m.ID+"/file", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = c.do("DELETE", "/api/maps/"+m.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = c.do("GET", "/api/maps", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"count":0`)

	resp, _ = c.do("DELETE", "/api/maps/"+m.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMaps_UploadTooLarge(t *testing.T) {
	f := apitest.Start(t, 1024)
	c := newCaller(t, f, "u1")
	camp := createCampaign(t, c, "Test")

	resp, _ := uploadMap(t, f, c.token, camp.ID, bytes.Repeat([]byte("x"), 4096))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestChat(t *testing.T) {
	f := apitest.Start(t, 0)
	c := newCaller(t, f, "u1")
	camp := createCampaign(t, c, "Curse of Strahd")
	f.LLM.Script("Try a vampire spawn.", nil)

	resp, body := c.do("POST", "/functions/v1/dm-assistant-chat", map[string]string{"message": "Ideas?", "campaignId": camp.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "Try a vampire spawn.", decode[map[string]string](t, body)["response"])
	assert.Contains(t, f.LLM.LastRequest().System, "Curse of Strahd")

	resp, body = c.do("GET", "/api/campaigns/"+camp.ID+"/chat", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	hist := decode[struct {
		Messages []model.ChatMessage `json:"messages"`
	}](t, body)
	require.Len(t, hist.Messages, 2)
	assert.Equal(t, model.RoleUser, hist.Messages[0].Role)
	assert.Equal(t, model.RoleAssistant, hist.Messages[1].Role)
}

func TestChat_Errors(t *testing.T) {
	f := apitest.Start(t, 0)
	c := newCaller(t, f, "u1")
	camp := createCampaign(t, c, "Test")

	resp, body := c.do("POST", "/functions/v1/dm-assistant-chat", map[string]string{"message": "hi"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "message and campaignId are required")

	resp, body = newCaller(t, f, "other").do("POST", "/functions/v1/dm-assistant-chat", map[string]string{"message": "hi", "campaignId": camp.ID})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, string(body), "campaign not found or access denied")

	f.LLM.Script("", errors.New("upstream 503"))
	resp, _ = c.do("POST", "/functions/v1/dm-assistant-chat", map[string]string{"message": "hi", "campaignId": camp.ID})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	f.LLM.Script("", llm.ErrNotConfigured)
	resp, _ = c.do("POST", "/functions/v1/dm-assistant-chat", map[string]string{"message": "hi", "campaignId": camp.ID})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestVoice(t *testing.T) {
	f := apitest.Start(t, 0)
	c := newCaller(t, f, "u1")

	resp, body := c.do("POST", "/functions/v1/generate-npc-voice", map[string]string{"text": "Hail", "voiceId": "v1"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	audio, err := base64.StdEncoding.DecodeString(decode[map[string]string](t, body)["audio"])
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3"), audio)

	resp, _ = c.do("POST", "/functions/v1/generate-npc-voice", map[string]string{"text": "Hail"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	f.Synth.Script(nil, elevenlabs.ErrRateLimited)
	resp, _ = c.do("POST", "/functions/v1/generate-npc-voice", map[string]string{"text": "Hail", "voiceId": "v1"})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	f.Synth.Script(nil, &elevenlabs.StatusError{Code: http.StatusUnauthorized})
	resp, _ = c.do("POST", "/functions/v1/generate-npc-voice", map[string]string{"text": "Hail", "voiceId": "v1"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
