// Package storetest holds a compliance suite shared by every store.Store driver.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tablekeep/tablekeep/internal/model"
	"github.com/tablekeep/tablekeep/internal/store"
)

// Run exercises the compliance suite against a store.Store implementation.
// makeStore should return a clean, isolated store.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	userID := "u-" + uuid.New().String()
	otherID := "u-" + uuid.New().String()

	// Campaigns
	c, err := s.Campaigns().Create(ctx, &model.Campaign{UserID: userID, Title: "Curse of Strahd", Status: model.CampaignActive, LastSession: "1 Mar 2026"})
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	if c.ID == "" || c.CreatedAt.IsZero() {
		t.Fatalf("CreateCampaign: id=%q created=%v", c.ID, c.CreatedAt)
	}
	if got, err := s.Campaigns().Get(ctx, userID, c.ID); err != nil || got.Title != "Curse of Strahd" || got.Status != model.CampaignActive {
		t.Fatalf("GetCampaign: got=%+v err=%v", got, err)
	}
	if _, err := s.Campaigns().Get(ctx, otherID, c.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetCampaign other owner: want ErrNotFound, got %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	c2, err := s.Campaigns().Create(ctx, &model.Campaign{UserID: userID, Title: "Tomb of Annihilation", Status: model.CampaignPaused})
	if err != nil {
		t.Fatalf("CreateCampaign c2: %v", err)
	}
	if lst, err := s.Campaigns().List(ctx, userID); err != nil || len(lst) != 2 || lst[0].ID != c2.ID {
		t.Fatalf("ListCampaigns newest first: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Campaigns().List(ctx, otherID); err != nil || len(lst) != 0 {
		t.Fatalf("ListCampaigns other owner: n=%d err=%v", len(lst), err)
	}
	upd, err := s.Campaigns().Update(ctx, userID, c.ID, model.CampaignPatch{Status: model.Ptr(model.CampaignCompleted)})
	if err != nil || upd.Status != model.CampaignCompleted || upd.Title != "Curse of Strahd" {
		t.Fatalf("UpdateCampaign sparse: got=%+v err=%v", upd, err)
	}
	if _, err := s.Campaigns().Update(ctx, otherID, c.ID, model.CampaignPatch{Title: model.Ptr("stolen")}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("UpdateCampaign other owner: want ErrNotFound, got %v", err)
	}

	// Players
	p, err := s.Players().Create(ctx, &model.Player{UserID: userID, CampaignID: c.ID, PlayerName: "Ana", CharacterName: "Ireena", Race: "Human", Class: "Cleric", Level: 3, HP: model.Ptr(24)})
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}
	if _, err := s.Players().Create(ctx, &model.Player{UserID: userID, CampaignID: c2.ID, PlayerName: "Bo", CharacterName: "Rex", Level: 1}); err != nil {
		t.Fatalf("CreatePlayer c2: %v", err)
	}
	got, err := s.Players().Get(ctx, userID, p.ID)
	if err != nil || got.HP == nil || *got.HP != 24 || got.AC != nil {
		t.Fatalf("GetPlayer: got=%+v err=%v", got, err)
	}
	if lst, err := s.Players().ListByCampaign(ctx, userID, c.ID); err != nil || len(lst) != 1 || lst[0].ID != p.ID {
		t.Fatalf("ListPlayersByCampaign: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Players().List(ctx, userID); err != nil || len(lst) != 2 {
		t.Fatalf("ListPlayers: n=%d err=%v", len(lst), err)
	}
	pu, err := s.Players().Update(ctx, userID, p.ID, model.PlayerPatch{Level: model.Ptr(4), AC: model.Ptr(16)})
	if err != nil || pu.Level != 4 || pu.AC == nil || *pu.AC != 16 || pu.CharacterName != "Ireena" {
		t.Fatalf("UpdatePlayer: got=%+v err=%v", pu, err)
	}

	// Encounters
	e1, err := s.Encounters().Create(ctx, &model.Encounter{UserID: userID, CampaignID: c.ID, Title: "Wolves", Difficulty: model.DifficultyEasy,
		Enemies: []model.Enemy{{Name: "Dire Wolf", HP: model.Ptr(37)}}})
	if err != nil {
		t.Fatalf("CreateEncounter: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	e2, err := s.Encounters().Create(ctx, &model.Encounter{UserID: userID, CampaignID: c.ID, Title: "Strahd", Difficulty: model.DifficultyDeadly})
	if err != nil {
		t.Fatalf("CreateEncounter e2: %v", err)
	}
	if ge, err := s.Encounters().Get(ctx, userID, e1.ID); err != nil || len(ge.Enemies) != 1 || ge.Enemies[0].Name != "Dire Wolf" {
		t.Fatalf("GetEncounter enemies: got=%+v err=%v", ge, err)
	}
	if ge, err := s.Encounters().Get(ctx, userID, e2.ID); err != nil || ge.Enemies == nil || len(ge.Enemies) != 0 {
		t.Fatalf("GetEncounter empty enemies: got=%+v err=%v", ge, err)
	}
	if lst, err := s.Encounters().ListByCampaign(ctx, userID, c.ID, 1); err != nil || len(lst) != 1 || lst[0].ID != e2.ID {
		t.Fatalf("ListEncountersByCampaign limit: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Encounters().ListByCampaign(ctx, userID, c.ID, 0); err != nil || len(lst) != 2 {
		t.Fatalf("ListEncountersByCampaign: n=%d err=%v", len(lst), err)
	}
	eu, err := s.Encounters().Update(ctx, userID, e1.ID, model.EncounterPatch{Completed: model.Ptr(true), Notes: model.Ptr("fled")})
	if err != nil || !eu.Completed || eu.Notes != "fled" || eu.Title != "Wolves" {
		t.Fatalf("UpdateEncounter: got=%+v err=%v", eu, err)
	}
	if _, err := s.Encounters().Update(ctx, userID, "missing", model.EncounterPatch{Completed: model.Ptr(true)}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("UpdateEncounter missing: want ErrNotFound, got %v", err)
	}

	// Sessions
	date := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)
	ss, err := s.Sessions().Create(ctx, &model.Session{UserID: userID, CampaignID: c.ID, Title: "Session 1", EncounterIDs: []string{e1.ID, e2.ID}, SessionDate: &date})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	gs, err := s.Sessions().Get(ctx, userID, ss.ID)
	if err != nil || len(gs.EncounterIDs) != 2 || gs.SessionDate == nil || !gs.SessionDate.Equal(date) {
		t.Fatalf("GetSession: got=%+v err=%v", gs, err)
	}
	su, err := s.Sessions().Update(ctx, userID, ss.ID, model.SessionPatch{Completed: model.Ptr(true), EncounterIDs: &[]string{e2.ID}})
	if err != nil || !su.Completed || len(su.EncounterIDs) != 1 || su.EncounterIDs[0] != e2.ID {
		t.Fatalf("UpdateSession: got=%+v err=%v", su, err)
	}
	if lst, err := s.Sessions().ListByCampaign(ctx, userID, c.ID); err != nil || len(lst) != 1 {
		t.Fatalf("ListSessionsByCampaign: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Sessions().List(ctx, otherID); err != nil || len(lst) != 0 {
		t.Fatalf("ListSessions other owner: n=%d err=%v", len(lst), err)
	}

	// Maps
	m, err := s.Maps().Create(ctx, &model.CampaignMap{UserID: userID, CampaignID: c.ID, Title: "Barovia", FileURL: "/api/maps/x/file", FileKey: userID + "/1.png", FileType: "image/png", FileSize: 1024})
	if err != nil {
		t.Fatalf("CreateMap: %v", err)
	}
	if gm, err := s.Maps().Get(ctx, userID, m.ID); err != nil || gm.FileKey != userID+"/1.png" || gm.FileSize != 1024 {
		t.Fatalf("GetMap: got=%+v err=%v", gm, err)
	}
	if lst, err := s.Maps().List(ctx, userID); err != nil || len(lst) != 1 {
		t.Fatalf("ListMaps: n=%d err=%v", len(lst), err)
	}
	if err := s.Maps().Delete(ctx, otherID, m.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteMap other owner: want ErrNotFound, got %v", err)
	}
	if err := s.Maps().Delete(ctx, userID, m.ID); err != nil {
		t.Fatalf("DeleteMap: %v", err)
	}
	if _, err := s.Maps().Get(ctx, userID, m.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetMap after delete: want ErrNotFound, got %v", err)
	}

	// Chat messages
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		if _, err := s.ChatMessages().Create(ctx, &model.ChatMessage{UserID: userID, CampaignID: c.ID, Role: role,
			Content: string(rune('a' + i)), CreatedAt: base.Add(time.Duration(i) * time.Second)}); err != nil {
			t.Fatalf("CreateChatMessage %d: %v", i, err)
		}
	}
	recent, err := s.ChatMessages().ListRecent(ctx, userID, c.ID, 3)
	if err != nil || len(recent) != 3 {
		t.Fatalf("ListRecentChat: n=%d err=%v", len(recent), err)
	}
	if recent[0].Content != "c" || recent[2].Content != "e" {
		t.Fatalf("ListRecentChat order: got %q..%q, want c..e", recent[0].Content, recent[2].Content)
	}
	if recent[1].Role != model.RoleAssistant {
		t.Fatalf("ListRecentChat role: got %q", recent[1].Role)
	}
}
