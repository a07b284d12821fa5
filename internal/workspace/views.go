package workspace

import "github.com/tablekeep/tablekeep/internal/model"

// Kind names a collection.
type Kind string

const (
	KindCampaigns  Kind = "campaigns"
	KindPlayers    Kind = "players"
	KindEncounters Kind = "encounters"
	KindSessions   Kind = "sessions"
	KindMaps       Kind = "maps"
)

// filterByCampaign is a linear scan returning copies of the items in
// campaignID, in collection order.
func filterByCampaign[T any, P interface {
	*T
	model.CampaignScoped
}](items []*T, campaignID string) []T {
	out := []T{}
	for _, it := range items {
		if P(it).GetCampaignID() == campaignID {
			out = append(out, *it)
		}
	}
	return out
}

func (w *Workspace) PlayersByCampaign(campaignID string) []model.Player {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return filterByCampaign(w.players, campaignID)
}

func (w *Workspace) EncountersByCampaign(campaignID string) []model.Encounter {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return filterByCampaign(w.encounters, campaignID)
}

func (w *Workspace) SessionsByCampaign(campaignID string) []model.Session {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return filterByCampaign(w.sessions, campaignID)
}

func (w *Workspace) MapsByCampaign(campaignID string) []model.CampaignMap {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return filterByCampaign(w.maps, campaignID)
}

// ByCampaign is the untyped form of the per-kind filters. Campaigns are not
// campaign-scoped and yield nil, as does an unknown kind.
func (w *Workspace) ByCampaign(kind Kind, campaignID string) []model.CampaignScoped {
	var out []model.CampaignScoped
	switch kind {
	case KindPlayers:
		for _, p := range w.PlayersByCampaign(campaignID) {
			out = append(out, p)
		}
	case KindEncounters:
		for _, e := range w.EncountersByCampaign(campaignID) {
			out = append(out, e)
		}
	case KindSessions:
		for _, s := range w.SessionsByCampaign(campaignID) {
			out = append(out, s)
		}
	case KindMaps:
		for _, m := range w.MapsByCampaign(campaignID) {
			out = append(out, m)
		}
	default:
		return nil
	}
	if out == nil {
		out = []model.CampaignScoped{}
	}
	return out
}
