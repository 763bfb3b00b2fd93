package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ericfisherdev/tacticuspanel/internal/application"
	"github.com/ericfisherdev/tacticuspanel/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// PlayerResponse is the JSON representation of the player view.
type PlayerResponse struct {
	Name        string              `json:"name"`
	PowerLevel  int64               `json:"power_level"`
	Units       []UnitResponse      `json:"units"`
	Items       []InventoryResponse `json:"items"`
	Scopes      []string            `json:"scopes"`
	LastUpdated string              `json:"last_updated,omitempty"`
	FetchedAt   string              `json:"fetched_at"`
}

// UnitResponse is one roster character.
type UnitResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Faction  string `json:"faction"`
	Alliance string `json:"alliance"`
	XPLevel  int    `json:"xp_level"`
	Stars    int    `json:"stars"`
	Rank     int    `json:"rank"`
	Shards   int    `json:"shards"`
}

// InventoryResponse is one inventory stack.
type InventoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// GuildResponse is the JSON representation of the guild view.
type GuildResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Tag       string           `json:"tag"`
	Level     int              `json:"level"`
	Members   []MemberResponse `json:"members"`
	FetchedAt string           `json:"fetched_at"`
}

// MemberResponse is one guild roster entry.
type MemberResponse struct {
	UserID       string `json:"user_id"`
	Role         string `json:"role"`
	Level        int    `json:"level"`
	LastActivity string `json:"last_activity,omitempty"`
}

// RaidResponse is the JSON representation of the guild raid view.
type RaidResponse struct {
	Season    int            `json:"season"`
	Bosses    []BossResponse `json:"bosses"`
	FetchedAt string         `json:"fetched_at"`
}

// BossResponse is one boss encounter with entries and derived statistics.
type BossResponse struct {
	Set     int                 `json:"set"`
	Tier    int                 `json:"tier"`
	Type    string              `json:"type"`
	UnitID  string              `json:"unit_id"`
	Label   string              `json:"label"`
	Entries []RaidEntryResponse `json:"entries"`
	Stats   *BossStatsResponse  `json:"stats,omitempty"`
}

// RaidEntryResponse is one player's attack against a boss.
type RaidEntryResponse struct {
	UserID      string `json:"user_id"`
	DamageDealt int64  `json:"damage_dealt"`
	DamageType  string `json:"damage_type"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// BossStatsResponse carries count/min/max/mean/stddev for one boss.
type BossStatsResponse struct {
	Count  int     `json:"count"`
	Min    int64   `json:"min"`
	Max    int64   `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toPlayerResponse converts a player view to its JSON representation.
func toPlayerResponse(view *application.PlayerView) PlayerResponse {
	units := make([]UnitResponse, 0, len(view.Record.Units))
	for _, u := range view.Record.Units {
		units = append(units, UnitResponse{
			ID:       u.ID,
			Name:     u.Name,
			Faction:  u.Faction,
			Alliance: u.Alliance,
			XPLevel:  u.XPLevel,
			Stars:    u.Stars,
			Rank:     u.Rank,
			Shards:   u.Shards,
		})
	}

	items := make([]InventoryResponse, 0, len(view.Record.Items))
	for _, item := range view.Record.Items {
		items = append(items, InventoryResponse{ID: item.ID, Name: item.Name, Count: item.Count})
	}

	scopes := view.Record.Scopes
	if scopes == nil {
		scopes = []string{}
	}

	resp := PlayerResponse{
		Name:       view.Record.Name,
		PowerLevel: view.Record.PowerLevel,
		Units:      units,
		Items:      items,
		Scopes:     scopes,
		FetchedAt:  view.FetchedAt.UTC().Format(time.RFC3339),
	}
	if !view.Record.LastUpdated.IsZero() {
		resp.LastUpdated = view.Record.LastUpdated.UTC().Format(time.RFC3339)
	}
	return resp
}

// toGuildResponse converts a guild view to its JSON representation.
func toGuildResponse(view *application.GuildView) GuildResponse {
	members := make([]MemberResponse, 0, len(view.Record.Members))
	for _, m := range view.Record.Members {
		member := MemberResponse{UserID: m.UserID, Role: m.Role, Level: m.Level}
		if !m.LastActivityAt.IsZero() {
			member.LastActivity = m.LastActivityAt.UTC().Format(time.RFC3339)
		}
		members = append(members, member)
	}

	return GuildResponse{
		ID:        view.Record.ID,
		Name:      view.Record.Name,
		Tag:       view.Record.Tag,
		Level:     view.Record.Level,
		Members:   members,
		FetchedAt: view.FetchedAt.UTC().Format(time.RFC3339),
	}
}

// toRaidResponse converts a raid view to its JSON representation.
func toRaidResponse(view *application.RaidView) RaidResponse {
	bosses := make([]BossResponse, 0, len(view.Bosses))
	for _, boss := range view.Bosses {
		entries := make([]RaidEntryResponse, 0, len(boss.Entries))
		for _, e := range boss.Entries {
			entry := RaidEntryResponse{
				UserID:      e.UserID,
				DamageDealt: e.DamageDealt,
				DamageType:  e.DamageType,
			}
			if !e.CompletedAt.IsZero() {
				entry.CompletedAt = e.CompletedAt.UTC().Format(time.RFC3339)
			}
			entries = append(entries, entry)
		}

		br := BossResponse{
			Set:     boss.Key.Set,
			Tier:    boss.Key.Tier,
			Type:    boss.Key.Type,
			UnitID:  boss.Key.UnitID,
			Label:   boss.Key.Label(),
			Entries: entries,
		}
		if boss.Stats != nil {
			br.Stats = &BossStatsResponse{
				Count:  boss.Stats.Count,
				Min:    boss.Stats.Min,
				Max:    boss.Stats.Max,
				Mean:   boss.Stats.Mean,
				StdDev: boss.Stats.StdDev,
			}
		}
		bosses = append(bosses, br)
	}

	return RaidResponse{
		Season:    view.Season,
		Bosses:    bosses,
		FetchedAt: view.FetchedAt.UTC().Format(time.RFC3339),
	}
}

// statusForError maps the fetch error taxonomy onto HTTP status codes.
func statusForError(err error) (int, string) {
	var scopeErr *model.ScopeError
	var unavailable *model.UnavailableError

	switch {
	case errors.Is(err, model.ErrAuthInvalid):
		return http.StatusUnauthorized, "invalid API key"
	case errors.As(err, &scopeErr):
		return http.StatusForbidden, "this endpoint requires the " + scopeErr.Endpoint.ScopeName() + " scope"
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "not found upstream"
	case errors.As(err, &unavailable):
		return http.StatusBadGateway, "upstream unavailable, retry manually"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
