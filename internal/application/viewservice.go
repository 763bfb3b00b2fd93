package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ericfisherdev/tacticuspanel/internal/domain/model"
)

// PlayerView is a decoded player snapshot plus its fetch timestamp.
type PlayerView struct {
	Record    model.PlayerRecord
	FetchedAt time.Time
}

// GuildView is a decoded guild snapshot plus its fetch timestamp.
type GuildView struct {
	Record    model.GuildRecord
	FetchedAt time.Time
}

// BossView couples one boss's entries with their derived statistics.
// Stats is nil when the boss has no entries to aggregate.
type BossView struct {
	Key     model.BossKey
	Entries []model.RaidEntry
	Stats   *model.BossStats
}

// RaidView is a decoded guild raid snapshot: season, per-boss groupings with
// statistics, and the fetch timestamp.
type RaidView struct {
	Season    int
	Bosses    []BossView
	FetchedAt time.Time
}

// ViewService turns raw cached payloads into the typed, render-ready views
// the driving adapters consume. Views have no independent lifecycle; they are
// recomputed from the current snapshot on every call.
type ViewService struct {
	snapshots *SnapshotService
}

// NewViewService creates a ViewService on top of the given SnapshotService.
func NewViewService(snapshots *SnapshotService) *ViewService {
	return &ViewService{snapshots: snapshots}
}

// --- upstream payload shapes ---

type playerPayload struct {
	Player struct {
		Details struct {
			Name       string `json:"name"`
			PowerLevel int64  `json:"powerLevel"`
		} `json:"details"`
		Units []struct {
			ID            string `json:"id"`
			Name          string `json:"name"`
			Faction       string `json:"faction"`
			GrandAlliance string `json:"grandAlliance"`
			XPLevel       int    `json:"xpLevel"`
			Stars         int    `json:"stars"`
			Rank          int    `json:"rank"`
			Shards        int    `json:"shards"`
		} `json:"units"`
		Inventory struct {
			Upgrades []struct {
				ID     string `json:"id"`
				Name   string `json:"name"`
				Amount int    `json:"amount"`
			} `json:"upgrades"`
		} `json:"inventory"`
	} `json:"player"`
	MetaData struct {
		Scopes        []string `json:"scopes"`
		LastUpdatedOn int64    `json:"lastUpdatedOn"`
	} `json:"metaData"`
}

type guildPayload struct {
	Guild struct {
		GuildID string `json:"guildId"`
		Name    string `json:"name"`
		Tag     string `json:"guildTag"`
		Level   int    `json:"level"`
		Members []struct {
			UserID         string `json:"userId"`
			Role           string `json:"role"`
			Level          int    `json:"level"`
			LastActivityOn int64  `json:"lastActivityOn"`
		} `json:"members"`
	} `json:"guild"`
}

type raidPayload struct {
	Season  int `json:"season"`
	Entries []struct {
		UserID        string `json:"userId"`
		Set           int    `json:"set"`
		Tier          int    `json:"tier"`
		EncounterType string `json:"encounterType"`
		UnitID        string `json:"unitId"`
		DamageDealt   int64  `json:"damageDealt"`
		DamageType    string `json:"damageType"`
		StartedOn     int64  `json:"startedOn"`
		CompletedOn   int64  `json:"completedOn"`
	} `json:"entries"`
}

// Player returns the decoded player view for the given key.
func (s *ViewService) Player(ctx context.Context, apiKey string, forceRefresh bool) (*PlayerView, error) {
	snap, err := s.snapshots.Get(ctx, model.EndpointPlayer, apiKey, forceRefresh)
	if err != nil {
		return nil, err
	}

	var payload playerPayload
	if err := json.Unmarshal(snap.Payload, &payload); err != nil {
		return nil, fmt.Errorf("decode player payload: %w", err)
	}

	record := model.PlayerRecord{
		Name:       payload.Player.Details.Name,
		PowerLevel: payload.Player.Details.PowerLevel,
		Units:      make([]model.PlayerUnit, 0, len(payload.Player.Units)),
		Items:      make([]model.InventoryItem, 0, len(payload.Player.Inventory.Upgrades)),
		Scopes:     payload.MetaData.Scopes,
	}
	if payload.MetaData.LastUpdatedOn > 0 {
		record.LastUpdated = time.Unix(payload.MetaData.LastUpdatedOn, 0).UTC()
	}

	for _, u := range payload.Player.Units {
		name := u.Name
		if name == "" {
			name = u.ID
		}
		record.Units = append(record.Units, model.PlayerUnit{
			ID:       u.ID,
			Name:     name,
			Faction:  u.Faction,
			Alliance: u.GrandAlliance,
			XPLevel:  u.XPLevel,
			Stars:    u.Stars,
			Rank:     u.Rank,
			Shards:   u.Shards,
		})
	}

	for _, item := range payload.Player.Inventory.Upgrades {
		name := item.Name
		if name == "" {
			name = item.ID
		}
		record.Items = append(record.Items, model.InventoryItem{
			ID:    item.ID,
			Name:  name,
			Count: item.Amount,
		})
	}

	return &PlayerView{Record: record, FetchedAt: snap.FetchedAt}, nil
}

// Guild returns the decoded guild view for the given key.
func (s *ViewService) Guild(ctx context.Context, apiKey string, forceRefresh bool) (*GuildView, error) {
	snap, err := s.snapshots.Get(ctx, model.EndpointGuild, apiKey, forceRefresh)
	if err != nil {
		return nil, err
	}

	var payload guildPayload
	if err := json.Unmarshal(snap.Payload, &payload); err != nil {
		return nil, fmt.Errorf("decode guild payload: %w", err)
	}

	record := model.GuildRecord{
		ID:      payload.Guild.GuildID,
		Name:    payload.Guild.Name,
		Tag:     payload.Guild.Tag,
		Level:   payload.Guild.Level,
		Members: make([]model.GuildMember, 0, len(payload.Guild.Members)),
	}

	for _, m := range payload.Guild.Members {
		member := model.GuildMember{
			UserID: m.UserID,
			Role:   m.Role,
			Level:  m.Level,
		}
		if m.LastActivityOn > 0 {
			member.LastActivityAt = time.Unix(m.LastActivityOn, 0).UTC()
		}
		record.Members = append(record.Members, member)
	}

	return &GuildView{Record: record, FetchedAt: snap.FetchedAt}, nil
}

// Raid returns the decoded guild raid view, with entries grouped per boss
// and statistics attached. Bosses with no usable entries carry nil Stats.
func (s *ViewService) Raid(ctx context.Context, apiKey string, forceRefresh bool) (*RaidView, error) {
	snap, err := s.snapshots.Get(ctx, model.EndpointGuildRaid, apiKey, forceRefresh)
	if err != nil {
		return nil, err
	}

	var payload raidPayload
	if err := json.Unmarshal(snap.Payload, &payload); err != nil {
		return nil, fmt.Errorf("decode guild raid payload: %w", err)
	}

	entries := make([]model.RaidEntry, 0, len(payload.Entries))
	for _, e := range payload.Entries {
		entry := model.RaidEntry{
			UserID:      e.UserID,
			Set:         e.Set,
			Tier:        e.Tier,
			Type:        e.EncounterType,
			UnitID:      e.UnitID,
			DamageDealt: e.DamageDealt,
			DamageType:  e.DamageType,
		}
		if e.StartedOn > 0 {
			entry.StartedAt = time.Unix(e.StartedOn, 0).UTC()
		}
		if e.CompletedOn > 0 {
			entry.CompletedAt = time.Unix(e.CompletedOn, 0).UTC()
		}
		entries = append(entries, entry)
	}

	groups, keys := GroupByBoss(entries)

	view := &RaidView{
		Season:    payload.Season,
		Bosses:    make([]BossView, 0, len(keys)),
		FetchedAt: snap.FetchedAt,
	}

	for _, key := range keys {
		bossEntries := groups[key]
		damage := make([]int64, 0, len(bossEntries))
		for _, e := range bossEntries {
			damage = append(damage, e.DamageDealt)
		}

		boss := BossView{Key: key, Entries: bossEntries}
		if stats, err := SummarizeDamage(damage); err == nil {
			boss.Stats = &stats
		}
		view.Bosses = append(view.Bosses, boss)
	}

	return view, nil
}
