package web

import (
	"fmt"
	"strconv"
	"time"

	vm "github.com/ericfisherdev/tacticuspanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/tacticuspanel/internal/application"
	"github.com/ericfisherdev/tacticuspanel/internal/domain/model"
)

// toPlayerPage converts a player view into its page viewmodel.
func toPlayerPage(base vm.Page, view *application.PlayerView) vm.PlayerPage {
	page := vm.PlayerPage{
		Page:       base,
		Name:       view.Record.Name,
		PowerLevel: groupDigits(view.Record.PowerLevel),
		Scopes:     view.Record.Scopes,
		Units:      make([]vm.UnitRow, 0, len(view.Record.Units)),
		Items:      make([]vm.ItemRow, 0, len(view.Record.Items)),
		FetchedAt:  formatFetchedAt(view.FetchedAt),
	}
	if !view.Record.LastUpdated.IsZero() {
		page.LastUpdated = formatFetchedAt(view.Record.LastUpdated)
	}

	for _, u := range view.Record.Units {
		page.Units = append(page.Units, vm.UnitRow{
			Name:     u.Name,
			Faction:  u.Faction,
			Alliance: u.Alliance,
			XPLevel:  u.XPLevel,
			Stars:    u.Stars,
			Rank:     u.Rank,
			Shards:   u.Shards,
		})
	}
	for _, item := range view.Record.Items {
		page.Items = append(page.Items, vm.ItemRow{Name: item.Name, Count: item.Count})
	}

	return page
}

// toGuildPage converts a guild view into its page viewmodel.
func toGuildPage(base vm.Page, view *application.GuildView) vm.GuildPage {
	page := vm.GuildPage{
		Page:        base,
		Name:        view.Record.Name,
		Tag:         view.Record.Tag,
		Level:       view.Record.Level,
		MemberCount: len(view.Record.Members),
		Members:     make([]vm.MemberRow, 0, len(view.Record.Members)),
		FetchedAt:   formatFetchedAt(view.FetchedAt),
	}

	for _, m := range view.Record.Members {
		row := vm.MemberRow{UserID: m.UserID, Role: m.Role, Level: m.Level}
		if !m.LastActivityAt.IsZero() {
			row.LastActivity = formatFetchedAt(m.LastActivityAt)
		}
		page.Members = append(page.Members, row)
	}

	return page
}

// toRaidPage converts a raid view into its page viewmodel.
func toRaidPage(base vm.Page, view *application.RaidView) vm.RaidPage {
	page := vm.RaidPage{
		Page:      base,
		Season:    view.Season,
		Bosses:    make([]vm.BossTable, 0, len(view.Bosses)),
		FetchedAt: formatFetchedAt(view.FetchedAt),
	}

	for _, boss := range view.Bosses {
		table := vm.BossTable{
			Label:   boss.Key.Label(),
			Entries: make([]vm.EntryRow, 0, len(boss.Entries)),
		}
		if boss.Stats != nil {
			table.Stats = &vm.StatsRow{
				Count:  boss.Stats.Count,
				Min:    groupDigits(boss.Stats.Min),
				Max:    groupDigits(boss.Stats.Max),
				Mean:   groupDigits(int64(boss.Stats.Mean + 0.5)),
				StdDev: groupDigits(int64(boss.Stats.StdDev + 0.5)),
			}
		}

		for _, e := range boss.Entries {
			row := vm.EntryRow{
				UserID:     e.UserID,
				Damage:     groupDigits(e.DamageDealt),
				DamageSort: e.DamageDealt,
				TierClass:  damageTier(e.DamageDealt, boss.Stats),
				DamageType: e.DamageType,
			}
			if !e.CompletedAt.IsZero() {
				row.CompletedAt = formatFetchedAt(e.CompletedAt)
			}
			table.Entries = append(table.Entries, row)
		}

		page.Bosses = append(page.Bosses, table)
	}

	return page
}

// damageTier color-codes a damage value against the boss statistics: more
// than one standard deviation above the mean is "tier-high", more than one
// below is "tier-low", everything else "tier-mid".
func damageTier(damage int64, stats *model.BossStats) string {
	if stats == nil {
		return ""
	}
	d := float64(damage)
	switch {
	case d >= stats.Mean+stats.StdDev:
		return "tier-high"
	case d <= stats.Mean-stats.StdDev:
		return "tier-low"
	default:
		return "tier-mid"
	}
}

// groupDigits formats n with thousands separators, e.g. 1234567 -> "1,234,567".
func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}

	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}

	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// formatFetchedAt renders a timestamp for display.
func formatFetchedAt(t time.Time) string {
	return fmt.Sprintf("%s UTC", t.UTC().Format("2006-01-02 15:04:05"))
}
