package application

import (
	"math"
	"sort"

	"github.com/ericfisherdev/tacticuspanel/internal/domain/model"
)

// SummarizeDamage computes count/min/max/mean/stddev over one boss's damage
// entries. StdDev is the population standard deviation (sum of squared
// deviations divided by count, not count-1): the entries are the whole roster
// that hit this boss, not a sample.
func SummarizeDamage(entries []int64) (model.BossStats, error) {
	if len(entries) == 0 {
		return model.BossStats{}, model.ErrNoEntries
	}

	stats := model.BossStats{
		Count: len(entries),
		Min:   entries[0],
		Max:   entries[0],
	}

	var sum float64
	for _, d := range entries {
		if d < stats.Min {
			stats.Min = d
		}
		if d > stats.Max {
			stats.Max = d
		}
		sum += float64(d)
	}
	stats.Mean = sum / float64(len(entries))

	var sqDev float64
	for _, d := range entries {
		diff := float64(d) - stats.Mean
		sqDev += diff * diff
	}
	stats.StdDev = math.Sqrt(sqDev / float64(len(entries)))

	return stats, nil
}

// GroupByBoss partitions raid entries per boss encounter and returns the keys
// in a stable display order (set, then tier, then type, then unit).
func GroupByBoss(entries []model.RaidEntry) (map[model.BossKey][]model.RaidEntry, []model.BossKey) {
	groups := make(map[model.BossKey][]model.RaidEntry)
	for _, e := range entries {
		key := model.BossKey{Set: e.Set, Tier: e.Tier, Type: e.Type, UnitID: e.UnitID}
		groups[key] = append(groups[key], e)
	}

	keys := make([]model.BossKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Set != b.Set {
			return a.Set < b.Set
		}
		if a.Tier != b.Tier {
			return a.Tier < b.Tier
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.UnitID < b.UnitID
	})

	return groups, keys
}
