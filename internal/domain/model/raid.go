package model

import (
	"fmt"
	"time"
)

// RaidRecord is the read-only view of a guild raid snapshot: the current
// season plus every per-player damage entry reported by the upstream API.
type RaidRecord struct {
	Season  int
	Entries []RaidEntry
}

// RaidEntry is one player's attack against one raid encounter.
type RaidEntry struct {
	UserID      string
	Set         int
	Tier        int
	Type        string // "Boss" or "SideBoss"
	UnitID      string
	DamageDealt int64
	DamageType  string
	StartedAt   time.Time
	CompletedAt time.Time
}

// BossKey identifies one distinct boss encounter within a raid season.
type BossKey struct {
	Set    int
	Tier   int
	Type   string
	UnitID string
}

// Label renders the key for table headers, e.g. "T3 Set 1 - Boss szarekh".
func (k BossKey) Label() string {
	return fmt.Sprintf("T%d Set %d - %s %s", k.Tier, k.Set, k.Type, k.UnitID)
}

// BossStats holds the derived statistics over one boss's damage entries.
// StdDev is the population standard deviation: the roster that attacked the
// boss is the entire population of interest, not a sample from a larger one.
type BossStats struct {
	Count  int
	Min    int64
	Max    int64
	Mean   float64
	StdDev float64
}
