package model

import "time"

// PlayerRecord is the read-only view of a player snapshot. It has no
// lifecycle of its own: it is rebuilt from the current Snapshot on every
// render.
type PlayerRecord struct {
	Name        string
	PowerLevel  int64
	Units       []PlayerUnit
	Items       []InventoryItem
	Scopes      []string
	LastUpdated time.Time
}

// PlayerUnit is one character on the player's roster.
type PlayerUnit struct {
	ID       string
	Name     string
	Faction  string
	Alliance string
	XPLevel  int
	Stars    int
	Rank     int
	Shards   int
}

// InventoryItem is one stack of upgrade material or consumable.
type InventoryItem struct {
	ID    string
	Name  string
	Count int
}
