// Package viewmodel holds the render-ready structures passed to the HTML
// templates. Everything is pre-formatted strings and CSS class names; the
// templates contain no logic beyond ranging.
package viewmodel

// Flash is a one-shot notice shown at the top of a page.
// Kind is one of "success", "error", "info".
type Flash struct {
	Kind    string
	Message string
}

// Page carries the fields every page shares. HasData is false when a fetch
// failed and the page renders only its notice.
type Page struct {
	Title     string
	Active    string // nav highlight: "home", "player", "guild", "raid"
	Connected bool
	HasData   bool
	Flash     *Flash
	CSRFToken string
}

// IndexPage is the connect/landing page.
type IndexPage struct {
	Page
}

// PlayerPage shows the player profile, roster, and inventory.
type PlayerPage struct {
	Page
	Name        string
	PowerLevel  string
	Scopes      []string
	Units       []UnitRow
	Items       []ItemRow
	LastUpdated string
	FetchedAt   string
}

// UnitRow is one roster character table row.
type UnitRow struct {
	Name     string
	Faction  string
	Alliance string
	XPLevel  int
	Stars    int
	Rank     int
	Shards   int
}

// ItemRow is one inventory table row.
type ItemRow struct {
	Name  string
	Count int
}

// GuildPage shows guild info and the member table.
type GuildPage struct {
	Page
	Name        string
	Tag         string
	Level       int
	MemberCount int
	Members     []MemberRow
	FetchedAt   string
}

// MemberRow is one guild member table row.
type MemberRow struct {
	UserID       string
	Role         string
	Level        int
	LastActivity string
}

// RaidPage shows the raid season grouped per boss.
type RaidPage struct {
	Page
	Season    int
	Bosses    []BossTable
	FetchedAt string
}

// BossTable is one boss encounter: a statistics row plus per-player entries.
// Stats is nil when the boss has no entries.
type BossTable struct {
	Label   string
	Stats   *StatsRow
	Entries []EntryRow
}

// StatsRow is the derived statistics line above a boss table.
type StatsRow struct {
	Count  int
	Min    string
	Max    string
	Mean   string
	StdDev string
}

// EntryRow is one player's damage entry. DamageSort carries the raw value
// for the client-side column sorter; TierClass color-codes the row relative
// to the boss mean.
type EntryRow struct {
	UserID      string
	Damage      string
	DamageSort  int64
	TierClass   string
	DamageType  string
	CompletedAt string
}
