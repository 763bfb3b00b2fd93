package model

import "time"

// GuildRecord is the read-only view of a guild snapshot.
type GuildRecord struct {
	ID      string
	Name    string
	Tag     string
	Level   int
	Members []GuildMember
}

// GuildMember is one roster entry in a guild.
type GuildMember struct {
	UserID         string
	Role           string
	Level          int
	LastActivityAt time.Time
}
