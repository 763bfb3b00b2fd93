package model

import "fmt"

// Endpoint identifies one of the three fixed Tacticus API resources the panel
// can fetch. The string value doubles as the URL path segment under the API base.
type Endpoint string

const (
	EndpointPlayer    Endpoint = "player"
	EndpointGuild     Endpoint = "guild"
	EndpointGuildRaid Endpoint = "guildRaid"
)

// Endpoints lists every valid endpoint in display order.
var Endpoints = []Endpoint{EndpointPlayer, EndpointGuild, EndpointGuildRaid}

// ParseEndpoint validates a raw string against the fixed endpoint set.
func ParseEndpoint(s string) (Endpoint, error) {
	switch Endpoint(s) {
	case EndpointPlayer, EndpointGuild, EndpointGuildRaid:
		return Endpoint(s), nil
	}
	return "", fmt.Errorf("unknown endpoint %q", s)
}

// RequiresScope returns true for endpoints gated behind an extra API key
// scope. The player endpoint is available to every key; guild and guildRaid
// need the Guild and Guild Raid scopes respectively.
func (e Endpoint) RequiresScope() bool {
	return e == EndpointGuild || e == EndpointGuildRaid
}

// ScopeName returns the human-readable name of the scope the endpoint needs.
func (e Endpoint) ScopeName() string {
	switch e {
	case EndpointGuild:
		return "Guild"
	case EndpointGuildRaid:
		return "Guild Raid"
	default:
		return "Player"
	}
}
