package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Side is the map half a team plays on for a game
type Side string

const (
	SideBlue Side = "BLUE"
	SideRed  Side = "RED"
)

// Sides lists the sides in output order.
var Sides = []Side{SideBlue, SideRed}

// Valid reports whether s is BLUE or RED.
func (s Side) Valid() bool {
	return s == SideBlue || s == SideRed
}

func (s Side) String() string {
	return string(s)
}

// RawMatch is one match document exactly as it came out of the store or an
// export file. Values are JSON-like: map[string]any, []any, string, bool,
// float64, integer types or time.Time.
type RawMatch map[string]any

// MatchID returns the document's match identifier, or "" when it has none.
func (m RawMatch) MatchID() string {
	for _, key := range []string{"matchId", "gameId"} {
		if v, ok := m[key]; ok && v != nil {
			if id, err := coerceString(v); err == nil {
				return id
			}
		}
	}
	return ""
}

// MatchDocument is the typed form of a RawMatch after coercion.
type MatchDocument struct {
	MatchID   string      `validate:"-"`
	Timestamp time.Time   `validate:"required"`
	Teams     []TeamEntry `validate:"len=2,dive"`
}

// TeamEntry is one of the two participants in a match document
type TeamEntry struct {
	RosterID string `validate:"required"`
	Side     Side   `validate:"oneof=BLUE RED"`
	Win      bool
}

// NormalizedGameRecord is one tracked team's perspective of one game.
type NormalizedGameRecord struct {
	TeamName  string    `json:"team_name"`
	Timestamp time.Time `json:"timestamp"`
	Side      Side      `json:"side"`
	Won       bool      `json:"won"`
}

// TrackedTeams maps team names to the roster identifiers that count as that
// team. A roster identifier belongs to exactly one team.
type TrackedTeams struct {
	byRoster map[string]string
	rosters  map[string][]string
}

// NewTrackedTeams validates and indexes a team name -> roster ids mapping.
func NewTrackedTeams(teams map[string][]string) (TrackedTeams, error) {
	t := TrackedTeams{
		byRoster: make(map[string]string),
		rosters:  make(map[string][]string, len(teams)),
	}
	for name, ids := range teams {
		name = strings.TrimSpace(name)
		if name == "" {
			return TrackedTeams{}, fmt.Errorf("tracked teams: empty team name")
		}
		if _, dup := t.rosters[name]; dup {
			return TrackedTeams{}, fmt.Errorf("tracked teams: team %q listed twice", name)
		}
		if len(ids) == 0 {
			return TrackedTeams{}, fmt.Errorf("tracked teams: team %q has no roster ids", name)
		}
		for _, id := range ids {
			id = strings.TrimSpace(id)
			if id == "" {
				return TrackedTeams{}, fmt.Errorf("tracked teams: team %q has an empty roster id", name)
			}
			if owner, dup := t.byRoster[id]; dup {
				return TrackedTeams{}, fmt.Errorf("tracked teams: roster %q mapped to both %q and %q", id, owner, name)
			}
			t.byRoster[id] = name
			t.rosters[name] = append(t.rosters[name], id)
		}
	}
	return t, nil
}

// TeamFor returns the team name a roster id belongs to.
func (t TrackedTeams) TeamFor(rosterID string) (string, bool) {
	name, ok := t.byRoster[rosterID]
	return name, ok
}

// Has reports whether name is a tracked team.
func (t TrackedTeams) Has(name string) bool {
	_, ok := t.rosters[name]
	return ok
}

// Names returns the tracked team names in sorted order.
func (t TrackedTeams) Names() []string {
	names := make([]string, 0, len(t.rosters))
	for name := range t.rosters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rosters returns a copy of the roster ids for a team.
func (t TrackedTeams) Rosters(name string) []string {
	ids := t.rosters[name]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// Len is the number of tracked teams.
func (t TrackedTeams) Len() int {
	return len(t.rosters)
}
