// Package catalog models the competition schedule: the event, its phases,
// matches, alliances and teams.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Alliance is one side of a match
type Alliance string

const (
	Red  Alliance = "red"
	Blue Alliance = "blue"
)

// Alliances lists both sides in display order.
var Alliances = []Alliance{Red, Blue}

// Opponent returns the other alliance.
func (a Alliance) Opponent() Alliance {
	if a == Red {
		return Blue
	}
	return Red
}

// PhaseKind identifies a stage of the tournament
type PhaseKind string

const (
	Qualification PhaseKind = "qualification"
	Semifinal     PhaseKind = "semifinal"
	Final         PhaseKind = "final"
)

// phaseOrder is the order phases are played and listed in.
var phaseOrder = []PhaseKind{Qualification, Semifinal, Final}

// Name returns the display name of the phase.
func (k PhaseKind) Name() string {
	switch k {
	case Qualification:
		return "Qualification"
	case Semifinal:
		return "Semifinals"
	case Final:
		return "Finals"
	}
	return string(k)
}

func (k PhaseKind) valid() bool {
	for _, p := range phaseOrder {
		if p == k {
			return true
		}
	}
	return false
}

// Source loads an event from wherever it is stored.
type Source interface {
	Load(ctx context.Context) (*Event, error)
}

// Event is a single competition.
type Event struct {
	Code     string // short name used in file names
	Name     string
	League   string
	Start    time.Time
	Location *time.Location
	Phases   []*Phase
	Teams    []Team
}

// MatchCount returns the number of matches across all phases.
func (e *Event) MatchCount() int {
	n := 0
	for _, p := range e.Phases {
		n += len(p.Matches)
	}
	return n
}

// Phase groups the matches of one tournament stage
type Phase struct {
	Kind    PhaseKind
	Matches []*Match
}

// Name returns the display name of the phase.
func (p *Phase) Name() string {
	return p.Kind.Name()
}

// Team is a registered team
type Team struct {
	Number  int
	Name    string
	City    string
	State   string
	Country string
}

// Location joins the non-empty parts of the team's home.
func (t Team) Location() string {
	var parts []string
	for _, s := range []string{t.City, t.State, t.Country} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// FullDescription is the one-line roster entry for the team.
func (t Team) FullDescription() string {
	name := t.Name
	if name == "" {
		name = "Unknown"
	}
	location := t.Location()
	if location == "" {
		return fmt.Sprintf("%d %s", t.Number, name)
	}
	return fmt.Sprintf("%d %s from %s", t.Number, name, location)
}

// Entry is a team's slot on an alliance for one match.
type Entry struct {
	Team      Team
	Surrogate bool
}

// Match is one scheduled match.
type Match struct {
	Phase   PhaseKind
	Series  int // semifinal bracket, 0 for other phases
	Number  int
	Started time.Time // zero when the match has not been played
	Scored  bool
	Scores  map[Alliance]int
	Entries map[Alliance][]Entry
}

// Played reports whether the match has a recorded start time.
func (m *Match) Played() bool {
	return !m.Started.IsZero()
}

// ShortIdentifier is the compact, unique name of the match within the event,
// e.g. Q12, SF1-2, F-1.
func (m *Match) ShortIdentifier() string {
	switch m.Phase {
	case Qualification:
		return fmt.Sprintf("Q%d", m.Number)
	case Semifinal:
		return fmt.Sprintf("SF%d-%d", m.Series, m.Number)
	case Final:
		return fmt.Sprintf("F-%d", m.Number)
	}
	return fmt.Sprintf("%s-%d", m.Phase, m.Number)
}

// LongName is the spelled-out name of the match.
func (m *Match) LongName() string {
	switch m.Phase {
	case Qualification:
		return fmt.Sprintf("Qualification %d", m.Number)
	case Semifinal:
		return fmt.Sprintf("Semifinal %d Match %d", m.Series, m.Number)
	case Final:
		return fmt.Sprintf("Final Match %d", m.Number)
	}
	return fmt.Sprintf("%s %d", m.Phase.Name(), m.Number)
}

// ShortDescription names the match without the teams.
func (m *Match) ShortDescription() string {
	return m.LongName()
}

// LongDescription names the match and both alliances' teams.
func (m *Match) LongDescription() string {
	return fmt.Sprintf("%s: %s vs. %s", m.LongName(), m.teamList(Red), m.teamList(Blue))
}

func (m *Match) teamList(a Alliance) string {
	entries := m.Entries[a]
	if len(entries) == 0 {
		return "TBD"
	}
	numbers := make([]string, len(entries))
	for i, e := range entries {
		numbers[i] = fmt.Sprintf("%d", e.Team.Number)
	}
	return strings.Join(numbers, ", ")
}

// TeamsFor returns the alliance's roster in station order.
func (m *Match) TeamsFor(a Alliance) []Entry {
	return m.Entries[a]
}

// ResultFor describes the match outcome from one alliance's point of view.
func (m *Match) ResultFor(a Alliance) string {
	if !m.Played() {
		return "Not played"
	}
	if !m.Scored {
		return "No result"
	}

	own, other := m.Scores[a], m.Scores[a.Opponent()]
	switch {
	case own > other:
		return fmt.Sprintf("Win %d-%d", own, other)
	case own < other:
		return fmt.Sprintf("Loss %d-%d", own, other)
	default:
		return fmt.Sprintf("Tie %d-%d", own, other)
	}
}

// Static is a Source backed by an in-memory event.
type Static struct {
	Event *Event
}

// Load returns the wrapped event.
func (s Static) Load(context.Context) (*Event, error) {
	if s.Event == nil {
		return nil, fmt.Errorf("no event loaded")
	}
	return s.Event, nil
}
