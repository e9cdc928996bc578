package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go driver
)

// SQLite reads an event from a scoring system database.
//
// Expected schema:
//
//	config(key TEXT PRIMARY KEY, value TEXT)  -- code, name, league, start (YYYY-MM-DD), timezone
//	teams(number INTEGER PRIMARY KEY, name TEXT, city TEXT, state TEXT, country TEXT)
//	matches(id INTEGER PRIMARY KEY, phase TEXT, series INTEGER, number INTEGER,
//	        start INTEGER, red_score INTEGER, blue_score INTEGER)
//	match_teams(match_id INTEGER, alliance TEXT, station INTEGER, team INTEGER, surrogate INTEGER)
//
// matches.start is unix milliseconds, 0 for matches that were not played.
type SQLite struct {
	db  *sql.DB
	loc *time.Location
}

// OpenSQLite opens the database read-only. loc is the event's local zone,
// used unless the database names its own.
func OpenSQLite(path string, loc *time.Location) (*SQLite, error) {
	if loc == nil {
		loc = time.Local
	}

	name, err := dsn(path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	db, err := sql.Open("sqlite", name)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open failed: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping failed: %w", err)
	}

	return &SQLite{db: db, loc: loc}, nil
}

// dsn builds the read-only URI for path. The path is percent-encoded so
// '?', '#' and '%' in file names are not taken as URI syntax.
func dsn(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	abs = filepath.ToSlash(abs)
	if !strings.HasPrefix(abs, "/") {
		abs = "/" + abs
	}

	u := url.URL{
		Scheme:   "file",
		Path:     abs,
		RawQuery: "mode=ro&_pragma=busy_timeout(5000)",
	}
	return u.String(), nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Load reads the whole event.
func (s *SQLite) Load(ctx context.Context) (*Event, error) {
	settings, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	event := &Event{
		Code:     settings["code"],
		Name:     settings["name"],
		League:   settings["league"],
		Location: s.loc,
	}
	if event.Code == "" {
		return nil, fmt.Errorf("event config is missing the code key")
	}

	if tz := settings["timezone"]; tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("event timezone %q: %w", tz, err)
		}
		event.Location = loc
	}

	if start := settings["start"]; start != "" {
		t, err := time.ParseInLocation("2006-01-02", start, event.Location)
		if err != nil {
			return nil, fmt.Errorf("event start %q: %w", start, err)
		}
		event.Start = t
	}

	teams, err := s.loadTeams(ctx)
	if err != nil {
		return nil, err
	}
	event.Teams = teams

	byNumber := make(map[int]Team, len(teams))
	for _, t := range teams {
		byNumber[t.Number] = t
	}

	matches, err := s.loadMatches(ctx, event.Location)
	if err != nil {
		return nil, err
	}

	if err := s.loadEntries(ctx, matches, byNumber); err != nil {
		return nil, err
	}

	event.Phases = groupPhases(matches)
	return event, nil
}

func (s *SQLite) loadConfig(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM config`)
	if err != nil {
		return nil, fmt.Errorf("query config: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key string
		var value sql.NullString
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}
		settings[key] = value.String
	}
	return settings, rows.Err()
}

func (s *SQLite) loadTeams(ctx context.Context) ([]Team, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT number, name, city, state, country FROM teams ORDER BY number`)
	if err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var t Team
		var name, city, state, country sql.NullString
		if err := rows.Scan(&t.Number, &name, &city, &state, &country); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		t.Name, t.City, t.State, t.Country = name.String, city.String, state.String, country.String
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (s *SQLite) loadMatches(ctx context.Context, loc *time.Location) (map[int64]*Match, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, phase, series, number, start, red_score, blue_score FROM matches`)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	matches := make(map[int64]*Match)
	for rows.Next() {
		var (
			id                  int64
			phase               string
			series, number      int
			start               sql.NullInt64
			redScore, blueScore sql.NullInt64
		)
		if err := rows.Scan(&id, &phase, &series, &number, &start, &redScore, &blueScore); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}

		kind := PhaseKind(phase)
		if !kind.valid() {
			return nil, fmt.Errorf("match %d: unknown phase %q", id, phase)
		}

		m := &Match{
			Phase:   kind,
			Series:  series,
			Number:  number,
			Scores:  make(map[Alliance]int),
			Entries: make(map[Alliance][]Entry),
		}
		if start.Valid && start.Int64 > 0 {
			m.Started = time.UnixMilli(start.Int64).In(loc)
		}
		if redScore.Valid && blueScore.Valid {
			m.Scored = true
			m.Scores[Red] = int(redScore.Int64)
			m.Scores[Blue] = int(blueScore.Int64)
		}
		matches[id] = m
	}
	return matches, rows.Err()
}

func (s *SQLite) loadEntries(ctx context.Context, matches map[int64]*Match, teams map[int]Team) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT match_id, alliance, team, surrogate FROM match_teams ORDER BY match_id, alliance, station`)
	if err != nil {
		return fmt.Errorf("query match teams: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			matchID   int64
			alliance  string
			number    int
			surrogate sql.NullBool
		)
		if err := rows.Scan(&matchID, &alliance, &number, &surrogate); err != nil {
			return fmt.Errorf("scan match team: %w", err)
		}

		m, ok := matches[matchID]
		if !ok {
			return fmt.Errorf("match team references unknown match %d", matchID)
		}
		a := Alliance(alliance)
		if a != Red && a != Blue {
			return fmt.Errorf("match %d: unknown alliance %q", matchID, alliance)
		}

		team, ok := teams[number]
		if !ok {
			team = Team{Number: number}
		}
		m.Entries[a] = append(m.Entries[a], Entry{Team: team, Surrogate: surrogate.Bool})
	}
	return rows.Err()
}

// groupPhases orders matches by phase, series and number.
func groupPhases(matches map[int64]*Match) []*Phase {
	byKind := make(map[PhaseKind][]*Match)
	for _, m := range matches {
		byKind[m.Phase] = append(byKind[m.Phase], m)
	}

	var phases []*Phase
	for _, kind := range phaseOrder {
		list := byKind[kind]
		if len(list) == 0 {
			continue
		}
		sort.Slice(list, func(i, j int) bool {
			if list[i].Series != list[j].Series {
				return list[i].Series < list[j].Series
			}
			return list[i].Number < list[j].Number
		})
		phases = append(phases, &Phase{Kind: kind, Matches: list})
	}
	return phases
}
