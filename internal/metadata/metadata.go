// Package metadata reads the optional per-event metadata file that records
// when each match's result screen was shown.
package metadata

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// timestampLayouts are tried in order for string and timestamp values.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -07:00",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Store maps match short identifiers to result-screen instants.
//
// A nil *Store is valid and reports every marker as absent.
type Store struct {
	results map[string]time.Time
}

type document struct {
	Results map[string]yaml.Node `yaml:"results"`
}

// Load reads and parses a metadata file. Zoneless timestamps are taken to be
// in loc.
func Load(path string, loc *time.Location) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	store, err := Parse(data, loc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return store, nil
}

// Parse decodes metadata YAML.
//
// Each value under results is a timestamp, unix seconds, or one of the
// "no result" sentinels 0, false and null.
func Parse(data []byte, loc *time.Location) (*Store, error) {
	if loc == nil {
		loc = time.Local
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}

	store := &Store{results: make(map[string]time.Time, len(doc.Results))}
	for id, node := range doc.Results {
		t, ok, err := decodeMarker(&node, loc)
		if err != nil {
			return nil, fmt.Errorf("results.%s (line %d): %w", id, node.Line, err)
		}
		if ok {
			store.results[id] = t
		}
	}

	return store, nil
}

func decodeMarker(node *yaml.Node, loc *time.Location) (time.Time, bool, error) {
	if node.Kind != yaml.ScalarNode {
		return time.Time{}, false, fmt.Errorf("expected a scalar value")
	}

	value := strings.TrimSpace(node.Value)

	switch node.ShortTag() {
	case "!!null":
		return time.Time{}, false, nil

	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return time.Time{}, false, err
		}
		if b {
			return time.Time{}, false, fmt.Errorf("true is not a timestamp")
		}
		return time.Time{}, false, nil

	case "!!int":
		var secs int64
		if err := node.Decode(&secs); err != nil {
			return time.Time{}, false, err
		}
		return fromUnix(float64(secs), loc)

	case "!!float":
		secs, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return time.Time{}, false, err
		}
		return fromUnix(secs, loc)

	case "!!str", "!!timestamp":
		if value == "" {
			return time.Time{}, false, nil
		}
		for _, layout := range timestampLayouts {
			if t, err := time.ParseInLocation(layout, value, loc); err == nil {
				return t, true, nil
			}
		}
		return time.Time{}, false, fmt.Errorf("unrecognized timestamp %q", value)
	}

	return time.Time{}, false, fmt.Errorf("unsupported value %q (%s)", value, node.ShortTag())
}

func fromUnix(secs float64, loc *time.Location) (time.Time, bool, error) {
	if secs == 0 {
		return time.Time{}, false, nil
	}
	if secs < 0 {
		return time.Time{}, false, fmt.Errorf("negative unix time %v", secs)
	}
	whole := int64(secs)
	nanos := int64((secs - float64(whole)) * float64(time.Second))
	return time.Unix(whole, nanos).In(loc), true, nil
}

// ResultFor returns the result-screen instant for a match. The boolean is
// false when the match has no entry or its entry is a sentinel.
func (s *Store) ResultFor(shortID string) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	t, ok := s.results[shortID]
	return t, ok
}

// Len returns the number of usable markers.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.results)
}
