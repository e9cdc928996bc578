package segments

import (
	"context"
	"fmt"
	"time"
)

// Segment is a source recording with a known absolute start time
type Segment struct {
	SourcePath string
	Start      time.Time
	Duration   time.Duration
}

// End returns the instant the recording stops.
func (s Segment) End() time.Time {
	return s.Start.Add(s.Duration)
}

// Contains reports whether the window [t, t+d] lies inside the recording.
// A single instant (d == 0) must fall in [Start, End); the final instant of
// a recording has no frame to seek to.
func (s Segment) Contains(t time.Time, d time.Duration) bool {
	if t.Before(s.Start) {
		return false
	}
	if d == 0 {
		return t.Before(s.End())
	}
	return !t.Add(d).After(s.End())
}

// Offset returns the position of t within the recording, truncated to whole
// seconds. Only meaningful when Contains(t, 0) holds.
func (s Segment) Offset(t time.Time) time.Duration {
	return t.Sub(s.Start).Truncate(time.Second)
}

// Validate checks the segment invariants.
func (s Segment) Validate() error {
	if s.SourcePath == "" {
		return fmt.Errorf("source path cannot be empty")
	}
	if s.Start.IsZero() {
		return fmt.Errorf("start time is required for %s", s.SourcePath)
	}
	if s.Duration < 0 {
		return fmt.Errorf("duration cannot be negative for %s", s.SourcePath)
	}
	return nil
}

// Source names a recording and the absolute time it starts at
type Source struct {
	Path  string
	Start time.Time
}

// Measurer reports the length of a recording.
type Measurer interface {
	Duration(ctx context.Context, path string) (time.Duration, error)
}

// MeasureError is returned when a recording cannot be opened or measured.
type MeasureError struct {
	Path string
	Err  error
}

func (e *MeasureError) Error() string {
	return fmt.Sprintf("measure %s: %v", e.Path, e.Err)
}

func (e *MeasureError) Unwrap() error {
	return e.Err
}
