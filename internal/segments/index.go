package segments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Index answers which recording covers a point in time.
//
// Segments are kept in registration order, which need not be chronological.
// When several segments cover the same window the one registered first wins.
// Register is not safe for concurrent use; lookups are once registration is done.
type Index struct {
	segments []Segment
}

// Overlap is a pair of registered segments whose time ranges intersect.
// First was registered before Second and is the one lookups return.
type Overlap struct {
	First  Segment
	Second Segment
}

// NewIndex creates an empty index
func NewIndex() *Index {
	return &Index{
		segments: make([]Segment, 0),
	}
}

// Build registers every source in order. Sources that cannot be measured are
// logged and left out; their errors are returned alongside the index.
func Build(ctx context.Context, m Measurer, sources []Source, logger zerolog.Logger) (*Index, []error) {
	ix := NewIndex()
	var errs []error

	for _, src := range sources {
		seg, err := ix.Register(ctx, m, src.Path, src.Start)
		if err != nil {
			logger.Warn().Err(err).Str("source", src.Path).Msg("skipping recording")
			errs = append(errs, err)
			continue
		}

		logger.Info().
			Str("source", seg.SourcePath).
			Time("start", seg.Start).
			Time("end", seg.End()).
			Dur("duration", seg.Duration).
			Msg("registered recording")
	}

	for _, o := range ix.Overlaps() {
		logger.Warn().
			Str("first", o.First.SourcePath).
			Str("second", o.Second.SourcePath).
			Msg("recordings overlap, the first registered one will be used")
	}

	return ix, errs
}

// Register measures the recording's duration once and appends it.
func (ix *Index) Register(ctx context.Context, m Measurer, path string, start time.Time) (Segment, error) {
	duration, err := m.Duration(ctx, path)
	if err != nil {
		return Segment{}, &MeasureError{Path: path, Err: err}
	}
	if duration < 0 {
		return Segment{}, &MeasureError{Path: path, Err: errors.New("negative duration")}
	}

	seg := Segment{SourcePath: path, Start: start, Duration: duration}
	if err := ix.Add(seg); err != nil {
		return Segment{}, err
	}
	return seg, nil
}

// Add appends an already measured segment.
func (ix *Index) Add(seg Segment) error {
	if err := seg.Validate(); err != nil {
		return fmt.Errorf("invalid segment: %w", err)
	}
	ix.segments = append(ix.segments, seg)
	return nil
}

// Covering returns the first segment, in registration order, that contains
// the window [t, t+d]. The boolean is false when no segment does; that is an
// expected outcome, not an error.
func (ix *Index) Covering(t time.Time, d time.Duration) (Segment, bool) {
	for _, seg := range ix.segments {
		if seg.Contains(t, d) {
			return seg, true
		}
	}
	return Segment{}, false
}

// OffsetOf returns floor(t - seg.Start) in whole seconds.
func (ix *Index) OffsetOf(seg Segment, t time.Time) time.Duration {
	return seg.Offset(t)
}

// Segments returns a copy of the registered segments in registration order
func (ix *Index) Segments() []Segment {
	out := make([]Segment, len(ix.segments))
	copy(out, ix.segments)
	return out
}

// Len returns the number of registered segments
func (ix *Index) Len() int {
	return len(ix.segments)
}

// Overlaps lists every pair of segments whose ranges intersect.
func (ix *Index) Overlaps() []Overlap {
	var out []Overlap
	for i := 0; i < len(ix.segments); i++ {
		for j := i + 1; j < len(ix.segments); j++ {
			a, b := ix.segments[i], ix.segments[j]
			if a.Start.Before(b.End()) && b.Start.Before(a.End()) {
				out = append(out, Overlap{First: a, Second: b})
			}
		}
	}
	return out
}
