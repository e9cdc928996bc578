package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kikiluvv/ftcvideo/internal/catalog"
	"github.com/kikiluvv/ftcvideo/pkg/util"
)

// BatchResult summarizes a whole run
type BatchResult struct {
	Event   *catalog.Event
	Matches []*MatchResult
	Elapsed time.Duration
}

// Count returns how many matches ended a stage with the given outcome.
func (b *BatchResult) Count(stage Stage, outcome Outcome) int {
	n := 0
	for _, m := range b.Matches {
		if sr := m.Stage(stage); sr != nil && sr.Outcome == outcome {
			n++
		}
	}
	return n
}

// Failures returns the number of failed stages across all matches.
func (b *BatchResult) Failures() int {
	n := 0
	for _, s := range Stages {
		n += b.Count(s, Failed)
	}
	return n
}

// BatchRunner drives the extractor over every match of an event
type BatchRunner struct {
	rc        *RunContext
	extractor *Extractor
}

// NewBatchRunner creates a runner for rc
func NewBatchRunner(rc *RunContext) *BatchRunner {
	if rc.Reporter == nil {
		rc.Reporter = NopReporter{}
	}
	return &BatchRunner{rc: rc, extractor: NewExtractor(rc)}
}

// Run loads the event and processes all phases and matches in catalog order.
// Only a catalog read or output directory failure is returned; everything
// that goes wrong for a single match is recorded in its MatchResult.
func (b *BatchRunner) Run(ctx context.Context, src catalog.Source) (*BatchResult, error) {
	start := time.Now()

	event, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load event: %w", err)
	}

	if err := util.EnsureDir(b.rc.Options.OutputDir); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	logger := b.rc.Logger.With().Str("event", event.Code).Logger()
	logger.Info().
		Int("phases", len(event.Phases)).
		Int("matches", event.MatchCount()).
		Int("jobs", b.rc.Options.Jobs).
		Msg("starting batch")

	result := &BatchResult{Event: event}
	for _, phase := range event.Phases {
		b.rc.Reporter.PhaseStarted(phase)
		result.Matches = append(result.Matches, b.runPhase(ctx, event, phase)...)
		b.rc.Reporter.PhaseFinished(phase)
	}
	result.Elapsed = time.Since(start)

	logger.Info().
		Int("matches", len(result.Matches)).
		Int("failures", result.Failures()).
		Dur("elapsed", result.Elapsed).
		Msg("batch complete")

	return result, nil
}

// runPhase extracts every match in the phase. With Jobs > 1 matches run
// concurrently, but results still reach the reporter in catalog order.
func (b *BatchRunner) runPhase(ctx context.Context, event *catalog.Event, phase *catalog.Phase) []*MatchResult {
	results := make([]*MatchResult, len(phase.Matches))

	if b.rc.Options.Jobs <= 1 {
		for i, m := range phase.Matches {
			results[i] = b.extractor.Extract(ctx, event, m)
			b.finish(results[i])
		}
		return results
	}

	var (
		mu   sync.Mutex
		next int
	)
	deliver := func(i int, r *MatchResult) {
		mu.Lock()
		defer mu.Unlock()
		results[i] = r
		for next < len(results) && results[next] != nil {
			b.finish(results[next])
			next++
		}
	}

	var g errgroup.Group
	g.SetLimit(b.rc.Options.Jobs)
	for i, m := range phase.Matches {
		g.Go(func() error {
			deliver(i, b.extractor.Extract(ctx, event, m))
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (b *BatchRunner) finish(r *MatchResult) {
	b.rc.Metrics.Observe(r)
	b.rc.Reporter.MatchFinished(r)
}
