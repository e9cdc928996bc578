package pipeline

import (
	"context"
	"time"

	"github.com/kikiluvv/ftcvideo/internal/catalog"
	"github.com/kikiluvv/ftcvideo/internal/ffmpeg"
	"github.com/kikiluvv/ftcvideo/internal/segments"
)

// Stage names one step of the per-match extraction
type Stage string

const (
	StageMatchClip   Stage = "match_clip"
	StageResultImage Stage = "result_image"
	StageResultVideo Stage = "result_video"
	StageFinalVideo  Stage = "final_video"
)

// Stages lists every stage in execution order.
var Stages = []Stage{StageMatchClip, StageResultImage, StageResultVideo, StageFinalVideo}

// Outcome is what happened to a stage
type Outcome int

const (
	// NotAttempted is the initial value of every stage.
	NotAttempted Outcome = iota
	// Produced means the output file was written.
	Produced
	// Absent means the recordings do not cover the needed time. Not an error.
	Absent
	// Failed means the engine invocation failed.
	Failed
	// Skipped means the stage was turned off or a prerequisite was not met.
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case NotAttempted:
		return "not_attempted"
	case Produced:
		return "produced"
	case Absent:
		return "absent"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	}
	return "unknown"
}

// Outcomes lists every outcome
var Outcomes = []Outcome{NotAttempted, Produced, Absent, Failed, Skipped}

// StageResult records the outcome of one stage for one match
type StageResult struct {
	Stage   Stage
	Outcome Outcome
	Path    string // output file, set when Produced
	Reason  string // why the stage was skipped or absent
	Err     error  // set when Failed
	Elapsed time.Duration
}

// Window is the span of a match clip
type Window struct {
	Start    time.Time
	Duration time.Duration
}

// Resolution is where a window or instant falls in the recordings.
type Resolution struct {
	Covered bool
	Segment segments.Segment
	Offset  time.Duration
}

// MatchResult collects every stage result for one match
type MatchResult struct {
	Match   *catalog.Match
	Prefix  string
	Window  Window
	Clip    Resolution
	Results []StageResult // one per stage, in Stages order
	Elapsed time.Duration
}

func newMatchResult(m *catalog.Match) *MatchResult {
	r := &MatchResult{Match: m, Results: make([]StageResult, len(Stages))}
	for i, s := range Stages {
		r.Results[i] = StageResult{Stage: s, Outcome: NotAttempted}
	}
	return r
}

// Stage returns the result for one stage.
func (r *MatchResult) Stage(s Stage) *StageResult {
	for i := range r.Results {
		if r.Results[i].Stage == s {
			return &r.Results[i]
		}
	}
	return nil
}

// Produced reports whether a stage wrote its output.
func (r *MatchResult) Produced(s Stage) bool {
	sr := r.Stage(s)
	return sr != nil && sr.Outcome == Produced
}

// skipRemaining marks every stage that has not run yet as skipped.
func (r *MatchResult) skipRemaining(reason string) {
	for i := range r.Results {
		if r.Results[i].Outcome == NotAttempted {
			r.Results[i].Outcome = Skipped
			r.Results[i].Reason = reason
		}
	}
}

// Markers answers when a match's result screen was shown.
type Markers interface {
	ResultFor(shortID string) (time.Time, bool)
}

// Engine produces media files.
type Engine interface {
	ExtractClip(ctx context.Context, input string, opts ffmpeg.ClipOptions) error
	Screenshot(ctx context.Context, input string, offset time.Duration, output string) error
	LoopStill(ctx context.Context, image string, opts ffmpeg.StillOptions) error
	Concat(ctx context.Context, opts ffmpeg.ConcatOptions) error
}

// Reporter receives progress as a batch runs. Calls are serialized and
// arrive in catalog order.
type Reporter interface {
	PhaseStarted(phase *catalog.Phase)
	MatchFinished(result *MatchResult)
	PhaseFinished(phase *catalog.Phase)
}

// NopReporter discards all progress
type NopReporter struct{}

func (NopReporter) PhaseStarted(*catalog.Phase)  {}
func (NopReporter) MatchFinished(*MatchResult)   {}
func (NopReporter) PhaseFinished(*catalog.Phase) {}
