package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/ftcvideo/internal/catalog"
	"github.com/kikiluvv/ftcvideo/internal/ffmpeg"
	"github.com/kikiluvv/ftcvideo/internal/segments"
)

// RunContext is everything a batch needs. It is built once and shared
// read-only by every match.
type RunContext struct {
	Options  Options
	Index    *segments.Index
	Markers  Markers // may be nil when no metadata file is configured
	Engine   Engine
	Logger   zerolog.Logger
	Reporter Reporter
	Metrics  *Metrics
}

// Extractor runs the stages for one match at a time
type Extractor struct {
	rc     *RunContext
	logger zerolog.Logger
}

// NewExtractor creates an extractor bound to a run context
func NewExtractor(rc *RunContext) *Extractor {
	return &Extractor{
		rc:     rc,
		logger: rc.Logger.With().Str("component", "pipeline").Logger(),
	}
}

// Extract runs every stage for m. Stage failures are recorded in the result,
// never returned.
func (x *Extractor) Extract(ctx context.Context, event *catalog.Event, m *catalog.Match) *MatchResult {
	start := time.Now()
	res := newMatchResult(m)
	defer func() { res.Elapsed = time.Since(start) }()

	logger := x.logger.With().Str("match", m.ShortIdentifier()).Logger()

	if !m.Played() {
		logger.Debug().Msg("match not played")
		res.skipRemaining("not played")
		return res
	}

	opts := x.rc.Options
	res.Prefix = Prefix(event, m)
	res.Window = opts.Window(m.Started)
	res.Clip = x.resolve(res.Window.Start, res.Window.Duration)

	logger.Debug().
		Time("window_start", res.Window.Start).
		Dur("window", res.Window.Duration).
		Bool("covered", res.Clip.Covered).
		Str("source", res.Clip.Segment.SourcePath).
		Dur("offset", res.Clip.Offset).
		Msg("resolved match window")

	x.runStage(ctx, res, StageMatchClip, logger, x.matchClip)
	x.runStage(ctx, res, StageResultImage, logger, x.resultImage)
	x.runStage(ctx, res, StageResultVideo, logger, x.resultVideo)
	x.runStage(ctx, res, StageFinalVideo, logger, x.finalVideo)

	return res
}

// resolve finds the recording covering [t, t+d].
func (x *Extractor) resolve(t time.Time, d time.Duration) Resolution {
	seg, ok := x.rc.Index.Covering(t, d)
	if !ok {
		return Resolution{}
	}
	return Resolution{Covered: true, Segment: seg, Offset: x.rc.Index.OffsetOf(seg, t)}
}

type stageFunc func(ctx context.Context, res *MatchResult, sr *StageResult) error

// runStage times a stage and turns an engine error into a Failed result.
func (x *Extractor) runStage(ctx context.Context, res *MatchResult, stage Stage, logger zerolog.Logger, fn stageFunc) {
	sr := res.Stage(stage)

	if ctx.Err() != nil {
		res.skipRemaining("canceled")
		return
	}

	start := time.Now()
	err := fn(ctx, res, sr)
	sr.Elapsed = time.Since(start)

	if err != nil {
		sr.Outcome = Failed
		sr.Err = err
		logger.Error().Err(err).Str("stage", string(stage)).Msg("stage failed")
		return
	}

	event := logger.Debug()
	if sr.Outcome == Produced {
		event = logger.Info()
	}
	event.Str("stage", string(stage)).
		Str("outcome", sr.Outcome.String()).
		Str("reason", sr.Reason).
		Str("output", sr.Path).
		Dur("elapsed", sr.Elapsed).
		Msg("stage finished")
}

func skip(sr *StageResult, reason string) error {
	sr.Outcome = Skipped
	sr.Reason = reason
	return nil
}

func absent(sr *StageResult, reason string) error {
	sr.Outcome = Absent
	sr.Reason = reason
	return nil
}

func produced(sr *StageResult, path string) error {
	sr.Outcome = Produced
	sr.Path = path
	return nil
}

func (x *Extractor) matchClip(ctx context.Context, res *MatchResult, sr *StageResult) error {
	opts := x.rc.Options
	if !opts.ExtractVideos {
		return skip(sr, "disabled")
	}
	if !res.Clip.Covered {
		return absent(sr, "not present in video")
	}

	output := opts.OutputPath(res.Prefix, "match", VideoExt)
	err := x.rc.Engine.ExtractClip(ctx, res.Clip.Segment.SourcePath, ffmpeg.ClipOptions{
		Offset:   res.Clip.Offset,
		Duration: res.Window.Duration,
		Output:   output,
		Copy:     opts.Copy,
		Target:   opts.Target,
	})
	if err != nil {
		return err
	}
	return produced(sr, output)
}

func (x *Extractor) resultImage(ctx context.Context, res *MatchResult, sr *StageResult) error {
	opts := x.rc.Options
	if !opts.ExtractResultImages && !opts.ExtractResultVideos {
		return skip(sr, "disabled")
	}

	if x.rc.Markers == nil {
		return skip(sr, "no result marker")
	}
	at, ok := x.rc.Markers.ResultFor(res.Match.ShortIdentifier())
	if !ok || at.IsZero() {
		return skip(sr, "no result marker")
	}

	where := x.resolve(at, 0)
	if !where.Covered {
		return absent(sr, "not present in video")
	}

	output := opts.OutputPath(res.Prefix, "score", ImageExt)
	if err := x.rc.Engine.Screenshot(ctx, where.Segment.SourcePath, where.Offset, output); err != nil {
		return err
	}
	return produced(sr, output)
}

func (x *Extractor) resultVideo(ctx context.Context, res *MatchResult, sr *StageResult) error {
	opts := x.rc.Options
	if !opts.ExtractResultVideos {
		return skip(sr, "disabled")
	}
	if !res.Produced(StageResultImage) {
		return skip(sr, "no result image")
	}

	image := res.Stage(StageResultImage).Path
	output := opts.OutputPath(res.Prefix, "score", VideoExt)
	err := x.rc.Engine.LoopStill(ctx, image, ffmpeg.StillOptions{
		Output:    output,
		Frames:    opts.ResultFrames,
		FrameRate: opts.ResultFrameRate,
		Target:    opts.Target,
	})
	if err != nil {
		return err
	}
	return produced(sr, output)
}

func (x *Extractor) finalVideo(ctx context.Context, res *MatchResult, sr *StageResult) error {
	opts := x.rc.Options
	if !opts.ProduceFinalVideos {
		return skip(sr, "disabled")
	}
	if !res.Produced(StageMatchClip) {
		return skip(sr, "no match video")
	}
	if !res.Produced(StageResultVideo) {
		return skip(sr, "no result video")
	}

	output := opts.OutputPath(res.Prefix, "final", VideoExt)
	err := x.rc.Engine.Concat(ctx, ffmpeg.ConcatOptions{
		Inputs: []string{
			res.Stage(StageMatchClip).Path,
			res.Stage(StageResultVideo).Path,
		},
		Output: output,
		// A stream-copied clip keeps the source encoding and cannot be
		// joined to the result video without normalizing both.
		ReEncode: opts.Copy,
		Target:   opts.Target,
	})
	if err != nil {
		return err
	}
	return produced(sr, output)
}
