package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kikiluvv/ftcvideo/internal/catalog"
	"github.com/kikiluvv/ftcvideo/internal/config"
	"github.com/kikiluvv/ftcvideo/internal/ffmpeg"
	"github.com/kikiluvv/ftcvideo/internal/logging"
	"github.com/kikiluvv/ftcvideo/internal/metadata"
	"github.com/kikiluvv/ftcvideo/internal/pipeline"
	"github.com/kikiluvv/ftcvideo/internal/report"
	"github.com/kikiluvv/ftcvideo/internal/segments"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract match videos, result screenshots and final videos",
	Args:  cobra.NoArgs,
	RunE:  runExtract,
}

func init() {
	addExtractFlags(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)

	if err := cfg.Validate(); err != nil {
		return err
	}

	runID := flags.runID
	if runID == "" {
		runID = uuid.New().String()
	}
	logger := logging.WithRun(runID)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	executor, err := newExecutor(cfg)
	if err != nil {
		return err
	}

	ix, _, err := buildIndex(ctx, cfg, executor, loc)
	if err != nil {
		return err
	}
	if ix.Len() == 0 {
		logger.Warn().Msg("no recordings registered; every match video will be reported as not present")
	}

	db, err := catalog.OpenSQLite(cfg.EventDB, loc)
	if err != nil {
		return err
	}
	defer db.Close()

	event, err := db.Load(ctx)
	if err != nil {
		return fmt.Errorf("load event: %w", err)
	}

	rc := &pipeline.RunContext{
		Options: pipeline.OptionsFromConfig(cfg),
		Index:   ix,
		Engine:  executor,
		Logger:  logger,
	}

	if cfg.MetadataFile != "" {
		store, err := metadata.Load(cfg.MetadataFile, event.Location)
		if err != nil {
			return err
		}
		logger.Info().Str("file", cfg.MetadataFile).Int("results", store.Len()).Msg("loaded result markers")
		rc.Markers = store
	}

	if cfg.MetricsFile != "" {
		rc.Metrics = pipeline.NewMetrics()
	}

	out := cmd.OutOrStdout()
	report.PrintEventSummary(out, event)
	rc.Reporter = report.NewConsole(out, event)

	result, err := pipeline.NewBatchRunner(rc).Run(ctx, catalog.Static{Event: event})
	if err != nil {
		return err
	}
	report.PrintTotals(out, result)

	if cfg.MetricsFile != "" {
		if err := rc.Metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Error().Err(err).Str("file", cfg.MetricsFile).Msg("failed to write metrics")
		}
	}

	if ctx.Err() != nil {
		logger.Warn().Msg("extraction canceled")
	}
	return nil
}

func newExecutor(cfg *config.Config) (*ffmpeg.Executor, error) {
	return ffmpeg.New(log.Logger, ffmpeg.Options{
		FFmpegPath:  cfg.FFmpeg.BinaryPath,
		FFprobePath: cfg.FFmpeg.FFprobePath,
		Threads:     cfg.FFmpeg.Threads,
		Timeout:     cfg.FFmpeg.Timeout,
	})
}

// buildIndex registers the configured recordings. Recordings that cannot be
// measured are left out and returned as errs; a bad start time is a
// configuration error.
func buildIndex(ctx context.Context, cfg *config.Config, m segments.Measurer, loc *time.Location) (ix *segments.Index, errs []error, err error) {
	sources := make([]segments.Source, 0, len(cfg.Recordings))
	for _, r := range cfg.Recordings {
		start, err := r.StartTime(loc)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, segments.Source{Path: r.Path, Start: start})
	}

	ix, errs = segments.Build(ctx, m, sources, logging.WithComponent("segments"))
	return ix, errs, nil
}
