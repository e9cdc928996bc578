package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/kikiluvv/ftcvideo/internal/catalog"
	"github.com/kikiluvv/ftcvideo/internal/config"
	"github.com/kikiluvv/ftcvideo/internal/pipeline"
	"github.com/kikiluvv/ftcvideo/internal/report"
	"github.com/kikiluvv/ftcvideo/pkg/util"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the event, its phases and teams, and the titles of every match",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		if cfg.EventDB == "" {
			return errors.New("event database is required (--event-db)")
		}
		if !util.FileExists(cfg.EventDB) {
			return errors.New("event database does not exist: " + cfg.EventDB)
		}

		loc, err := cfg.Location()
		if err != nil {
			return err
		}

		db, err := catalog.OpenSQLite(cfg.EventDB, loc)
		if err != nil {
			return err
		}
		defer db.Close()

		event, err := db.Load(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		report.PrintEventSummary(out, event)

		console := report.NewConsole(out, event)
		for _, phase := range event.Phases {
			console.PhaseStarted(phase)
			for _, m := range phase.Matches {
				console.MatchFinished(&pipeline.MatchResult{Match: m})
			}
			console.PhaseFinished(phase)
		}
		return nil
	},
}
