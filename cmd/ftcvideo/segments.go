package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kikiluvv/ftcvideo/internal/config"
	"github.com/kikiluvv/ftcvideo/internal/report"
)

var segmentsCmd = &cobra.Command{
	Use:   "segments",
	Short: "Register the recordings and print the time each one covers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		if len(cfg.Recordings) == 0 {
			return errors.New("no recordings given (--video)")
		}

		loc, err := cfg.Location()
		if err != nil {
			return err
		}

		executor, err := newExecutor(cfg)
		if err != nil {
			return err
		}

		ix, errs, err := buildIndex(cmd.Context(), cfg, executor, loc)
		if err != nil {
			return err
		}

		report.PrintSegments(cmd.OutOrStdout(), ix)

		if len(errs) > 0 {
			return fmt.Errorf("%d of %d recordings could not be registered: %w",
				len(errs), len(cfg.Recordings), errors.Join(errs...))
		}
		return nil
	},
}
