package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata" // event zones resolve without a system zoneinfo database

	"github.com/spf13/cobra"

	"github.com/kikiluvv/ftcvideo/internal/config"
	"github.com/kikiluvv/ftcvideo/internal/logging"
)

// exitCanceled follows the shell convention for SIGINT.
const exitCanceled = 130

var (
	cfgFile string
	logOpts logging.Options
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	canceled := ctx.Err() != nil
	stop()

	switch {
	case canceled:
		os.Exit(exitCanceled)
	case err != nil:
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "ftcvideo",
	Short:        "ftcvideo - cut FTC match videos out of field recordings",
	Long:         "Extracts per-match clips, result screenshots and joined final videos from long field recordings using the event database.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging
		logging.Init(logOpts)

		// Load config
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		applyFlags(cmd, cfg)

		// Store config in context
		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./ftcvideo.yaml)")
	pf.BoolVar(&logOpts.Verbose, "verbose", false, "verbose output")
	pf.BoolVarP(&logOpts.Quiet, "quiet", "q", false, "only log warnings and errors")
	pf.BoolVar(&logOpts.JSON, "log-json", false, "log JSON lines instead of console output")
	addInputFlags(rootCmd)

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(segmentsCmd)
	rootCmd.AddCommand(configCmd)
}
