package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls the global logger
type Options struct {
	Verbose bool
	Quiet   bool // warnings and errors only
	JSON    bool // plain JSON lines instead of the console writer
	Out     io.Writer
}

// Init initializes the global logger
func Init(opts Options) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.DurationFieldUnit = time.Second
	zerolog.SetGlobalLevel(Level(opts))

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	if opts.JSON {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
		return
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "15:04:05",
		NoColor:    !isTerminal(out),
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// Level picks the global level from the options. Verbose wins over Quiet.
func Level(opts Options) zerolog.Level {
	switch {
	case opts.Verbose:
		return zerolog.DebugLevel
	case opts.Quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// WithComponent creates a logger with a component field
func WithComponent(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}

// WithRun tags every entry of the global logger with the run id and returns it.
func WithRun(runID string) zerolog.Logger {
	log.Logger = log.Logger.With().Str("run_id", runID).Logger()
	return log.Logger
}
