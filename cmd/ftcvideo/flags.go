package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/kikiluvv/ftcvideo/internal/config"
)

// flagValues holds command-line overrides. Only flags the user actually set
// are copied onto the loaded config.
type flagValues struct {
	eventDB  string
	videos   []string
	timeZone string
	ffmpeg   string
	ffprobe  string

	metadata    string
	outputDir   string
	videosOn    bool
	imagesOn    bool
	resultsOn   bool
	finalsOn    bool
	copy        bool
	before      int
	length      int
	after       int
	jobs        int
	threads     int
	timeout     time.Duration
	metricsFile string
	runID       string
}

var flags flagValues

// addInputFlags registers the flags shared by every command.
func addInputFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.eventDB, "event-db", "d", "", "event database (SQLite)")
	pf.StringArrayVarP(&flags.videos, "video", "v", nil, "recording, optionally path@RFC3339-start (repeatable)")
	pf.StringVarP(&flags.timeZone, "timezone", "z", "", "UTC offset or zone name for start times read from file names")
	pf.StringVar(&flags.ffmpeg, "ffmpeg", "", "path to the ffmpeg binary")
	pf.StringVar(&flags.ffprobe, "ffprobe", "", "path to the ffprobe binary")
}

// addExtractFlags registers the flags of the extract command.
func addExtractFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&flags.metadata, "metadata", "m", "", "metadata file with result screen times")
	f.StringVarP(&flags.outputDir, "output-directory", "o", "", "directory for extracted files")
	f.BoolVarP(&flags.videosOn, "extract-videos", "e", false, "extract match videos")
	f.BoolVarP(&flags.imagesOn, "extract-result-images", "r", false, "extract result screenshots")
	f.BoolVarP(&flags.resultsOn, "extract-result-videos", "s", false, "make result screenshot videos")
	f.BoolVarP(&flags.finalsOn, "final-videos", "f", false, "join match and result videos")
	f.BoolVarP(&flags.copy, "copy", "c", false, "stream-copy match videos instead of re-encoding")
	f.IntVar(&flags.before, "seconds-before-match-start", 0, "seconds of video kept before the match starts")
	f.IntVar(&flags.length, "seconds-match-length", 0, "length of a match in seconds")
	f.IntVar(&flags.after, "seconds-after-match-end", 0, "seconds of video kept after the match ends")
	f.IntVarP(&flags.jobs, "jobs", "j", 0, "matches processed in parallel")
	f.IntVar(&flags.threads, "threads", 0, "ffmpeg threads per invocation (0 = auto)")
	f.DurationVar(&flags.timeout, "engine-timeout", 0, "time limit for a single ffmpeg invocation")
	f.StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus textfile metrics here")
	f.StringVar(&flags.runID, "run-id", "", "correlation id added to every log line (default: random)")
}

// applyFlags copies explicitly set flags onto cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	set := cmd.Flags().Changed

	if set("event-db") {
		cfg.EventDB = flags.eventDB
	}
	if set("video") {
		cfg.Recordings = cfg.Recordings[:0]
		for _, v := range flags.videos {
			cfg.Recordings = append(cfg.Recordings, config.ParseRecording(v))
		}
	}
	if set("timezone") {
		cfg.TimeZone = flags.timeZone
	}
	if set("ffmpeg") {
		cfg.FFmpeg.BinaryPath = flags.ffmpeg
	}
	if set("ffprobe") {
		cfg.FFmpeg.FFprobePath = flags.ffprobe
	}

	if set("metadata") {
		cfg.MetadataFile = flags.metadata
	}
	if set("output-directory") {
		cfg.OutputDir = flags.outputDir
	}
	if set("extract-videos") {
		cfg.Extract.Videos = flags.videosOn
	}
	if set("extract-result-images") {
		cfg.Extract.ResultImages = flags.imagesOn
	}
	if set("extract-result-videos") {
		cfg.Extract.ResultVideos = flags.resultsOn
	}
	if set("final-videos") {
		cfg.Extract.FinalVideos = flags.finalsOn
	}
	if set("copy") {
		cfg.Extract.Copy = flags.copy
	}
	if set("seconds-before-match-start") {
		cfg.Timing.SecondsBeforeStart = flags.before
	}
	if set("seconds-match-length") {
		cfg.Timing.SecondsMatchLength = flags.length
	}
	if set("seconds-after-match-end") {
		cfg.Timing.SecondsAfterEnd = flags.after
	}
	if set("jobs") {
		cfg.Jobs = flags.jobs
	}
	if set("threads") {
		cfg.FFmpeg.Threads = flags.threads
	}
	if set("engine-timeout") {
		cfg.FFmpeg.Timeout = flags.timeout
	}
	if set("metrics-file") {
		cfg.MetricsFile = flags.metricsFile
	}
}
