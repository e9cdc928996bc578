package pipeline

import (
	"path/filepath"
	"time"

	"github.com/kikiluvv/ftcvideo/internal/catalog"
	"github.com/kikiluvv/ftcvideo/internal/config"
	"github.com/kikiluvv/ftcvideo/internal/ffmpeg"
	"github.com/kikiluvv/ftcvideo/pkg/util"
)

// Output file extensions
const (
	VideoExt = "mkv"
	ImageExt = "png"
)

// Options is the per-batch run configuration. It does not change once a
// batch starts.
type Options struct {
	OutputDir string

	ExtractVideos       bool
	ExtractResultImages bool
	ExtractResultVideos bool
	ProduceFinalVideos  bool
	Copy                bool

	SecondsBeforeStart int
	SecondsMatchLength int
	SecondsAfterEnd    int

	Target          ffmpeg.Target
	ResultFrames    int
	ResultFrameRate int

	Jobs int
}

// OptionsFromConfig maps application configuration onto run options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		OutputDir:           cfg.OutputDir,
		ExtractVideos:       cfg.Extract.Videos,
		ExtractResultImages: cfg.Extract.ResultImages,
		ExtractResultVideos: cfg.Extract.ResultVideos,
		ProduceFinalVideos:  cfg.Extract.FinalVideos,
		Copy:                cfg.Extract.Copy,
		SecondsBeforeStart:  cfg.Timing.SecondsBeforeStart,
		SecondsMatchLength:  cfg.Timing.SecondsMatchLength,
		SecondsAfterEnd:     cfg.Timing.SecondsAfterEnd,
		Target:              ffmpeg.Target(cfg.FFmpeg.Target),
		ResultFrames:        cfg.ResultVideo.Frames,
		ResultFrameRate:     cfg.ResultVideo.FrameRate,
		Jobs:                cfg.Jobs,
	}
}

// Window returns the clip span for a match that started at started.
func (o Options) Window(started time.Time) Window {
	before := time.Duration(o.SecondsBeforeStart) * time.Second
	return Window{
		Start:    started.Add(-before),
		Duration: time.Duration(o.SecondsBeforeStart+o.SecondsMatchLength+o.SecondsAfterEnd) * time.Second,
	}
}

// Prefix is the stable file name stem for a match's outputs:
// {event code}_{short id}_{start as YYYYMMDD_HHMMSS in the event's zone}.
func Prefix(event *catalog.Event, m *catalog.Match) string {
	started := m.Started
	if event.Location != nil {
		started = started.In(event.Location)
	}
	return event.Code + "_" + m.ShortIdentifier() + "_" + util.FormatStamp(started)
}

// OutputPath joins the output directory with a prefixed file name.
func (o Options) OutputPath(prefix, suffix, ext string) string {
	return filepath.Join(o.OutputDir, prefix+"_"+suffix+"."+ext)
}
