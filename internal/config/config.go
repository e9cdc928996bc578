package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"github.com/kikiluvv/ftcvideo/internal/ffmpeg"
	"github.com/kikiluvv/ftcvideo/pkg/util"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// Inputs
	EventDB      string      `yaml:"event_db"`
	Recordings   []Recording `yaml:"recordings"`
	MetadataFile string      `yaml:"metadata_file,omitempty"`
	TimeZone     string      `yaml:"time_zone"`

	// Outputs
	OutputDir   string `yaml:"output_dir"`
	MetricsFile string `yaml:"metrics_file,omitempty"`
	Jobs        int    `yaml:"jobs"`

	Extract     ExtractConfig     `yaml:"extract"`
	Timing      TimingConfig      `yaml:"timing"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	ResultVideo ResultVideoConfig `yaml:"result_video"`
}

// Recording is a source video and, optionally, the absolute time it starts
// at. Without Start the time is read from the file name.
type Recording struct {
	Path  string `yaml:"path"`
	Start string `yaml:"start,omitempty"`
}

// ExtractConfig selects which outputs are produced per match
type ExtractConfig struct {
	Videos       bool `yaml:"videos"`
	ResultImages bool `yaml:"result_images"`
	ResultVideos bool `yaml:"result_videos"`
	FinalVideos  bool `yaml:"final_videos"`
	Copy         bool `yaml:"copy"`
}

// TimingConfig shapes the match clip window, in whole seconds
type TimingConfig struct {
	SecondsBeforeStart int `yaml:"seconds_before_match_start"`
	SecondsMatchLength int `yaml:"seconds_match_length"`
	SecondsAfterEnd    int `yaml:"seconds_after_match_end"`
}

type FFmpegConfig struct {
	BinaryPath  string        `yaml:"binary_path"`
	FFprobePath string        `yaml:"ffprobe_path"`
	Threads     int           `yaml:"threads"`
	Timeout     time.Duration `yaml:"timeout"`
	Target      TargetConfig  `yaml:"target"`
}

// TargetConfig is the encoding every re-encoded output is normalized to.
// Its fields mirror ffmpeg.Target one for one so the two convert directly.
type TargetConfig struct {
	VideoCodec   string `yaml:"video_codec"`
	Preset       string `yaml:"preset"`
	CRF          int    `yaml:"crf"`
	MaxRate      string `yaml:"max_rate"`
	BufSize      string `yaml:"buf_size"`
	PixelFormat  string `yaml:"pixel_format"`
	Profile      string `yaml:"profile"`
	Level        string `yaml:"level"`
	FrameRate    int    `yaml:"frame_rate"`
	AudioCodec   string `yaml:"audio_codec"`
	AudioBitrate string `yaml:"audio_bitrate"`
	SampleRate   int    `yaml:"sample_rate"`
	Channels     int    `yaml:"channels"`
}

type ResultVideoConfig struct {
	Frames    int `yaml:"frames"`
	FrameRate int `yaml:"frame_rate"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes configuration to file atomically
func (c *Config) Save(path string) error {
	if err := util.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return renameio.WriteFile(path, data, 0o644)
}

// WriteTo prints the configuration as YAML
func (c *Config) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return 0, err
	}
	if err := enc.Close(); err != nil {
		return 0, err
	}

	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		OutputDir: ".",
		TimeZone:  util.DefaultZone,
		Jobs:      1,
		Timing: TimingConfig{
			SecondsBeforeStart: 10,
			SecondsMatchLength: 150,
			SecondsAfterEnd:    30,
		},
		FFmpeg: FFmpegConfig{
			Timeout: 30 * time.Minute,
			Target:  TargetConfig(ffmpeg.DefaultTarget()),
		},
		ResultVideo: ResultVideoConfig{
			Frames:    300,
			FrameRate: 30,
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./ftcvideo.yaml",
		"./ftcvideo.yml",
		filepath.Join(os.Getenv("HOME"), ".ftcvideo", "config.yaml"),
	}

	for _, path := range candidates {
		if util.FileExists(path) {
			return path
		}
	}

	return ""
}

// Location resolves the configured time zone
func (c *Config) Location() (*time.Location, error) {
	return util.ParseZone(c.TimeZone)
}

// ParseRecording splits a command-line recording argument. A trailing
// "@<RFC3339 time>" sets the start explicitly; anything else is a plain path.
func ParseRecording(arg string) Recording {
	if i := strings.LastIndex(arg, "@"); i > 0 {
		if _, err := time.Parse(time.RFC3339, arg[i+1:]); err == nil {
			return Recording{Path: arg[:i], Start: arg[i+1:]}
		}
	}
	return Recording{Path: arg}
}

// StartTime returns the absolute start of the recording.
func (r Recording) StartTime(loc *time.Location) (time.Time, error) {
	if r.Start != "" {
		t, err := time.Parse(time.RFC3339, r.Start)
		if err != nil {
			return time.Time{}, fmt.Errorf("recording %s: invalid start %q: %w", r.Path, r.Start, err)
		}
		return t, nil
	}

	t, ok := util.TimeFromFilename(r.Path, loc)
	if !ok {
		return time.Time{}, fmt.Errorf("recording %s: no YYYYMMDDHHMMSS start time in file name", r.Path)
	}
	return t, nil
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return Default()
}
