package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kikiluvv/ftcvideo/internal/ffmpeg"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, "-08:00", cfg.TimeZone)
	assert.Equal(t, 1, cfg.Jobs)
	assert.Equal(t, TimingConfig{SecondsBeforeStart: 10, SecondsMatchLength: 150, SecondsAfterEnd: 30}, cfg.Timing)
	assert.Equal(t, 30*time.Minute, cfg.FFmpeg.Timeout)
	assert.Equal(t, "libx264", cfg.FFmpeg.Target.VideoCodec)
	assert.Equal(t, 300, cfg.ResultVideo.Frames)
	assert.Equal(t, 30, cfg.ResultVideo.FrameRate)
	assert.False(t, cfg.Extract.Videos)
	assert.False(t, cfg.Extract.Copy)
}

func TestDefaultTargetIsEncoderDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ffmpeg.DefaultTarget(), ffmpeg.Target(cfg.FFmpeg.Target))
	assert.Equal(t, cfg.FFmpeg.Target.FrameRate, cfg.ResultVideo.FrameRate)
	assert.NoError(t, cfg.FFmpeg.Target.Validate())
}

func TestLoadMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ftcvideo.yaml", `
event_db: event.db
output_dir: out
recordings:
  - path: field_20200215_090000.mkv
  - path: pit.mkv
    start: 2020-02-15T09:00:00-08:00
extract:
  videos: true
  copy: true
timing:
  seconds_after_match_end: 45
ffmpeg:
  timeout: 5m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "event.db", cfg.EventDB)
	assert.Equal(t, "out", cfg.OutputDir)
	require.Len(t, cfg.Recordings, 2)
	assert.Equal(t, "2020-02-15T09:00:00-08:00", cfg.Recordings[1].Start)
	assert.True(t, cfg.Extract.Videos)
	assert.True(t, cfg.Extract.Copy)
	assert.Equal(t, 10, cfg.Timing.SecondsBeforeStart)
	assert.Equal(t, 45, cfg.Timing.SecondsAfterEnd)
	assert.Equal(t, 5*time.Minute, cfg.FFmpeg.Timeout)
	assert.Equal(t, "veryfast", cfg.FFmpeg.Target.Preset)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeFile(t, t.TempDir(), "bad.yaml", "jobs: [")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.EventDB = "event.db"
	cfg.Recordings = []Recording{{Path: "a.mkv", Start: "2020-02-15T09:00:00-08:00"}}

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestWriteTo(t *testing.T) {
	var buf bytes.Buffer
	_, err := Default().WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "seconds_match_length: 150")
	assert.Contains(t, buf.String(), "timeout: 30m0s")
}

func TestParseRecording(t *testing.T) {
	tests := []struct {
		arg  string
		want Recording
	}{
		{arg: "field.mkv", want: Recording{Path: "field.mkv"}},
		{arg: "field.mkv@2020-02-15T09:00:00-08:00", want: Recording{Path: "field.mkv", Start: "2020-02-15T09:00:00-08:00"}},
		{arg: "user@host/field.mkv", want: Recording{Path: "user@host/field.mkv"}},
		{arg: "@2020-02-15T09:00:00Z", want: Recording{Path: "@2020-02-15T09:00:00Z"}},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRecording(tt.arg))
		})
	}
}

func TestRecordingStartTime(t *testing.T) {
	loc := time.FixedZone("-08:00", -8*3600)

	got, err := Recording{Path: "/videos/field_20200215_090000.mkv"}.StartTime(loc)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2020, 2, 15, 9, 0, 0, 0, loc)))

	got, err = Recording{Path: "pit.mkv", Start: "2020-02-15T17:00:00Z"}.StartTime(loc)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2020, 2, 15, 9, 0, 0, 0, loc)))

	_, err = Recording{Path: "pit.mkv"}.StartTime(loc)
	assert.Error(t, err)

	_, err = Recording{Path: "pit.mkv", Start: "yesterday"}.StartTime(loc)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	db := writeFile(t, dir, "event.db", "")

	valid := func() *Config {
		cfg := Default()
		cfg.EventDB = db
		cfg.Recordings = []Recording{{Path: "field_20200215_090000.mkv"}}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "no event db", mutate: func(c *Config) { c.EventDB = "" }, wantErr: "event database is required"},
		{name: "missing event db", mutate: func(c *Config) { c.EventDB = filepath.Join(dir, "nope.db") }, wantErr: "does not exist"},
		{name: "missing metadata", mutate: func(c *Config) { c.MetadataFile = filepath.Join(dir, "nope.yaml") }, wantErr: "metadata file"},
		{name: "bad zone", mutate: func(c *Config) { c.TimeZone = "Mars/Olympus" }, wantErr: "time zone"},
		{name: "undated recording", mutate: func(c *Config) { c.Recordings = []Recording{{Path: "pit.mkv"}} }, wantErr: "no YYYYMMDDHHMMSS"},
		{name: "negative offset", mutate: func(c *Config) { c.Timing.SecondsBeforeStart = -1 }, wantErr: "cannot be negative"},
		{name: "zero match length", mutate: func(c *Config) { c.Timing.SecondsMatchLength = 0 }, wantErr: "match length"},
		{name: "zero jobs", mutate: func(c *Config) { c.Jobs = 0 }, wantErr: "jobs"},
		{name: "zero timeout", mutate: func(c *Config) { c.FFmpeg.Timeout = 0 }, wantErr: "timeout"},
		{name: "bad crf", mutate: func(c *Config) { c.FFmpeg.Target.CRF = 60 }, wantErr: "crf"},
		{name: "zero frames", mutate: func(c *Config) { c.ResultVideo.Frames = 0 }, wantErr: "frames"},
		{name: "negative target rate", mutate: func(c *Config) { c.FFmpeg.Target.FrameRate = -1 }, wantErr: "frame rate cannot be negative"},
		{name: "result rate differs from target", mutate: func(c *Config) { c.ResultVideo.FrameRate = 25 }, wantErr: "must match target frame rate 30"},
		{name: "source rate allows any result rate", mutate: func(c *Config) {
			c.FFmpeg.Target.FrameRate = 0
			c.ResultVideo.FrameRate = 25
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Jobs = 0
	cfg.ResultVideo.FrameRate = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event database is required")
	assert.Contains(t, err.Error(), "jobs must be at least 1")
	assert.Contains(t, err.Error(), "frame rate")
}

func TestContext(t *testing.T) {
	cfg := Default()
	cfg.EventDB = "x.db"

	ctx := WithConfig(context.Background(), cfg)
	assert.Same(t, cfg, FromContext(ctx))
	assert.Equal(t, Default(), FromContext(context.Background()))
}
