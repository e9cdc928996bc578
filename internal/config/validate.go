package config

import (
	"fmt"
	"strings"

	"github.com/kikiluvv/ftcvideo/pkg/util"
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errors []string

	if c.EventDB == "" {
		errors = append(errors, "event database is required")
	} else if !util.FileExists(c.EventDB) {
		errors = append(errors, fmt.Sprintf("event database does not exist: %s", c.EventDB))
	}

	if c.MetadataFile != "" && !util.FileExists(c.MetadataFile) {
		errors = append(errors, fmt.Sprintf("metadata file does not exist: %s", c.MetadataFile))
	}

	if c.OutputDir == "" {
		errors = append(errors, "output directory is required")
	}

	loc, err := c.Location()
	if err != nil {
		errors = append(errors, fmt.Sprintf("time zone: %v", err))
	} else {
		for _, r := range c.Recordings {
			if r.Path == "" {
				errors = append(errors, "recording path cannot be empty")
				continue
			}
			if _, err := r.StartTime(loc); err != nil {
				errors = append(errors, err.Error())
			}
		}
	}

	if err := c.Timing.Validate(); err != nil {
		errors = append(errors, fmt.Sprintf("timing: %v", err))
	}

	if c.Jobs < 1 {
		errors = append(errors, "jobs must be at least 1")
	}

	if c.FFmpeg.Timeout <= 0 {
		errors = append(errors, "ffmpeg timeout must be positive")
	}

	if c.FFmpeg.Threads < 0 {
		errors = append(errors, "ffmpeg threads cannot be negative (use 0 for auto-detect)")
	}

	if err := c.FFmpeg.Target.Validate(); err != nil {
		errors = append(errors, fmt.Sprintf("target: %v", err))
	}

	if c.ResultVideo.Frames <= 0 {
		errors = append(errors, "result video frames must be positive")
	}
	if c.ResultVideo.FrameRate <= 0 {
		errors = append(errors, "result video frame rate must be positive")
	} else if fr := c.FFmpeg.Target.FrameRate; fr > 0 && c.ResultVideo.FrameRate != fr {
		errors = append(errors, fmt.Sprintf("result video frame rate %d must match target frame rate %d", c.ResultVideo.FrameRate, fr))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// Validate checks the clip window offsets
func (t *TimingConfig) Validate() error {
	var errors []string

	if t.SecondsBeforeStart < 0 {
		errors = append(errors, "seconds before match start cannot be negative")
	}
	if t.SecondsMatchLength <= 0 {
		errors = append(errors, "match length must be positive")
	}
	if t.SecondsAfterEnd < 0 {
		errors = append(errors, "seconds after match end cannot be negative")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}
	return nil
}

// Validate checks the encoding target
func (t *TargetConfig) Validate() error {
	var errors []string

	if t.VideoCodec == "" {
		errors = append(errors, "video codec is required")
	}
	if t.FrameRate < 0 {
		errors = append(errors, "frame rate cannot be negative (use 0 to keep the source rate)")
	}
	if t.CRF < 0 || t.CRF > 51 {
		errors = append(errors, fmt.Sprintf("crf %d out of range 0-51", t.CRF))
	}
	if t.AudioCodec == "" {
		errors = append(errors, "audio codec is required")
	}
	if t.SampleRate <= 0 {
		errors = append(errors, "sample rate must be positive")
	}
	if t.Channels <= 0 {
		errors = append(errors, "channels must be positive")
	} else if t.Channels > 8 {
		errors = append(errors, "channels cannot exceed 8")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}
	return nil
}
