package ffmpeg

import (
	"fmt"
	"strconv"
)

// Target is the encoding every re-encoded output is normalized to, so that
// clips and result videos can be joined without another encode.
type Target struct {
	VideoCodec   string
	Preset       string
	CRF          int
	MaxRate      string
	BufSize      string
	PixelFormat  string
	Profile      string
	Level        string
	FrameRate    int
	AudioCodec   string
	AudioBitrate string
	SampleRate   int
	Channels     int
}

// DefaultTarget is 30 fps H.264 high@4.1 with a bitrate ceiling and 48 kHz
// stereo AAC.
func DefaultTarget() Target {
	return Target{
		VideoCodec:   "libx264",
		Preset:       "veryfast",
		CRF:          20,
		MaxRate:      "8M",
		BufSize:      "16M",
		PixelFormat:  "yuv420p",
		Profile:      "high",
		Level:        "4.1",
		FrameRate:    30,
		AudioCodec:   "aac",
		AudioBitrate: "192k",
		SampleRate:   48000,
		Channels:     2,
	}
}

// VideoArgs returns the output video encoding flags
func (t Target) VideoArgs() []string {
	args := []string{"-c:v", t.VideoCodec}
	if t.Preset != "" {
		args = append(args, "-preset", t.Preset)
	}
	if t.CRF > 0 {
		args = append(args, "-crf", strconv.Itoa(t.CRF))
	}
	if t.MaxRate != "" {
		args = append(args, "-maxrate", t.MaxRate)
	}
	if t.BufSize != "" {
		args = append(args, "-bufsize", t.BufSize)
	}
	if t.PixelFormat != "" {
		args = append(args, "-pix_fmt", t.PixelFormat)
	}
	if t.Profile != "" {
		args = append(args, "-profile:v", t.Profile)
	}
	if t.Level != "" {
		args = append(args, "-level:v", t.Level)
	}
	if t.FrameRate > 0 {
		args = append(args, "-r", strconv.Itoa(t.FrameRate))
	}
	return args
}

// AudioArgs returns the output audio encoding flags
func (t Target) AudioArgs() []string {
	args := []string{"-c:a", t.AudioCodec}
	if t.AudioBitrate != "" {
		args = append(args, "-b:a", t.AudioBitrate)
	}
	if t.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(t.SampleRate))
	}
	if t.Channels > 0 {
		args = append(args, "-ac", strconv.Itoa(t.Channels))
	}
	return args
}

// Args returns video then audio encoding flags
func (t Target) Args() []string {
	return append(t.VideoArgs(), t.AudioArgs()...)
}

// ChannelLayout names the layout matching Channels
func (t Target) ChannelLayout() string {
	switch t.Channels {
	case 1:
		return "mono"
	case 0, 2:
		return "stereo"
	default:
		return fmt.Sprintf("%dc", t.Channels)
	}
}

func (t Target) sampleRate() int {
	if t.SampleRate > 0 {
		return t.SampleRate
	}
	return 48000
}
