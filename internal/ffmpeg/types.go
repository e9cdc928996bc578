package ffmpeg

import "time"

// Progress represents ffmpeg progress data
type Progress struct {
	Frame   int
	FPS     float64
	Bitrate string
	Time    string
	Speed   string
}

// RunOptions configures ffmpeg execution
type RunOptions struct {
	Args            []string
	ProgressHandler func(*Progress)
	LogHandler      func(line string)
}

// ProgressFunc is a callback for progress updates during ffmpeg operations.
// Called periodically with progress information as the operation executes.
type ProgressFunc func(*Progress)

// ClipOptions defines clip extraction parameters
type ClipOptions struct {
	Offset       time.Duration // seek position in the input, whole seconds
	Duration     time.Duration
	Output       string
	Copy         bool // stream copy instead of encoding to Target
	Target       Target
	ProgressFunc ProgressFunc
}

// StillOptions defines how a still image is turned into a short video
type StillOptions struct {
	Output    string
	Frames    int
	FrameRate int
	Target    Target
}

// ConcatOptions defines concatenation parameters
type ConcatOptions struct {
	Inputs       []string
	Output       string
	ReEncode     bool // concat filter + Target instead of demuxer stream copy
	Target       Target
	ProgressFunc ProgressFunc
}
