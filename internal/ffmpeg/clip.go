package ffmpeg

import (
	"context"
	"fmt"
	"time"

	"github.com/kikiluvv/ftcvideo/pkg/util"
)

// clipArgs builds the input and codec flags for ExtractClip.
func clipArgs(input string, opts ClipOptions) []string {
	args := []string{
		"-ss", util.FormatSeconds(opts.Offset),
		"-i", input,
		"-t", util.FormatSeconds(opts.Duration),
		"-map", "0:v:0",
		"-map", "0:a:0?",
	}

	if opts.Copy {
		args = append(args, "-c:v", "copy", "-c:a", "copy")
	} else {
		args = append(args, opts.Target.Args()...)
	}
	return args
}

// ExtractClip cuts opts.Duration from input starting opts.Offset in
func (e *Executor) ExtractClip(ctx context.Context, input string, opts ClipOptions) error {
	if opts.Duration <= 0 {
		return fmt.Errorf("invalid clip duration: %s", opts.Duration)
	}
	if opts.Offset < 0 {
		return fmt.Errorf("invalid clip offset: %s", opts.Offset)
	}

	e.logger.Info().
		Str("input", input).
		Str("output", opts.Output).
		Dur("offset", opts.Offset).
		Dur("duration", opts.Duration).
		Bool("copy_codec", opts.Copy).
		Msg("extracting clip")

	if err := e.runToFile(ctx, opts.Output, clipArgs(input, opts), opts.ProgressFunc); err != nil {
		return fmt.Errorf("clip extraction failed: %w", err)
	}

	e.logger.Info().Str("output", opts.Output).Msg("clip extraction complete")
	return nil
}

// screenshotArgs builds the flags for a single-frame grab.
func screenshotArgs(input string, offset time.Duration) []string {
	return []string{
		"-ss", util.FormatSeconds(offset),
		"-i", input,
		"-frames:v", "1",
		"-an",
		"-c:v", "png",
	}
}

// Screenshot saves the frame at offset as a PNG
func (e *Executor) Screenshot(ctx context.Context, input string, offset time.Duration, output string) error {
	if offset < 0 {
		return fmt.Errorf("invalid screenshot offset: %s", offset)
	}

	e.logger.Info().
		Str("input", input).
		Str("output", output).
		Dur("offset", offset).
		Msg("capturing screenshot")

	if err := e.runToFile(ctx, output, screenshotArgs(input, offset), nil); err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}
	return nil
}

// stillArgs builds the flags for LoopStill.
func stillArgs(image string, opts StillOptions) []string {
	length := time.Duration(opts.Frames) * time.Second / time.Duration(opts.FrameRate)
	rate := fmt.Sprintf("%d", opts.FrameRate)
	silence := fmt.Sprintf("anullsrc=channel_layout=%s:sample_rate=%d",
		opts.Target.ChannelLayout(), opts.Target.sampleRate())

	args := []string{
		"-loop", "1",
		"-framerate", rate,
		"-i", image,
		"-f", "lavfi",
		"-i", silence,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-frames:v", fmt.Sprintf("%d", opts.Frames),
		"-t", util.FormatDuration(length),
	}
	// The target rate, when set, comes with the encoding flags.
	if opts.Target.FrameRate == 0 {
		args = append(args, "-r", rate)
	}
	return append(args, opts.Target.Args()...)
}

// LoopStill turns a still image into a fixed-length video with a silent
// audio track, encoded to opts.Target.
func (e *Executor) LoopStill(ctx context.Context, image string, opts StillOptions) error {
	if opts.Frames <= 0 || opts.FrameRate <= 0 {
		return fmt.Errorf("invalid still video shape: %d frames at %d fps", opts.Frames, opts.FrameRate)
	}

	e.logger.Info().
		Str("input", image).
		Str("output", opts.Output).
		Int("frames", opts.Frames).
		Int("frame_rate", opts.FrameRate).
		Msg("rendering still video")

	if err := e.runToFile(ctx, opts.Output, stillArgs(image, opts), nil); err != nil {
		return fmt.Errorf("still video failed: %w", err)
	}
	return nil
}
