package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Concat joins the inputs end to end.
//
// By default the concat demuxer stream-copies, which requires every input to
// share codecs and parameters. With ReEncode each input is normalized through
// the concat filter and encoded to Target.
func (e *Executor) Concat(ctx context.Context, opts ConcatOptions) error {
	if len(opts.Inputs) == 0 {
		return fmt.Errorf("no input files provided")
	}
	if opts.Output == "" {
		return fmt.Errorf("output path is required")
	}

	e.logger.Info().
		Int("inputs", len(opts.Inputs)).
		Str("output", opts.Output).
		Bool("re_encode", opts.ReEncode).
		Msg("concatenating videos")

	var args []string
	if opts.ReEncode {
		args = concatFilterArgs(opts.Inputs, opts.Target)
	} else {
		// Create temporary concat file list
		concatFile, err := e.createConcatFile(opts.Inputs)
		if err != nil {
			return fmt.Errorf("failed to create concat file: %w", err)
		}
		defer os.Remove(concatFile)

		args = concatDemuxerArgs(concatFile)
	}

	if err := e.runToFile(ctx, opts.Output, args, opts.ProgressFunc); err != nil {
		return fmt.Errorf("concat failed: %w", err)
	}
	return nil
}

func concatDemuxerArgs(listFile string) []string {
	return []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-map", "0",
		"-c", "copy",
	}
}

// concatFilterArgs builds a filter graph that normalizes every input's first
// video and audio stream, then joins them with the concat filter.
func concatFilterArgs(inputs []string, target Target) []string {
	var args []string
	var chains []string
	var pads strings.Builder

	for i, input := range inputs {
		args = append(args, "-i", input)

		v := fmt.Sprintf("v%d", i)
		a := fmt.Sprintf("a%d", i)
		chains = append(chains,
			NewFilterBuilder().Format(target.PixelFormat).SquarePixels().Chain(fmt.Sprintf("%d:v:0", i), v),
			NewFilterBuilder().Resample(target.sampleRate(), target.ChannelLayout()).Chain(fmt.Sprintf("%d:a:0", i), a),
		)
		fmt.Fprintf(&pads, "[%s][%s]", v, a)
	}

	concat := fmt.Sprintf("%sconcat=n=%d:v=1:a=1[v][a]", pads.String(), len(inputs))
	graph := strings.Join(append(chains, concat), ";")

	args = append(args,
		"-filter_complex", graph,
		"-map", "[v]",
		"-map", "[a]",
	)
	return append(args, target.Args()...)
}

// createConcatFile generates a temporary file list for ffmpeg concat
func (e *Executor) createConcatFile(inputs []string) (string, error) {
	tmpFile, err := os.CreateTemp("", "ftcvideo-concat-*.txt")
	if err != nil {
		return "", err
	}
	defer tmpFile.Close()

	for _, input := range inputs {
		absPath, err := filepath.Abs(input)
		if err != nil {
			return "", err
		}
		quoted := strings.ReplaceAll(absPath, "'", `'\''`)
		if _, err := fmt.Fprintf(tmpFile, "file '%s'\n", quoted); err != nil {
			return "", err
		}
	}

	return tmpFile.Name(), nil
}
