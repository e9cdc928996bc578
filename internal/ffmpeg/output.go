package ffmpeg

import (
	"context"
	"fmt"

	"github.com/google/renameio/v2"

	"github.com/kikiluvv/ftcvideo/pkg/util"
)

// muxers maps output extensions to the ffmpeg format that writes them. The
// pending file ffmpeg writes to has no usable extension, so the format is
// always passed explicitly.
var muxers = map[string]string{
	"mkv": "matroska",
	"mp4": "mp4",
	"m4v": "mp4",
	"mov": "mov",
	"png": "image2",
	"jpg": "image2",
}

// MuxerFor returns the ffmpeg output format for a file name
func MuxerFor(output string) (string, error) {
	ext := util.GetExtension(output)
	muxer, ok := muxers[ext]
	if !ok {
		return "", fmt.Errorf("unsupported output extension %q", ext)
	}
	return muxer, nil
}

// runToFile runs ffmpeg with args followed by an output file, publishing
// output only if ffmpeg succeeds. A failed or interrupted run leaves
// whatever was at output before untouched.
func (e *Executor) runToFile(ctx context.Context, output string, args []string, progress ProgressFunc) error {
	muxer, err := MuxerFor(output)
	if err != nil {
		return err
	}

	pending, err := renameio.NewPendingFile(output, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending output: %w", err)
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			e.logger.Debug().Err(err).Str("output", output).Msg("cleanup pending output")
		}
	}()

	args = append(args, "-f", muxer)
	if muxer == "image2" {
		args = append(args, "-update", "1")
	}
	args = append(args, pending.Name())

	runOpts := RunOptions{
		Args:            args,
		ProgressHandler: progress,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Str("output", output).Send()
		},
	}

	if err := e.Run(ctx, runOpts); err != nil {
		return err
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", output, err)
	}
	return nil
}
