package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// durationArgs asks ffprobe for the container duration only, as a bare number.
func durationArgs(filePath string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		filePath,
	}
}

// Duration returns the container duration of a recording
func (e *Executor) Duration(ctx context.Context, filePath string) (time.Duration, error) {
	if filePath == "" {
		return 0, fmt.Errorf("file path is required")
	}

	args := durationArgs(filePath)

	runCtx, cancel := e.withTimeout(ctx)
	defer cancel()

	cmd := exec.CommandContext(runCtx, e.ffprobePath, args...)
	output, err := cmd.Output()
	if err != nil {
		var stderr []string
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			stderr = []string{string(exitErr.Stderr)}
		}
		return 0, &ExitError{Args: args, Stderr: stderr, Err: fmt.Errorf("ffprobe failed: %w", err)}
	}

	d, err := parseDuration(output)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", filePath, err)
	}
	return d, nil
}

// parseDuration reads ffprobe's seconds value, e.g. "5400.033000".
func parseDuration(out []byte) (time.Duration, error) {
	s := strings.TrimSpace(string(out))
	if s == "" || s == "N/A" {
		return 0, errors.New("no duration reported")
	}

	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad duration %q: %w", s, err)
	}
	if secs <= 0 {
		return 0, fmt.Errorf("bad duration %q", s)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
