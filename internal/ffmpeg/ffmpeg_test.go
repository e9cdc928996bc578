package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestTargetArgs(t *testing.T) {
	got := DefaultTarget().Args()
	want := []string{
		"-c:v", "libx264", "-preset", "veryfast", "-crf", "20",
		"-maxrate", "8M", "-bufsize", "16M", "-pix_fmt", "yuv420p",
		"-profile:v", "high", "-level:v", "4.1", "-r", "30",
		"-c:a", "aac", "-b:a", "192k", "-ar", "48000", "-ac", "2",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected target args:\n got %v\nwant %v", got, want)
	}
}

func TestTargetArgsSkipsEmptyFields(t *testing.T) {
	got := Target{VideoCodec: "libx265", AudioCodec: "opus"}.Args()
	want := []string{"-c:v", "libx265", "-c:a", "opus"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestChannelLayout(t *testing.T) {
	tests := map[int]string{0: "stereo", 1: "mono", 2: "stereo", 6: "6c"}
	for channels, want := range tests {
		if got := (Target{Channels: channels}).ChannelLayout(); got != want {
			t.Errorf("channels %d: expected %q, got %q", channels, want, got)
		}
	}
}

func TestClipArgsCopy(t *testing.T) {
	got := clipArgs("field.mkv", ClipOptions{Offset: 1790 * time.Second, Duration: 190 * time.Second, Copy: true})
	want := []string{
		"-ss", "1790", "-i", "field.mkv", "-t", "190",
		"-map", "0:v:0", "-map", "0:a:0?",
		"-c:v", "copy", "-c:a", "copy",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected clip args:\n got %v\nwant %v", got, want)
	}
}

func TestClipArgsEncode(t *testing.T) {
	got := clipArgs("field.mkv", ClipOptions{Offset: 5 * time.Second, Duration: 10 * time.Second, Target: DefaultTarget()})
	joined := strings.Join(got, " ")

	if !strings.HasPrefix(joined, "-ss 5 -i field.mkv -t 10") {
		t.Errorf("seek must precede input: %s", joined)
	}
	if !strings.Contains(joined, "-c:v libx264") || !strings.Contains(joined, "-c:a aac") {
		t.Errorf("expected target codecs: %s", joined)
	}
	if strings.Contains(joined, "copy") {
		t.Errorf("encode must not stream copy: %s", joined)
	}
	if !strings.Contains(joined, "-r 30") {
		t.Errorf("expected target frame rate: %s", joined)
	}
}

func TestClipAndStillShareOutputRate(t *testing.T) {
	target := DefaultTarget()
	target.FrameRate = 25

	clip := clipArgs("field.mkv", ClipOptions{Offset: time.Second, Duration: time.Second, Target: target})
	still := stillArgs("score.png", StillOptions{Frames: 250, FrameRate: 25, Target: target})

	for name, args := range map[string][]string{"clip": clip, "still": still} {
		if got := outputRates(args); !reflect.DeepEqual(got, []string{"25"}) {
			t.Errorf("%s: expected a single -r 25, got %v in %v", name, got, args)
		}
	}
}

func TestStillArgsSourceRate(t *testing.T) {
	target := DefaultTarget()
	target.FrameRate = 0

	got := stillArgs("score.png", StillOptions{Frames: 300, FrameRate: 30, Target: target})
	if rates := outputRates(got); !reflect.DeepEqual(rates, []string{"30"}) {
		t.Errorf("expected the still rate as output rate, got %v", rates)
	}
}

func outputRates(args []string) []string {
	var rates []string
	for i, arg := range args {
		if arg == "-r" && i+1 < len(args) {
			rates = append(rates, args[i+1])
		}
	}
	return rates
}

func TestScreenshotArgs(t *testing.T) {
	got := screenshotArgs("field.mkv", 3723*time.Second)
	want := []string{"-ss", "3723", "-i", "field.mkv", "-frames:v", "1", "-an", "-c:v", "png"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestStillArgs(t *testing.T) {
	got := stillArgs("score.png", StillOptions{Frames: 300, FrameRate: 30, Target: DefaultTarget()})
	joined := strings.Join(got, " ")

	for _, want := range []string{
		"-loop 1 -framerate 30 -i score.png",
		"-f lavfi -i anullsrc=channel_layout=stereo:sample_rate=48000",
		"-frames:v 300",
		"-r 30",
		"-t 00:00:10.000",
		"-c:v libx264",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q in %s", want, joined)
		}
	}
}

func TestConcatDemuxerArgs(t *testing.T) {
	got := concatDemuxerArgs("/tmp/list.txt")
	want := []string{"-f", "concat", "-safe", "0", "-i", "/tmp/list.txt", "-map", "0", "-c", "copy"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestConcatFilterArgs(t *testing.T) {
	got := concatFilterArgs([]string{"a.mkv", "b.mkv"}, DefaultTarget())

	var graph string
	for i, arg := range got {
		if arg == "-filter_complex" {
			graph = got[i+1]
		}
	}

	want := "[0:v:0]format=yuv420p,setsar=1[v0];" +
		"[0:a:0]aresample=48000,aformat=channel_layouts=stereo[a0];" +
		"[1:v:0]format=yuv420p,setsar=1[v1];" +
		"[1:a:0]aresample=48000,aformat=channel_layouts=stereo[a1];" +
		"[v0][a0][v1][a1]concat=n=2:v=1:a=1[v][a]"
	if graph != want {
		t.Errorf("unexpected filter graph:\n got %s\nwant %s", graph, want)
	}

	if got[0] != "-i" || got[1] != "a.mkv" || got[2] != "-i" || got[3] != "b.mkv" {
		t.Errorf("inputs out of order: %v", got[:4])
	}
}

func TestCreateConcatFile(t *testing.T) {
	e := &Executor{}
	dir := t.TempDir()
	inputs := []string{filepath.Join(dir, "match.mkv"), filepath.Join(dir, "team's score.mkv")}

	list, err := e.createConcatFile(inputs)
	if err != nil {
		t.Fatalf("createConcatFile failed: %v", err)
	}
	defer os.Remove(list)

	data, err := os.ReadFile(list)
	if err != nil {
		t.Fatalf("read list: %v", err)
	}

	want := "file '" + inputs[0] + "'\n" +
		"file '" + filepath.Join(dir, `team'\''s score.mkv`) + "'\n"
	if string(data) != want {
		t.Errorf("unexpected list file:\n got %q\nwant %q", data, want)
	}
}

func TestFilterBuilder(t *testing.T) {
	fb := NewFilterBuilder()
	filter := fb.Format("yuv420p").SquarePixels().Build()

	expected := "format=yuv420p,setsar=1"
	if filter != expected {
		t.Errorf("expected %q, got %q", expected, filter)
	}
}

func TestFilterBuilderEmpty(t *testing.T) {
	fb := NewFilterBuilder()
	if filter := fb.Build(); filter != "" {
		t.Errorf("expected empty string, got %q", filter)
	}
	if chain := fb.Format("").Chain("0:v", "out"); chain != "[0:v]null[out]" {
		t.Errorf("expected passthrough chain, got %q", chain)
	}
}

func TestFilterBuilderChaining(t *testing.T) {
	filter := NewFilterBuilder().Resample(44100, "mono").Custom("volume=2").Chain("1:a:0", "a")

	expected := "[1:a:0]aresample=44100,aformat=channel_layouts=mono,volume=2[a]"
	if filter != expected {
		t.Errorf("expected %q, got %q", expected, filter)
	}
}

func TestMuxerFor(t *testing.T) {
	tests := map[string]string{
		"out/E_Q1_match.mkv": "matroska",
		"out/E_Q1_score.PNG": "image2",
		"clip.mp4":           "mp4",
	}
	for path, want := range tests {
		got, err := MuxerFor(path)
		if err != nil {
			t.Errorf("%s: unexpected error %v", path, err)
			continue
		}
		if got != want {
			t.Errorf("%s: expected %q, got %q", path, want, got)
		}
	}

	if _, err := MuxerFor("clip.avi"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestStreamOutputSeparatesProgress(t *testing.T) {
	e := &Executor{}
	input := strings.Join([]string{
		"Input #0, matroska,webm, from 'field.mkv':",
		"frame=120",
		"fps=59.94",
		"bitrate=1024.0kbits/s",
		"out_time=00:00:04.000000",
		"speed=2.01x",
		"progress=continue",
		"[matroska @ 0x1] Starting new cluster",
		"frame=240",
		"progress=end",
	}, "\n")

	var progress []Progress
	var logs []string
	e.streamOutput(strings.NewReader(input),
		func(p *Progress) { progress = append(progress, *p) },
		func(line string) { logs = append(logs, line) },
	)

	if len(progress) != 2 {
		t.Fatalf("expected 2 progress blocks, got %d", len(progress))
	}
	if progress[0].Frame != 120 || progress[0].Time != "00:00:04.000000" || progress[0].Speed != "2.01x" {
		t.Errorf("unexpected first block: %+v", progress[0])
	}
	if progress[1].Frame != 240 {
		t.Errorf("unexpected second block: %+v", progress[1])
	}
	if len(logs) != 2 {
		t.Errorf("expected 2 log lines, got %v", logs)
	}
}

func TestLineTail(t *testing.T) {
	tail := newLineTail(3)
	for _, l := range []string{"a", "b", "c", "d", "e"} {
		tail.add(l)
	}
	if got := tail.lines(); !reflect.DeepEqual(got, []string{"c", "d", "e"}) {
		t.Errorf("expected last 3 lines, got %v", got)
	}
}

func TestExitError(t *testing.T) {
	cause := errors.New("exit status 1")
	err := &ExitError{Stderr: []string{"first", "field.mkv: No such file or directory"}, Err: cause}

	if !errors.Is(err, cause) {
		t.Error("ExitError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "No such file or directory") {
		t.Errorf("error should carry last stderr line: %s", err)
	}
}

func TestResolveBinaryConfiguredMissing(t *testing.T) {
	_, err := resolveBinary(filepath.Join(t.TempDir(), "ffmpeg"), "ffmpeg")
	if err == nil {
		t.Error("expected error for missing configured binary")
	}
}

func TestOptionValidation(t *testing.T) {
	e := &Executor{}

	if err := e.ExtractClip(context.TODO(), "in.mkv", ClipOptions{Output: "out.mkv"}); err == nil {
		t.Error("ExtractClip should reject zero duration")
	}
	if err := e.Screenshot(context.TODO(), "in.mkv", -time.Second, "out.png"); err == nil {
		t.Error("Screenshot should reject negative offset")
	}
	if err := e.LoopStill(context.TODO(), "in.png", StillOptions{Output: "out.mkv"}); err == nil {
		t.Error("LoopStill should reject zero frames")
	}
	if err := e.Concat(context.TODO(), ConcatOptions{Output: "out.mkv"}); err == nil {
		t.Error("Concat should reject empty inputs")
	}
}

func TestDurationArgs(t *testing.T) {
	got := durationArgs("field.mkv")
	want := []string{"-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", "field.mkv"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		out     string
		want    time.Duration
		wantErr bool
	}{
		{out: "5400.033000\n", want: 5400*time.Second + 33*time.Millisecond},
		{out: "8", want: 8 * time.Second},
		{out: "N/A\n", wantErr: true},
		{out: "", wantErr: true},
		{out: "0.000000", wantErr: true},
		{out: "soon", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseDuration([]byte(tt.out))
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error, got %v", tt.out, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.out, err)
			continue
		}
		if diff := got - tt.want; diff < -time.Microsecond || diff > time.Microsecond {
			t.Errorf("%q: expected %v, got %v", tt.out, tt.want, got)
		}
	}
}
