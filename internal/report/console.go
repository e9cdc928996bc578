// Package report prints human-readable progress for an extraction run.
package report

import (
	"fmt"
	"io"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/kikiluvv/ftcvideo/internal/catalog"
	"github.com/kikiluvv/ftcvideo/internal/pipeline"
	"github.com/kikiluvv/ftcvideo/internal/segments"
)

var title = cases.Title(language.English)

// stageLabels are printed before each stage outcome.
var stageLabels = map[pipeline.Stage]string{
	pipeline.StageMatchClip:   "Extracting match video",
	pipeline.StageResultImage: "Extracting match score screenshot",
	pipeline.StageResultVideo: "Making match score screenshot video",
	pipeline.StageFinalVideo:  "Joining final video",
}

// Console writes per-match progress to w. It implements pipeline.Reporter.
type Console struct {
	mu    sync.Mutex
	w     io.Writer
	event *catalog.Event
}

// NewConsole creates a console reporter for event.
func NewConsole(w io.Writer, event *catalog.Event) *Console {
	return &Console{w: w, event: event}
}

func (c *Console) PhaseStarted(p *catalog.Phase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "Starting %s...\n\n", p.Name())
}

func (c *Console) PhaseFinished(p *catalog.Phase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "Completed %s.\n\n", p.Name())
}

func (c *Console) MatchFinished(r *pipeline.MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := r.Match
	if m.Played() {
		fmt.Fprintf(c.w, "%s starting at %s:\n", m.LongName(), m.Started.Format(time.DateTime+" -07:00"))
	} else {
		fmt.Fprintf(c.w, "%s not played:\n", m.LongName())
	}

	if c.event != nil {
		long, short := Titles(c.event, m)
		fmt.Fprintf(c.w, "  Long Title (%d characters):\n%s\n", Length(long), long)
		fmt.Fprintf(c.w, "  Short Title (%d characters):\n%s\n", Length(short), short)
	}

	for _, a := range catalog.Alliances {
		fmt.Fprintf(c.w, "%s Alliance, %s:\n", title.String(string(a)), m.ResultFor(a))
		for _, e := range m.TeamsFor(a) {
			fmt.Fprintf(c.w, "  %s\n", e.Team.FullDescription())
		}
	}

	for _, sr := range r.Results {
		if line := StageLine(sr); line != "" {
			fmt.Fprintf(c.w, "  %s\n", line)
		}
	}
	fmt.Fprintln(c.w)
}

// StageLine renders one stage outcome, or "" for stages that were switched off.
func StageLine(sr pipeline.StageResult) string {
	label := stageLabels[sr.Stage]
	switch sr.Outcome {
	case pipeline.Produced:
		return label + "... OK."
	case pipeline.Absent:
		return fmt.Sprintf("%s... %s.", label, sr.Reason)
	case pipeline.Failed:
		return label + "... failed."
	case pipeline.Skipped:
		if sr.Reason == "disabled" {
			return ""
		}
		return fmt.Sprintf("%s... skipped (%s).", label, sr.Reason)
	}
	return ""
}

// Titles builds the upload titles for a match.
func Titles(event *catalog.Event, m *catalog.Match) (long, short string) {
	long = fmt.Sprintf("%s at %s", m.LongDescription(), event.Name)
	short = fmt.Sprintf("%s at %s", m.ShortDescription(), event.Name)
	if !event.Start.IsZero() {
		short += " on " + event.Start.Format("January 2, 2006")
	}
	return long, short
}

// Length counts the characters of s as a viewer would see them.
func Length(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(s))
}

// PrintEventSummary writes the event, phase and team overview.
func PrintEventSummary(w io.Writer, event *catalog.Event) {
	fmt.Fprintln(w, "Event:")
	fmt.Fprintf(w, "  League  : %s\n", event.League)
	fmt.Fprintf(w, "  Name    : %s\n", event.Name)
	if event.Start.IsZero() {
		fmt.Fprintln(w, "  Date    : unknown")
	} else {
		fmt.Fprintf(w, "  Date    : %s\n", event.Start.Format(time.DateOnly))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Phases:")
	for _, p := range event.Phases {
		fmt.Fprintf(w, "  %-20s:%3d matches\n", p.Name(), len(p.Matches))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Teams:")
	for _, t := range event.Teams {
		name, location := t.Name, t.Location()
		if name == "" {
			name = "Unknown"
		}
		if location == "" {
			location = "Unknown"
		}
		fmt.Fprintf(w, "  %5d %-40s %s\n", t.Number, name, location)
	}
	fmt.Fprintln(w)
}

// PrintSegments lists the registered recordings and any overlaps between them.
func PrintSegments(w io.Writer, ix *segments.Index) {
	fmt.Fprintln(w, "Recordings:")
	for _, s := range ix.Segments() {
		fmt.Fprintf(w, "  %s  %s - %s  (%s)\n",
			s.SourcePath,
			s.Start.Format(time.DateTime),
			s.End().Format(time.TimeOnly),
			s.Duration.Truncate(time.Second))
	}
	if ix.Len() == 0 {
		fmt.Fprintln(w, "  none")
	}

	if overlaps := ix.Overlaps(); len(overlaps) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Overlaps:")
		for _, o := range overlaps {
			fmt.Fprintf(w, "  %s overlaps %s; %s is used\n",
				o.Second.SourcePath, o.First.SourcePath, o.First.SourcePath)
		}
	}
	fmt.Fprintln(w)
}

// PrintTotals writes the per-stage outcome counts of a finished batch.
func PrintTotals(w io.Writer, b *pipeline.BatchResult) {
	fmt.Fprintln(w, "Totals:")
	for _, s := range pipeline.Stages {
		fmt.Fprintf(w, "  %-14s produced %3d  absent %3d  failed %3d  skipped %3d\n",
			s,
			b.Count(s, pipeline.Produced),
			b.Count(s, pipeline.Absent),
			b.Count(s, pipeline.Failed),
			b.Count(s, pipeline.Skipped))
	}
	fmt.Fprintf(w, "Done in %s.\n", b.Elapsed.Truncate(time.Millisecond))
}
