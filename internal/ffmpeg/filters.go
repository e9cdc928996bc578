package ffmpeg

import (
	"fmt"
	"strings"
)

// FilterBuilder helps construct complex ffmpeg filter chains
type FilterBuilder struct {
	filters []string
}

// NewFilterBuilder creates a new filter builder
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{
		filters: make([]string, 0),
	}
}

// Format converts frames to a pixel format
func (fb *FilterBuilder) Format(pixFmt string) *FilterBuilder {
	if pixFmt == "" {
		return fb
	}
	fb.filters = append(fb.filters, "format="+pixFmt)
	return fb
}

// SquarePixels resets the sample aspect ratio to 1:1
func (fb *FilterBuilder) SquarePixels() *FilterBuilder {
	fb.filters = append(fb.filters, "setsar=1")
	return fb
}

// Resample converts audio to a sample rate and channel layout
func (fb *FilterBuilder) Resample(sampleRate int, layout string) *FilterBuilder {
	if sampleRate > 0 {
		fb.filters = append(fb.filters, fmt.Sprintf("aresample=%d", sampleRate))
	}
	if layout != "" {
		fb.filters = append(fb.filters, "aformat=channel_layouts="+layout)
	}
	return fb
}

// Custom adds a custom filter string
func (fb *FilterBuilder) Custom(filter string) *FilterBuilder {
	fb.filters = append(fb.filters, filter)
	return fb
}

// Build returns the complete filter string joined with commas
func (fb *FilterBuilder) Build() string {
	if len(fb.filters) == 0 {
		return ""
	}
	return strings.Join(fb.filters, ",")
}

// Chain wraps the built filters with input and output pad labels, e.g.
// "[0:v:0]format=yuv420p[v0]". An empty chain passes through as "null".
func (fb *FilterBuilder) Chain(in, out string) string {
	body := fb.Build()
	if body == "" {
		body = "null"
	}
	return fmt.Sprintf("[%s]%s[%s]", in, body, out)
}
