package util

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// StampLayout is the timestamp layout used in output file names.
const StampLayout = "20060102_150405"

// DefaultZone is the UTC offset recordings are stamped in when none is configured.
const DefaultZone = "-08:00"

var filenameTime = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})(\d{2})(\d{2})(\d{2})`)

var nonDigit = regexp.MustCompile(`[^\d]`)

// FormatDuration converts time.Duration to ffmpeg timestamp format
func FormatDuration(d time.Duration) string {
	seconds := d.Seconds()
	hours := int(seconds / 3600)
	minutes := int((seconds - float64(hours*3600)) / 60)
	secs := seconds - float64(hours*3600) - float64(minutes*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", hours, minutes, secs)
}

// FormatSeconds renders a duration as whole seconds, the granularity ffmpeg
// seeks are issued with.
func FormatSeconds(d time.Duration) string {
	return strconv.FormatInt(int64(d/time.Second), 10)
}

// FormatStamp formats t for use in a file name.
func FormatStamp(t time.Time) string {
	return t.Format(StampLayout)
}

// TimeFromFilename extracts the recording start time from a file name.
//
// All non-digit characters of the base name are dropped and the leading
// YYYYMMDDHHMMSS run is interpreted in loc, so "2020-02-15 09-00-00.mkv" and
// "20200215090000.mkv" both yield 2020-02-15 09:00:00.
func TimeFromFilename(path string, loc *time.Location) (time.Time, bool) {
	digits := nonDigit.ReplaceAllString(filepath.Base(path), "")
	m := filenameTime.FindStringSubmatch(digits)
	if m == nil {
		return time.Time{}, false
	}

	parts := make([]int, 6)
	for i := range parts {
		parts[i], _ = strconv.Atoi(m[i+1])
	}

	t := time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], 0, loc)

	// time.Date normalizes out-of-range fields; reject anything that moved.
	if t.Month() != time.Month(parts[1]) || t.Day() != parts[2] ||
		t.Hour() != parts[3] || t.Minute() != parts[4] || t.Second() != parts[5] {
		return time.Time{}, false
	}

	return t, true
}

// ParseZone resolves a fixed UTC offset ("-08:00", "+0530", "Z") or an IANA
// zone name ("America/Los_Angeles").
func ParseZone(s string) (*time.Location, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = DefaultZone
	}
	if s == "Z" || s == "UTC" {
		return time.UTC, nil
	}

	if s[0] == '+' || s[0] == '-' {
		for _, layout := range []string{"-07:00", "-0700", "-07"} {
			if t, err := time.Parse(layout, s); err == nil {
				_, offset := t.Zone()
				return time.FixedZone(s, offset), nil
			}
		}
		return nil, fmt.Errorf("invalid UTC offset: %s", s)
	}

	loc, err := time.LoadLocation(s)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", s, err)
	}
	return loc, nil
}
