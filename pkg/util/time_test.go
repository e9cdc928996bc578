package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeFromFilename(t *testing.T) {
	pst := time.FixedZone("-08:00", -8*3600)

	tests := []struct {
		name   string
		path   string
		want   time.Time
		wantOK bool
	}{
		{
			name:   "compact digits",
			path:   "/videos/20200215090000.mkv",
			want:   time.Date(2020, 2, 15, 9, 0, 0, 0, pst),
			wantOK: true,
		},
		{
			name:   "obs style separators",
			path:   "recordings/2020-02-15 10-31-07.mp4",
			want:   time.Date(2020, 2, 15, 10, 31, 7, 0, pst),
			wantOK: true,
		},
		{
			name:   "trailing digits ignored",
			path:   "20200215235959_field1_cam2.mkv",
			want:   time.Date(2020, 2, 15, 23, 59, 59, 0, pst),
			wantOK: true,
		},
		{
			name:   "too few digits",
			path:   "2020-02-15.mkv",
			wantOK: false,
		},
		{
			name:   "no digits",
			path:   "field.mkv",
			wantOK: false,
		},
		{
			name:   "month out of range",
			path:   "20201315090000.mkv",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TimeFromFilename(tt.path, pst)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseZone(t *testing.T) {
	tests := []struct {
		in      string
		offset  int
		wantErr bool
	}{
		{in: "-08:00", offset: -8 * 3600},
		{in: "+0530", offset: 5*3600 + 30*60},
		{in: "-07", offset: -7 * 3600},
		{in: "", offset: -8 * 3600},
		{in: "UTC", offset: 0},
		{in: "+99:99", wantErr: true},
		{in: "Not/AZone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			loc, err := ParseZone(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			_, offset := time.Date(2020, 2, 15, 12, 0, 0, 0, loc).Zone()
			assert.Equal(t, tt.offset, offset)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:00:00.000", FormatDuration(0))
	assert.Equal(t, "00:29:50.000", FormatDuration(1790*time.Second))
	assert.Equal(t, "01:01:01.500", FormatDuration(time.Hour+time.Minute+1500*time.Millisecond))
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "1790", FormatSeconds(1790*time.Second))
	assert.Equal(t, "12", FormatSeconds(12900*time.Millisecond))
}

func TestFormatStamp(t *testing.T) {
	pst := time.FixedZone("-08:00", -8*3600)
	assert.Equal(t, "20240601_093000", FormatStamp(time.Date(2024, 6, 1, 9, 30, 0, 0, pst)))
}
