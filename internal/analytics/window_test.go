package analytics

import (
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketingflorenza/onlinebornsong/internal/model"
)

func datePtr(year int, month time.Month, day, hour, min, sec int) *time.Time {
	t := time.Date(year, month, day, hour, min, sec, 0, time.Local)
	return &t
}

func TestParseWindowNormalizesBounds(t *testing.T) {
	w, err := ParseWindow("2024-06-01", "2024-06-07")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local), w.Start)
	assert.Equal(t, time.Date(2024, time.June, 7, 23, 59, 59, 0, time.Local), w.End)
	assert.Equal(t, 7, w.Days())
}

func TestParseWindowInvalid(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"empty start", "", "2024-06-07"},
		{"garbage start", "junk", "2024-06-07"},
		{"garbage end", "2024-06-01", "junk"},
		{"inverted", "2024-06-07", "2024-06-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWindow(tt.start, tt.end)
			require.Error(t, err)
			assert.True(t, eris.Is(err, ErrInvalidWindow))
		})
	}
}

func TestWindowInclusivity(t *testing.T) {
	w, err := ParseWindow("2024-06-01", "2024-06-07")
	require.NoError(t, err)

	assert.True(t, w.Contains(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local)))
	assert.True(t, w.Contains(time.Date(2024, time.June, 7, 23, 59, 59, 0, time.Local)))
	assert.False(t, w.Contains(time.Date(2024, time.May, 31, 23, 59, 59, 0, time.Local)))
	assert.False(t, w.Contains(time.Date(2024, time.June, 8, 0, 0, 0, 0, time.Local)))
}

func TestSplitWindow(t *testing.T) {
	w, err := ParseWindow("2024-06-01", "2024-06-30")
	require.NoError(t, err)

	rows := []model.Row{
		{CustomerName: "before", Date: datePtr(2024, time.May, 15, 0, 0, 0)},
		{CustomerName: "first second", Date: datePtr(2024, time.June, 1, 0, 0, 0)},
		{CustomerName: "last second", Date: datePtr(2024, time.June, 30, 23, 59, 59)},
		{CustomerName: "no date", Date: nil},
		{CustomerName: "after", Date: datePtr(2024, time.July, 1, 0, 0, 0)},
	}

	inWindow, history := SplitWindow(rows, w)

	require.Len(t, inWindow, 2)
	assert.Equal(t, "first second", inWindow[0].CustomerName)
	assert.Equal(t, "last second", inWindow[1].CustomerName)

	require.Len(t, history, 1)
	assert.Equal(t, "before", history[0].CustomerName)
}

func TestSplitWindowDropsOneSecondOutside(t *testing.T) {
	w, err := ParseWindow("2024-06-01", "2024-06-07")
	require.NoError(t, err)

	rows := []model.Row{
		{CustomerName: "too early", Date: datePtr(2024, time.May, 31, 23, 59, 59)},
		{CustomerName: "too late", Date: datePtr(2024, time.June, 8, 0, 0, 0)},
	}

	inWindow, history := SplitWindow(rows, w)
	assert.Empty(t, inWindow)
	// The too-early row is history; the too-late row is in neither set.
	require.Len(t, history, 1)
	assert.Equal(t, "too early", history[0].CustomerName)
}

func TestPriorWindowEqualLength(t *testing.T) {
	current, err := ParseWindow("2024-06-08", "2024-06-14")
	require.NoError(t, err)
	require.Equal(t, 7, current.Days())

	prior := PriorWindow(current)

	assert.Equal(t, 7, prior.Days())
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local), prior.Start)
	assert.Equal(t, time.Date(2024, time.June, 7, 23, 59, 59, 0, time.Local), prior.End)
}

func TestDaysAcrossSpringForward(t *testing.T) {
	// A DST spring-forward day is only 23 hours long; the day count must
	// come from civil dates, not elapsed hours. US DST begins 2026-03-08.
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	w := Window{
		Start: time.Date(2026, time.March, 8, 0, 0, 0, 0, loc),
		End:   time.Date(2026, time.March, 14, 23, 59, 59, 0, loc),
	}
	assert.Equal(t, 7, w.Days())

	prior := PriorWindow(w)
	assert.Equal(t, 7, prior.Days())
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, loc), prior.Start)
	assert.Equal(t, time.Date(2026, time.March, 7, 23, 59, 59, 0, loc), prior.End)
}

func TestDaysAcrossFallBack(t *testing.T) {
	// The 25-hour fall-back day must not over-count either. US DST ends
	// 2026-11-01.
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	w := Window{
		Start: time.Date(2026, time.November, 1, 0, 0, 0, 0, loc),
		End:   time.Date(2026, time.November, 7, 23, 59, 59, 0, loc),
	}
	assert.Equal(t, 7, w.Days())
}

func TestPriorWindowSingleDay(t *testing.T) {
	current, err := ParseWindow("2024-06-01", "2024-06-01")
	require.NoError(t, err)

	prior := PriorWindow(current)

	assert.Equal(t, 1, prior.Days())
	assert.Equal(t, time.Date(2024, time.May, 31, 0, 0, 0, 0, time.Local), prior.Start)
}
