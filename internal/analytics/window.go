package analytics

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/marketingflorenza/onlinebornsong/internal/model"
)

// ErrInvalidWindow marks an unparseable or inverted window boundary. This is
// the one input class the engine refuses to coerce: silently defaulting a
// boundary would aggregate over the wrong window. Detect with eris.Is.
var ErrInvalidWindow = eris.New("invalid analysis window")

// dayLayout is the calendar-day form window boundaries arrive in.
const dayLayout = "2006-01-02"

// Window is an inclusive span of calendar days: Start is normalized to
// 00:00:00 local and End to 23:59:59 local.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ParseWindow parses ISO calendar-day boundaries into a normalized window.
func ParseWindow(startISO, endISO string) (Window, error) {
	start, err := time.ParseInLocation(dayLayout, startISO, time.Local)
	if err != nil {
		return Window{}, eris.Wrapf(ErrInvalidWindow, "start date %q", startISO)
	}
	end, err := time.ParseInLocation(dayLayout, endISO, time.Local)
	if err != nil {
		return Window{}, eris.Wrapf(ErrInvalidWindow, "end date %q", endISO)
	}
	if end.Before(start) {
		return Window{}, eris.Wrapf(ErrInvalidWindow, "end %s before start %s", endISO, startISO)
	}
	return Window{Start: start, End: endOfDay(end)}, nil
}

// NewWindow builds a normalized window from two dates, keeping only their
// calendar-day components.
func NewWindow(start, end time.Time) Window {
	return Window{Start: startOfDay(start), End: endOfDay(end)}
}

// Days returns the inclusive calendar-day length of the window. The count
// runs over civil dates, not elapsed hours: a DST transition makes a local
// day 23 or 25 hours long and must not shift the count.
func (w Window) Days() int {
	sy, sm, sd := w.Start.Date()
	ey, em, ed := w.End.Date()
	start := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	end := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours()/24) + 1
}

// Label renders the window as a human-readable day span.
func (w Window) Label() string {
	return w.Start.Format(dayLayout) + " to " + w.End.Format(dayLayout)
}

// Contains reports whether t falls inside the inclusive window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// SplitWindow partitions ledger rows into those dated inside the window and
// those dated strictly before its start (the history used for new/repeat
// classification). Rows without a parseable date are dropped from both sets;
// they never bias aggregates and never raise an error.
func SplitWindow(rows []model.Row, w Window) (inWindow, history []model.Row) {
	for _, r := range rows {
		if r.Date == nil {
			continue
		}
		switch {
		case r.Date.Before(w.Start):
			history = append(history, r)
		case !r.Date.After(w.End):
			inWindow = append(inWindow, r)
		}
	}
	return inWindow, history
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}
