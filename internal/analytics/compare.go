package analytics

import (
	"github.com/marketingflorenza/onlinebornsong/internal/model"
)

// PriorWindow derives the immediately preceding window of equal inclusive
// length: it ends the calendar day before current starts and spans the same
// number of days backward.
func PriorWindow(current Window) Window {
	days := current.Days()
	priorEndDay := startOfDay(current.Start).AddDate(0, 0, -1)
	priorStart := priorEndDay.AddDate(0, 0, -(days - 1))
	return Window{Start: priorStart, End: endOfDay(priorEndDay)}
}

// ComparePeriod aggregates the window immediately preceding current and
// computes deltas of the headline summary metrics against curr.
func ComparePeriod(rows []model.Row, current Window, curr model.Aggregate, opts Options) model.Comparison {
	prior := PriorWindow(current)
	priorAgg := AggregateWindow(rows, prior, opts)

	cs, ps := curr.Summary, priorAgg.Summary
	return model.Comparison{
		PriorStart: prior.Start,
		PriorEnd:   prior.End,
		PriorLabel: prior.Label(),
		Prior:      priorAgg,
		Deltas: model.SummaryDeltas{
			TotalRevenue:   NewDelta(cs.TotalRevenue, ps.TotalRevenue),
			TotalBills:     NewDelta(float64(cs.TotalBills), float64(ps.TotalBills)),
			TotalCustomers: NewDelta(float64(cs.TotalCustomers), float64(ps.TotalCustomers)),
			NewCustomers:   NewDelta(float64(cs.NewCustomers), float64(ps.NewCustomers)),
			P1Revenue:      NewDelta(cs.P1Revenue, ps.P1Revenue),
			UpP1Revenue:    NewDelta(cs.UpP1Revenue, ps.UpP1Revenue),
			UpP2Revenue:    NewDelta(cs.UpP2Revenue, ps.UpP2Revenue),
			P2Leads:        NewDelta(float64(cs.P2Leads), float64(ps.P2Leads)),
		},
	}
}

// NewDelta computes the absolute and percentage change from prev to curr.
// Percent is nil when prev is zero: the change is not computable and must
// not be rendered as 0%.
func NewDelta(curr, prev float64) model.Delta {
	d := model.Delta{Current: curr, Previous: prev, Absolute: curr - prev}
	if prev > 0 {
		pct := (curr - prev) / prev * 100
		d.Percent = &pct
	}
	return d
}
