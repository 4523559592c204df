package analytics

import (
	"sort"
	"strconv"

	"github.com/marketingflorenza/onlinebornsong/internal/model"
)

// DefaultUnspecifiedChannel labels rows whose channel cell is empty.
const DefaultUnspecifiedChannel = "ไม่ระบุ"

// Options configures an aggregation pass.
type Options struct {
	// UnspecifiedChannel overrides the label used for rows with no channel.
	UnspecifiedChannel string
}

func (o Options) unspecifiedChannel() string {
	if o.UnspecifiedChannel == "" {
		return DefaultUnspecifiedChannel
	}
	return o.UnspecifiedChannel
}

// Aggregate builds the summary, per-channel, and per-category rollups over
// the window rows, classifying customers as new or repeat against the
// history rows. The pass is pure: identical inputs yield identical output,
// and no state survives between invocations.
//
// A row qualifies for aggregation when it has positive revenue or records a
// P2 lead. Total bills count rows with positive revenue; the alternative
// p1Bills+p2Leads definition seen in older report variants is not used.
func Aggregate(inWindow, history []model.Row, opts Options) model.Aggregate {
	var summary model.Summary
	channels := make(map[string]*model.ChannelStats)
	categories := make(map[string]*model.CategoryStats)
	var categoryOrder []string
	seenCustomers := make(map[string]bool)
	blankSeq := 0

	for _, row := range inWindow {
		p1, up1, up2 := row.P1, row.UpP1, row.UpP2
		revenue := p1 + up1 + up2
		hasLead := row.HasLead()

		// Stage counters are not mutually exclusive: one row can be a P1
		// bill, an upgrade, and a lead at once.
		if p1 > 0 {
			summary.P1Bills++
		}
		if up1 > 0 {
			summary.UpP1Bills++
		}
		if up2 > 0 {
			summary.UpP2Bills++
		}
		if hasLead {
			summary.P2Leads++
		}

		if revenue <= 0 && !hasLead {
			continue
		}

		summary.TotalRevenue += revenue
		summary.P1Revenue += p1
		summary.UpP1Revenue += up1
		summary.UpP2Revenue += up2
		if revenue > 0 {
			summary.TotalBills++
		}

		// A pure UpP1 row modifies an existing P1 purchase in the same
		// visit, so it is not a new head; P1 and UpP2 rows are.
		if p1 > 0 || up2 > 0 {
			key := row.Identity().Key()
			if key == "" {
				blankSeq++
				key = "blank:" + strconv.Itoa(blankSeq)
			}
			if !seenCustomers[key] {
				seenCustomers[key] = true
				summary.TotalCustomers++
				if IsNewRelativeTo(row, history) {
					summary.NewCustomers++
				} else {
					summary.RepeatCustomers++
				}
			}
		}

		channel := row.Channel
		if channel == "" {
			channel = opts.unspecifiedChannel()
		}
		ch := channels[channel]
		if ch == nil {
			ch = &model.ChannelStats{}
			channels[channel] = ch
		}
		// A P1 purchase upgraded in the same row is counted as the upgrade,
		// not double-counted as a plain P1.
		if p1 > 0 && up1 == 0 {
			ch.P1Bills++
		}
		if hasLead {
			ch.P2Leads++
		}
		if up2 > 0 {
			ch.UpP2Bills++
		}
		if row.IsNew {
			ch.NewCustomers++
		}
		ch.Revenue += revenue

		// Revenue splits evenly across the row's tags so category roll-ups
		// never exceed the row's own revenue; bill counters stay whole hits.
		if n := len(row.Categories); n > 0 {
			weight := float64(n)
			for _, tag := range row.Categories {
				cat := categories[tag]
				if cat == nil {
					cat = &model.CategoryStats{Name: tag}
					categories[tag] = cat
					categoryOrder = append(categoryOrder, tag)
				}
				cat.Total += revenue / weight
				cat.P1Value += p1 / weight
				cat.UpP1Value += up1 / weight
				cat.UpP2Value += up2 / weight
				if p1 > 0 {
					cat.P1Bills++
				}
				if up1 > 0 {
					cat.UpP1Bills++
				}
				if up2 > 0 {
					cat.UpP2Bills++
				}
			}
		}
	}

	ordered := make([]model.CategoryStats, 0, len(categoryOrder))
	for _, name := range categoryOrder {
		ordered = append(ordered, *categories[name])
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Total > ordered[j].Total
	})

	return model.Aggregate{
		Summary:      summary,
		Channels:     channels,
		Categories:   ordered,
		FilteredRows: inWindow,
	}
}

// AggregateWindow filters the full ledger to the window and aggregates it.
func AggregateWindow(rows []model.Row, w Window, opts Options) model.Aggregate {
	inWindow, history := SplitWindow(rows, w)
	return Aggregate(inWindow, history, opts)
}
