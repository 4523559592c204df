package model

import "time"

// Summary holds the window-level rollup counters. All monetary fields are
// non-negative by construction of the coercion layer.
type Summary struct {
	TotalBills      int     `json:"total_bills"`
	TotalRevenue    float64 `json:"total_revenue"`
	TotalCustomers  int     `json:"total_customers"`
	P1Revenue       float64 `json:"p1_revenue"`
	UpP1Revenue     float64 `json:"up_p1_revenue"`
	UpP2Revenue     float64 `json:"up_p2_revenue"`
	P1Bills         int     `json:"p1_bills"`
	UpP1Bills       int     `json:"up_p1_bills"`
	UpP2Bills       int     `json:"up_p2_bills"`
	P2Leads         int     `json:"p2_leads"`
	NewCustomers    int     `json:"new_customers"`
	RepeatCustomers int     `json:"repeat_customers"`
}

// ChannelStats is the per-channel rollup. NewCustomers comes from the
// ledger's explicit new-customer marker column, not from history lookup.
type ChannelStats struct {
	P1Bills      int     `json:"p1_bills"`
	P2Leads      int     `json:"p2_leads"`
	UpP2Bills    int     `json:"up_p2_bills"`
	NewCustomers int     `json:"new_customers"`
	Revenue      float64 `json:"revenue"`
}

// CategoryStats holds one category's totals. Revenue fields are weighted
// shares (a row tagged with N categories contributes amount/N to each), while
// bill counters are unweighted hits (the same row contributes 1 per stage it
// satisfies to every tagged category).
type CategoryStats struct {
	Name      string  `json:"name"`
	Total     float64 `json:"total"`
	P1Value   float64 `json:"p1_value"`
	UpP1Value float64 `json:"up_p1_value"`
	UpP2Value float64 `json:"up_p2_value"`
	P1Bills   int     `json:"p1_bills"`
	UpP1Bills int     `json:"up_p1_bills"`
	UpP2Bills int     `json:"up_p2_bills"`
}

// Aggregate is the result of one aggregation pass over a window. Categories
// are sorted descending by weighted total revenue, ties keeping first-seen
// order. FilteredRows is passed through so detail views can re-derive
// row-level data without re-filtering.
type Aggregate struct {
	Summary      Summary                  `json:"summary"`
	Channels     map[string]*ChannelStats `json:"channels"`
	Categories   []CategoryStats          `json:"categories"`
	FilteredRows []Row                    `json:"filtered_rows"`
}

// Delta compares one metric between the current and the prior window.
// Percent is nil when the prior value is zero: the change is not computable
// and must be rendered distinctly from a 0% change.
type Delta struct {
	Current  float64  `json:"current"`
	Previous float64  `json:"previous"`
	Absolute float64  `json:"absolute"`
	Percent  *float64 `json:"percent,omitempty"`
}

// SummaryDeltas holds the period-over-period comparison for the headline
// summary metrics.
type SummaryDeltas struct {
	TotalRevenue   Delta `json:"total_revenue"`
	TotalBills     Delta `json:"total_bills"`
	TotalCustomers Delta `json:"total_customers"`
	NewCustomers   Delta `json:"new_customers"`
	P1Revenue      Delta `json:"p1_revenue"`
	UpP1Revenue    Delta `json:"up_p1_revenue"`
	UpP2Revenue    Delta `json:"up_p2_revenue"`
	P2Leads        Delta `json:"p2_leads"`
}

// Comparison is the output of the comparative window engine: the prior
// window's bounds and aggregate, plus deltas against the current window.
type Comparison struct {
	PriorStart time.Time     `json:"prior_start"`
	PriorEnd   time.Time     `json:"prior_end"`
	PriorLabel string        `json:"prior_label"`
	Prior      Aggregate     `json:"prior"`
	Deltas     SummaryDeltas `json:"deltas"`
}
