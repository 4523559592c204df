// Package report renders aggregation results for terminal output and builds
// the analysis-prompt text. All formatting lives here; the analytics engine
// stays presentation-free.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"text/tabwriter"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/marketingflorenza/onlinebornsong/internal/analytics"
	"github.com/marketingflorenza/onlinebornsong/internal/config"
	"github.com/marketingflorenza/onlinebornsong/internal/model"
	"github.com/marketingflorenza/onlinebornsong/pkg/adsapi"
)

// Renderer formats aggregates using the deployment's presentation settings.
type Renderer struct {
	cfg     config.ReportConfig
	printer *message.Printer
}

// NewRenderer creates a Renderer.
func NewRenderer(cfg config.ReportConfig) *Renderer {
	return &Renderer{
		cfg:     cfg,
		printer: message.NewPrinter(language.English),
	}
}

// Currency formats a monetary value with the configured symbol and grouped
// digits, rounded to whole units the way the dashboard always displayed it.
func (r *Renderer) Currency(v float64) string {
	return r.cfg.CurrencySymbol + r.printer.Sprintf("%d", int64(math.Round(v)))
}

// Number formats an integer count with grouped digits.
func (r *Renderer) Number(n int) string {
	return r.printer.Sprintf("%d", n)
}

// RenderSummary writes the sales overview for one window.
func (r *Renderer) RenderSummary(w io.Writer, window analytics.Window, agg model.Aggregate) {
	s := agg.Summary

	fmt.Fprintf(w, "%s: %s\n\n", r.cfg.BranchName, window.Label())

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total Bills\t%s\n", r.Number(s.TotalBills))
	fmt.Fprintf(tw, "Total Revenue\t%s\n", r.Currency(s.TotalRevenue))
	fmt.Fprintf(tw, "Total Customers\t%s\n", r.Number(s.TotalCustomers))
	fmt.Fprintf(tw, "New Customers\t%s\n", r.Number(s.NewCustomers))
	fmt.Fprintf(tw, "Repeat Customers\t%s\n", r.Number(s.RepeatCustomers))
	fmt.Fprintf(tw, "P1 Revenue\t%s\n", r.Currency(s.P1Revenue))
	fmt.Fprintf(tw, "UP P1 Revenue\t%s\n", r.Currency(s.UpP1Revenue))
	fmt.Fprintf(tw, "UP P2 Revenue\t%s\n", r.Currency(s.UpP2Revenue))
	fmt.Fprintf(tw, "P1 Bills\t%s\n", r.Number(s.P1Bills))
	fmt.Fprintf(tw, "UP P1 Bills\t%s\n", r.Number(s.UpP1Bills))
	fmt.Fprintf(tw, "UP P2 Bills\t%s\n", r.Number(s.UpP2Bills))
	fmt.Fprintf(tw, "P2 Leads\t%s\n", r.Number(s.P2Leads))
	tw.Flush()

	r.renderChannels(w, agg.Channels)
	r.renderCategories(w, agg.Categories)
}

func (r *Renderer) renderChannels(w io.Writer, channels map[string]*model.ChannelStats) {
	if len(channels) == 0 {
		return
	}
	fmt.Fprintf(w, "\nChannels\n")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHANNEL\tP1\tP2\tUP P2\tNEW\tREVENUE")
	for _, name := range SortChannels(channels) {
		ch := channels[name]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\n",
			name, ch.P1Bills, ch.P2Leads, ch.UpP2Bills, ch.NewCustomers, r.Currency(ch.Revenue))
	}
	tw.Flush()
}

func (r *Renderer) renderCategories(w io.Writer, categories []model.CategoryStats) {
	if len(categories) == 0 {
		return
	}
	limit := r.cfg.TopCategories
	if limit <= 0 || limit > len(categories) {
		limit = len(categories)
	}
	fmt.Fprintf(w, "\nTop Categories\n")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCATEGORY\tP1\tUP P1\tUP P2\tREVENUE")
	for i, cat := range categories[:limit] {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\n",
			i+1, cat.Name, cat.P1Bills, cat.UpP1Bills, cat.UpP2Bills, r.Currency(cat.Total))
	}
	tw.Flush()
}

// RenderFunnel writes ad spend, efficiency ratios, and ads engagement totals.
func (r *Renderer) RenderFunnel(w io.Writer, summary model.Summary, totals adsapi.Totals, funnel analytics.Funnel) {
	fmt.Fprintf(w, "\nAds Funnel\n")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Ad Spend\t%s\n", r.Currency(totals.Spend))
	fmt.Fprintf(tw, "Total Revenue\t%s\n", r.Currency(summary.TotalRevenue))
	fmt.Fprintf(tw, "ROAS\t%s\n", r.ratio(funnel.ROAS, "%.2fx"))
	fmt.Fprintf(tw, "Cost / Bill\t%s\n", r.currencyPtr(funnel.CostPerBill))
	fmt.Fprintf(tw, "Cost / Customer\t%s\n", r.currencyPtr(funnel.CostPerCustomer))
	fmt.Fprintf(tw, "Impressions\t%s\n", r.printer.Sprintf("%d", totals.Impressions))
	fmt.Fprintf(tw, "Messaging\t%s\n", r.printer.Sprintf("%d", totals.MessagingConversations))
	fmt.Fprintf(tw, "CPM\t%s\n", r.Currency(totals.CPM))
	fmt.Fprintf(tw, "Ads Purchases\t%s\n", r.printer.Sprintf("%d", totals.Purchases))
	tw.Flush()
}

// RenderComparison writes the prior-period aggregate and deltas.
func (r *Renderer) RenderComparison(w io.Writer, cmp model.Comparison) {
	fmt.Fprintf(w, "\nvs. prior period (%s)\n", cmp.PriorLabel)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tCURRENT\tPRIOR\tCHANGE\t%")
	r.renderDelta(tw, "Total Revenue", cmp.Deltas.TotalRevenue, true)
	r.renderDelta(tw, "Total Bills", cmp.Deltas.TotalBills, false)
	r.renderDelta(tw, "Total Customers", cmp.Deltas.TotalCustomers, false)
	r.renderDelta(tw, "New Customers", cmp.Deltas.NewCustomers, false)
	r.renderDelta(tw, "P1 Revenue", cmp.Deltas.P1Revenue, true)
	r.renderDelta(tw, "UP P1 Revenue", cmp.Deltas.UpP1Revenue, true)
	r.renderDelta(tw, "UP P2 Revenue", cmp.Deltas.UpP2Revenue, true)
	r.renderDelta(tw, "P2 Leads", cmp.Deltas.P2Leads, false)
	tw.Flush()
}

func (r *Renderer) renderDelta(w io.Writer, label string, d model.Delta, currency bool) {
	format := func(v float64) string {
		if currency {
			return r.Currency(v)
		}
		return r.Number(int(v))
	}
	// A zero baseline makes the percentage non-computable; that renders as
	// "-", which is not the same thing as 0%.
	pct := "-"
	if d.Percent != nil {
		pct = fmt.Sprintf("%+.1f%%", *d.Percent)
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", label, format(d.Current), format(d.Previous), format(d.Absolute), pct)
}

func (r *Renderer) ratio(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

func (r *Renderer) currencyPtr(v *float64) string {
	if v == nil {
		return "-"
	}
	return r.Currency(*v)
}

// RenderCategoryDetail writes the per-stage drill-down for one category,
// including origin context for upgrade rows.
func (r *Renderer) RenderCategoryDetail(w io.Writer, detail analytics.CategoryDetail) {
	fmt.Fprintf(w, "Category: %s\n", detail.Name)

	if len(detail.P1Bills) > 0 {
		fmt.Fprintf(w, "\nP1 Bills (%d)\n", len(detail.P1Bills))
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "DATE\tCUSTOMER\tCHANNEL\tINTEREST\tREVENUE")
		for _, row := range detail.P1Bills {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				formatDate(row.Date), orDash(row.CustomerName), orDash(row.Channel),
				orDash(row.Interest), r.Currency(row.P1))
		}
		tw.Flush()
	}

	if len(detail.UpP1Bills) > 0 {
		fmt.Fprintf(w, "\nUP P1 Bills (%d)\n", len(detail.UpP1Bills))
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "DATE\tCUSTOMER\tUPGRADE ITEM\tORIGINAL ITEM\tORIGINAL P1\tUPGRADE AMT")
		for _, d := range detail.UpP1Bills {
			origItem, origAmount := "Not Found", "-"
			if d.Origin != nil {
				origItem = orDash(d.Origin.Interest)
				origAmount = r.Currency(d.Origin.P1)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				formatDate(d.Row.Date), orDash(d.Row.CustomerName), orDash(d.Row.Interest),
				origItem, origAmount, r.Currency(d.Row.UpP1))
		}
		tw.Flush()
	}

	if len(detail.UpP2Bills) > 0 {
		fmt.Fprintf(w, "\nUP P2 Bills (%d)\n", len(detail.UpP2Bills))
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "DATE\tCUSTOMER\tUPGRADE INTEREST\tORIGINAL LEAD\tLEAD DATE\tREVENUE")
		for _, d := range detail.UpP2Bills {
			origInterest, origDate := "Not Found", "-"
			if d.Origin != nil {
				origInterest = orDash(d.Origin.Interest)
				origDate = formatDate(d.Origin.Date)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				formatDate(d.Row.Date), orDash(d.Row.CustomerName), orDash(d.Row.Interest),
				origInterest, origDate, r.Currency(d.Row.UpP2))
		}
		tw.Flush()
	}

	if len(detail.P1Bills) == 0 && len(detail.UpP1Bills) == 0 && len(detail.UpP2Bills) == 0 {
		fmt.Fprintln(w, "No transaction details found.")
	}
}

// SortChannels returns channel names ordered by descending revenue, ties by
// name for stable output.
func SortChannels(channels map[string]*model.ChannelStats) []string {
	names := make([]string, 0, len(channels))
	for name := range channels {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := channels[names[i]], channels[names[j]]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return names[i] < names[j]
	})
	return names
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02 Jan 06")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
