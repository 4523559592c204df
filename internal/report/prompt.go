package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/marketingflorenza/onlinebornsong/internal/analytics"
	"github.com/marketingflorenza/onlinebornsong/internal/model"
	"github.com/marketingflorenza/onlinebornsong/pkg/adsapi"
)

// BuildPrompt renders the period's sales and ads figures as the Thai
// analysis prompt the branch pastes into an LLM chat. The text layout
// mirrors the dashboard's prompt generator; no API call happens here.
func (r *Renderer) BuildPrompt(window analytics.Window, agg model.Aggregate, totals *adsapi.Totals) string {
	s := agg.Summary
	var b strings.Builder

	fmt.Fprintf(&b, "--- [บริบทของการวิเคราะห์] ---\n")
	fmt.Fprintf(&b, "* สาขา: %s\n", r.cfg.BranchName)
	fmt.Fprintf(&b, "* ช่วงเวลา: %s ถึง %s\n\n", window.Start.Format("02 Jan 06"), window.End.Format("02 Jan 06"))

	if totals != nil {
		roas := "0x"
		if totals.Spend > 0 {
			roas = fmt.Sprintf("%.2fx", s.TotalRevenue/totals.Spend)
		}
		fmt.Fprintf(&b, "--- [ข้อมูล Ads] ---\n")
		fmt.Fprintf(&b, "Ad Spend: %s\n", r.Currency(totals.Spend))
		fmt.Fprintf(&b, "ROAS: %s\n", roas)
		fmt.Fprintf(&b, "Impressions: %s\n", r.printer.Sprintf("%d", totals.Impressions))
		fmt.Fprintf(&b, "Messaging: %s\n", r.printer.Sprintf("%d", totals.MessagingConversations))
		fmt.Fprintf(&b, "CPM: %s\n", r.Currency(totals.CPM))
		fmt.Fprintf(&b, "Ads Purchases: %s\n\n", r.printer.Sprintf("%d", totals.Purchases))
	}

	fmt.Fprintf(&b, "--- [ข้อมูลช่วงเวลาปัจจุบัน] ---\n")
	fmt.Fprintf(&b, "* ยอดขายรวม: %s\n", r.Currency(s.TotalRevenue))
	fmt.Fprintf(&b, "* จำนวนบิลทั้งหมด: %s บิล\n", r.Number(s.TotalBills))
	fmt.Fprintf(&b, "* ยอดขาย P1: %s\n", r.Currency(s.P1Revenue))
	fmt.Fprintf(&b, "* ยอดขาย UP P1: %s\n", r.Currency(s.UpP1Revenue))
	fmt.Fprintf(&b, "* ยอดขาย UP P2: %s\n\n", r.Currency(s.UpP2Revenue))

	r.writeTopCategories(&b, "5 หมวดหมู่ที่ทำรายได้สูงสุด", agg.Categories, func(c model.CategoryStats) float64 { return c.Total })
	r.writeTopCategories(&b, "5 หมวดหมู่ P1 ที่ได้รายได้สูงสุด", agg.Categories, func(c model.CategoryStats) float64 { return c.P1Value })
	r.writeTopCategories(&b, "5 หมวดหมู่ UP P1 ที่ได้รายได้สูงสุด", agg.Categories, func(c model.CategoryStats) float64 { return c.UpP1Value })
	r.writeTopCategories(&b, "5 หมวดหมู่ UP P2 ที่ได้รายได้สูงสุด", agg.Categories, func(c model.CategoryStats) float64 { return c.UpP2Value })

	fmt.Fprintf(&b, "\n--- [สรุปประสิทธิภาพตามช่องทาง] ---\n")
	fmt.Fprintf(&b, "จำนวนบิลแต่ละประเภทยอด\n")
	for _, name := range SortChannels(agg.Channels) {
		ch := agg.Channels[name]
		fmt.Fprintf(&b, "* %s: บิล P1 %d, UP P2 %d, ยอดขายรวม %s\n",
			name, ch.P1Bills, ch.UpP2Bills, r.Currency(ch.Revenue))
	}

	return b.String()
}

func (r *Renderer) writeTopCategories(b *strings.Builder, title string, categories []model.CategoryStats, value func(model.CategoryStats) float64) {
	top := make([]model.CategoryStats, len(categories))
	copy(top, categories)
	sort.SliceStable(top, func(i, j int) bool { return value(top[i]) > value(top[j]) })
	if len(top) > 5 {
		top = top[:5]
	}

	fmt.Fprintf(b, "* %s:\n", title)
	for _, c := range top {
		fmt.Fprintf(b, "  - %s: %s\n", c.Name, r.Currency(value(c)))
	}
}
