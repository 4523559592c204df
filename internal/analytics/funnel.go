package analytics

import (
	"github.com/marketingflorenza/onlinebornsong/internal/model"
	"github.com/marketingflorenza/onlinebornsong/pkg/adsapi"
)

// Funnel holds ad-efficiency ratios merged from the sales summary and the
// external ads totals. Each ratio is nil when its denominator is zero: "not
// computable" is distinct from zero.
type Funnel struct {
	ROAS            *float64 `json:"roas,omitempty"`
	CostPerBill     *float64 `json:"cost_per_bill,omitempty"`
	CostPerCustomer *float64 `json:"cost_per_customer,omitempty"`
}

// BuildFunnel computes return-on-ad-spend and per-unit acquisition costs.
func BuildFunnel(summary model.Summary, totals adsapi.Totals) Funnel {
	var f Funnel
	if totals.Spend > 0 {
		roas := summary.TotalRevenue / totals.Spend
		f.ROAS = &roas
		if summary.TotalBills > 0 {
			v := totals.Spend / float64(summary.TotalBills)
			f.CostPerBill = &v
		}
		if summary.TotalCustomers > 0 {
			v := totals.Spend / float64(summary.TotalCustomers)
			f.CostPerCustomer = &v
		}
	}
	return f
}
