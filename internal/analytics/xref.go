package analytics

import (
	"github.com/marketingflorenza/onlinebornsong/internal/model"
)

// FindOriginStage1 locates the booking an UpP1 upgrade row refers to: the
// first ledger row, in insertion order, with the same identity and positive
// P1 revenue. The scan covers the entire ledger rather than the filtered
// window, because the origin booking may itself fall inside the current
// window. Returns nil when no origin exists.
//
// "First" is first-in-ledger-order, not nearest-by-date. The ledger is
// normally chronological, so the two usually coincide; when they do not, the
// first match wins.
func FindOriginStage1(row model.Row, all []model.Row) *model.Row {
	id := row.Identity()
	for i := range all {
		if all[i].P1 > 0 && id.Matches(all[i].Identity()) {
			return &all[i]
		}
	}
	return nil
}

// FindOriginLead locates the lead an UpP2 upgrade row converts: the first
// ledger row with the same identity and a non-empty P2 marker. Same scan and
// ordering rules as FindOriginStage1.
func FindOriginLead(row model.Row, all []model.Row) *model.Row {
	id := row.Identity()
	for i := range all {
		if all[i].HasLead() && id.Matches(all[i].Identity()) {
			return &all[i]
		}
	}
	return nil
}

// UpgradeDetail pairs an upgrade row with its resolved origin row. Origin is
// nil when no earlier booking or lead matched the identity; callers render
// that as an explicit not-found, never an error.
type UpgradeDetail struct {
	Row    model.Row  `json:"row"`
	Origin *model.Row `json:"origin,omitempty"`
}

// CategoryDetail groups one category's window rows by revenue stage for
// drill-down views, attaching origin context to every upgrade row.
type CategoryDetail struct {
	Name      string          `json:"name"`
	P1Bills   []model.Row     `json:"p1_bills,omitempty"`
	UpP1Bills []UpgradeDetail `json:"up_p1_bills,omitempty"`
	UpP2Bills []UpgradeDetail `json:"up_p2_bills,omitempty"`
}

// BuildCategoryDetail collects the filtered rows tagged with the named
// category and groups them: plain P1 bills (positive P1, no UpP1), UpP1
// upgrades with their origin booking, and UpP2 upgrades with their origin
// lead. Origin lookups scan the full ledger.
func BuildCategoryDetail(name string, filtered, all []model.Row) CategoryDetail {
	detail := CategoryDetail{Name: name}
	for _, row := range filtered {
		if !hasCategory(row, name) {
			continue
		}
		if row.P1 > 0 && row.UpP1 == 0 {
			detail.P1Bills = append(detail.P1Bills, row)
		}
		if row.UpP1 > 0 {
			detail.UpP1Bills = append(detail.UpP1Bills, UpgradeDetail{
				Row:    row,
				Origin: FindOriginStage1(row, all),
			})
		}
		if row.UpP2 > 0 {
			detail.UpP2Bills = append(detail.UpP2Bills, UpgradeDetail{
				Row:    row,
				Origin: FindOriginLead(row, all),
			})
		}
	}
	return detail
}

func hasCategory(row model.Row, name string) bool {
	for _, tag := range row.Categories {
		if tag == name {
			return true
		}
	}
	return false
}
