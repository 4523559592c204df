package analytics

import "github.com/marketingflorenza/onlinebornsong/internal/model"

// IsNewRelativeTo reports whether the row's customer identity appears in no
// history row. History is whatever the caller passes, normally all ledger
// rows dated strictly before the window start; there is no persisted
// "ever seen" registry. A blank identity matches nothing and is always new.
func IsNewRelativeTo(row model.Row, history []model.Row) bool {
	id := row.Identity()
	for i := range history {
		if id.Matches(history[i].Identity()) {
			return false
		}
	}
	return true
}
