package ledger

import (
	"strings"

	"github.com/marketingflorenza/onlinebornsong/internal/config"
	"github.com/marketingflorenza/onlinebornsong/internal/model"
)

// Record is one raw ledger row keyed by column label. Values are whatever
// the source produced: nil, string, or number.
type Record map[string]any

// Mapper resolves configured column labels once and converts raw records
// into typed rows, applying value coercion at load time.
type Mapper struct {
	cols config.ColumnsConfig
}

// NewMapper creates a Mapper for the given column labels.
func NewMapper(cols config.ColumnsConfig) *Mapper {
	return &Mapper{cols: cols}
}

// MapRecord converts a single raw record into a typed row. Malformed cells
// degrade to zero values; this never fails.
func (m *Mapper) MapRecord(rec Record) model.Row {
	return model.Row{
		CustomerName:  toString(rec[m.cols.Customer]),
		CustomerPhone: toString(rec[m.cols.Phone]),
		Date:          ParseDate(rec[m.cols.Date]),
		Channel:       strings.TrimSpace(toString(rec[m.cols.Channel])),
		Categories:    SplitCategories(rec[m.cols.Categories]),
		Interest:      toString(rec[m.cols.Interest]),
		IsNew:         IsNewMarker(rec[m.cols.IsNew]),
		P1:            ToNumber(rec[m.cols.P1]),
		P2:            toString(rec[m.cols.P2]),
		UpP1:          ToNumber(rec[m.cols.UpP1]),
		UpP2:          ToNumber(rec[m.cols.UpP2]),
	}
}

// MapRecords converts raw records in order.
func (m *Mapper) MapRecords(recs []Record) []model.Row {
	rows := make([]model.Row, len(recs))
	for i, rec := range recs {
		rows[i] = m.MapRecord(rec)
	}
	return rows
}

// MapTable converts a header row plus data rows (xlsx/csv exports) into
// typed rows. Header labels are trimmed before matching, mirroring the gviz
// loader. Cells beyond the header width are ignored; missing cells read as
// empty.
func (m *Mapper) MapTable(header []string, rows [][]string) []model.Row {
	labels := make([]string, len(header))
	for i, h := range header {
		labels[i] = strings.TrimSpace(h)
	}

	out := make([]model.Row, 0, len(rows))
	for _, cells := range rows {
		rec := make(Record, len(labels))
		for i, label := range labels {
			if label == "" {
				continue
			}
			if i < len(cells) {
				rec[label] = cells[i]
			}
		}
		out = append(out, m.MapRecord(rec))
	}
	return out
}
