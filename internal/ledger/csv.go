package ledger

import (
	"encoding/csv"
	"os"

	"github.com/rotisserie/eris"
)

// ReadCSV reads a ledger export from a CSV file. The first record is the
// header carrying the column labels. Rows may have ragged widths; the mapper
// treats missing cells as empty.
func ReadCSV(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "csv: open file")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, eris.Wrap(err, "csv: read")
	}
	if len(records) == 0 {
		return nil, nil, eris.New("csv: file has no header row")
	}

	return records[0], records[1:], nil
}
