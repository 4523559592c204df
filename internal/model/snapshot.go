package model

import "time"

// SnapshotSource identifies where a ledger snapshot came from.
type SnapshotSource string

const (
	SnapshotSourceSheet SnapshotSource = "sheet"
	SnapshotSourceXLSX  SnapshotSource = "xlsx"
	SnapshotSourceCSV   SnapshotSource = "csv"
)

// Snapshot is one full ledger capture. The engine itself holds no state;
// snapshots are the caller-owned replacement for the session-lifetime cache
// the reporting front end used to keep in memory.
type Snapshot struct {
	ID        string         `json:"id"`
	Source    SnapshotSource `json:"source"`
	RowCount  int            `json:"row_count"`
	FetchedAt time.Time      `json:"fetched_at"`
	Rows      []Row          `json:"rows,omitempty"`
}
