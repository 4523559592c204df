package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/marketingflorenza/onlinebornsong/internal/model"
)

// ErrNoSnapshot is returned when the store holds no ledger snapshot yet.
var ErrNoSnapshot = eris.New("store: no ledger snapshot")

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS ledger_snapshots (
	id         TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	row_count  INTEGER NOT NULL,
	rows       TEXT NOT NULL,
	fetched_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_ledger_snapshots_fetched_at ON ledger_snapshots(fetched_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, source model.SnapshotSource, rows []model.Row) (*model.Snapshot, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	rowsJSON, err := json.Marshal(rows)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal rows")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO ledger_snapshots (id, source, row_count, rows, fetched_at) VALUES (?, ?, ?, ?, ?)`,
		id, string(source), len(rows), string(rowsJSON), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert snapshot")
	}

	return &model.Snapshot{
		ID:        id,
		Source:    source,
		RowCount:  len(rows),
		FetchedAt: now,
		Rows:      rows,
	}, nil
}

func (s *SQLiteStore) LatestSnapshot(ctx context.Context) (*model.Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, row_count, rows, fetched_at
		 FROM ledger_snapshots ORDER BY fetched_at DESC, id DESC LIMIT 1`,
	)

	var snap model.Snapshot
	var source, rowsJSON string
	err := row.Scan(&snap.ID, &source, &snap.RowCount, &rowsJSON, &snap.FetchedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan snapshot")
	}

	snap.Source = model.SnapshotSource(source)
	if err := json.Unmarshal([]byte(rowsJSON), &snap.Rows); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal snapshot rows")
	}
	return &snap, nil
}

func (s *SQLiteStore) ListSnapshots(ctx context.Context, limit int) ([]model.Snapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, row_count, fetched_at
		 FROM ledger_snapshots ORDER BY fetched_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list snapshots")
	}
	defer rows.Close()

	var snaps []model.Snapshot
	for rows.Next() {
		var snap model.Snapshot
		var source string
		if err := rows.Scan(&snap.ID, &source, &snap.RowCount, &snap.FetchedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan snapshot row")
		}
		snap.Source = model.SnapshotSource(source)
		snaps = append(snaps, snap)
	}
	return snaps, eris.Wrap(rows.Err(), "sqlite: iterate snapshots")
}

func (s *SQLiteStore) DeleteSnapshotsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM ledger_snapshots WHERE fetched_at < ?`, cutoff.UTC(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete snapshots")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: rows affected")
	}
	return int(n), nil
}
