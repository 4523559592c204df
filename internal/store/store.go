package store

import (
	"context"
	"time"

	"github.com/marketingflorenza/onlinebornsong/internal/model"
)

// Store defines the persistence interface for ledger snapshots.
type Store interface {
	// SaveSnapshot persists a full ledger capture and returns it with its
	// assigned ID.
	SaveSnapshot(ctx context.Context, source model.SnapshotSource, rows []model.Row) (*model.Snapshot, error)

	// LatestSnapshot returns the most recent snapshot with its rows, or
	// ErrNoSnapshot when the store is empty.
	LatestSnapshot(ctx context.Context) (*model.Snapshot, error)

	// ListSnapshots returns snapshot metadata (no rows), newest first.
	ListSnapshots(ctx context.Context, limit int) ([]model.Snapshot, error)

	// DeleteSnapshotsBefore removes snapshots fetched before the cutoff and
	// reports how many were deleted.
	DeleteSnapshotsBefore(ctx context.Context, cutoff time.Time) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
