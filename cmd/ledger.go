package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/marketingflorenza/onlinebornsong/internal/analytics"
	"github.com/marketingflorenza/onlinebornsong/internal/ledger"
	"github.com/marketingflorenza/onlinebornsong/internal/model"
	"github.com/marketingflorenza/onlinebornsong/internal/store"
	"github.com/marketingflorenza/onlinebornsong/pkg/adsapi"
	"github.com/marketingflorenza/onlinebornsong/pkg/gviz"
)

// openStore opens the snapshot database and runs migrations.
func openStore(ctx context.Context) (*store.SQLiteStore, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// loadRows returns the ledger from the latest snapshot, refetching from the
// sheet when refresh is set or no snapshot exists yet.
func loadRows(ctx context.Context, st store.Store, refresh bool) ([]model.Row, error) {
	if !refresh {
		snap, err := st.LatestSnapshot(ctx)
		if err == nil {
			zap.L().Debug("using ledger snapshot",
				zap.String("snapshot_id", snap.ID),
				zap.Time("fetched_at", snap.FetchedAt),
				zap.Int("rows", snap.RowCount),
			)
			return snap.Rows, nil
		}
		if !eris.Is(err, store.ErrNoSnapshot) {
			return nil, err
		}
		zap.L().Info("no ledger snapshot yet, fetching sheet")
	}
	return fetchSheet(ctx, st)
}

// fetchSheet downloads the ledger sheet, maps it to typed rows, and saves a
// snapshot.
func fetchSheet(ctx context.Context, st store.Store) ([]model.Row, error) {
	if cfg.Sheet.ID == "" {
		return nil, eris.New("sheet id is required (BORNSONG_SHEET_ID)")
	}

	client := gviz.NewClient(
		gviz.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Sheet.TimeoutSec) * time.Second}),
	)
	table, err := client.Fetch(ctx, cfg.Sheet.ID, cfg.Sheet.Name)
	if err != nil {
		return nil, eris.Wrap(err, "fetch sheet")
	}

	records := make([]ledger.Record, len(table.Records))
	for i, rec := range table.Records {
		records[i] = ledger.Record(rec)
	}
	rows := ledger.NewMapper(cfg.Columns).MapRecords(records)

	snap, err := st.SaveSnapshot(ctx, model.SnapshotSourceSheet, rows)
	if err != nil {
		return nil, eris.Wrap(err, "save snapshot")
	}
	zap.L().Info("ledger snapshot saved",
		zap.String("snapshot_id", snap.ID),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}

func aggOptions() analytics.Options {
	return analytics.Options{UnspecifiedChannel: cfg.Report.UnspecifiedChannel}
}

func adsClient() adsapi.Client {
	return adsapi.NewClient(cfg.Ads.BaseURL,
		adsapi.WithEndpoint(cfg.Ads.Endpoint),
		adsapi.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Ads.TimeoutSec) * time.Second}),
	)
}

// windowDefaults fills empty boundaries with the dashboard's default window:
// the first of the current month through today.
func windowDefaults(start, end string) (string, string) {
	now := time.Now()
	if start == "" {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
	}
	if end == "" {
		end = now.Format("2006-01-02")
	}
	return start, end
}
