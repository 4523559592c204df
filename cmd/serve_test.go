package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketingflorenza/onlinebornsong/internal/analytics"
	"github.com/marketingflorenza/onlinebornsong/internal/config"
	"github.com/marketingflorenza/onlinebornsong/internal/model"
	"github.com/marketingflorenza/onlinebornsong/internal/store"
)

func setupServeTest(t *testing.T, rows []model.Row) *store.SQLiteStore {
	t.Helper()

	adsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "totals": {"spend": 1000}}`))
	}))
	t.Cleanup(adsSrv.Close)

	cfg = &config.Config{
		Ads:    config.AdsConfig{BaseURL: adsSrv.URL, Endpoint: "databillRam"},
		Report: config.ReportConfig{UnspecifiedChannel: "ไม่ระบุ", TopCategories: 15},
	}

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	if rows != nil {
		_, err = st.SaveSnapshot(context.Background(), model.SnapshotSourceSheet, rows)
		require.NoError(t, err)
	}
	return st
}

func serveTestRows() []model.Row {
	d := time.Date(2024, time.June, 9, 0, 0, 0, 0, time.Local)
	return []model.Row{
		{CustomerName: "สมชาย", Date: &d, Channel: "Facebook", Categories: []string{"Botox"}, P1: 1500},
	}
}

func TestHandleReport(t *testing.T) {
	st := setupServeTest(t, serveTestRows())

	req := httptest.NewRequest(http.MethodGet, "/api/report?start=2024-06-01&end=2024-06-09", nil)
	rec := httptest.NewRecorder()
	handleReport(st)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Summary   model.Summary `json:"summary"`
		AdsTotals *struct {
			Spend float64 `json:"spend"`
		} `json:"ads_totals"`
		Funnel *struct {
			ROAS *float64 `json:"roas"`
		} `json:"funnel"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 1, payload.Summary.TotalBills)
	assert.InDelta(t, 1500, payload.Summary.TotalRevenue, 1e-9)
	require.NotNil(t, payload.AdsTotals)
	assert.InDelta(t, 1000, payload.AdsTotals.Spend, 1e-9)
	require.NotNil(t, payload.Funnel)
	require.NotNil(t, payload.Funnel.ROAS)
	assert.InDelta(t, 1.5, *payload.Funnel.ROAS, 1e-9)
}

func TestHandleReportBadWindow(t *testing.T) {
	st := setupServeTest(t, serveTestRows())

	req := httptest.NewRequest(http.MethodGet, "/api/report?start=junk&end=2024-06-09", nil)
	rec := httptest.NewRecorder()
	handleReport(st)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleReportNoSnapshot(t *testing.T) {
	st := setupServeTest(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/report?start=2024-06-01&end=2024-06-09", nil)
	rec := httptest.NewRecorder()
	handleReport(st)(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleCompare(t *testing.T) {
	st := setupServeTest(t, serveTestRows())

	req := httptest.NewRequest(http.MethodGet, "/api/compare?start=2024-06-08&end=2024-06-14", nil)
	rec := httptest.NewRecorder()
	handleCompare(st)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Current    model.Aggregate  `json:"current"`
		Comparison model.Comparison `json:"comparison"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 1, payload.Current.Summary.TotalBills)
	assert.Equal(t, 0, payload.Comparison.Prior.Summary.TotalBills)
}

func TestHandleCategoryDetail(t *testing.T) {
	st := setupServeTest(t, serveTestRows())

	r := chi.NewRouter()
	r.Get("/api/categories/{name}", handleCategoryDetail(st))

	req := httptest.NewRequest(http.MethodGet, "/api/categories/Botox?start=2024-06-01&end=2024-06-09", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var detail analytics.CategoryDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "Botox", detail.Name)
	require.Len(t, detail.P1Bills, 1)
	assert.Equal(t, "สมชาย", detail.P1Bills[0].CustomerName)
}

func TestWriteErrorStatusMapping(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, eris.Wrap(analytics.ErrInvalidWindow, "parse"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	writeError(rec, store.ErrNoSnapshot)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	writeError(rec, eris.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
