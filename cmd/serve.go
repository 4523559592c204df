package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/marketingflorenza/onlinebornsong/internal/analytics"
	"github.com/marketingflorenza/onlinebornsong/internal/model"
	"github.com/marketingflorenza/onlinebornsong/internal/store"
	"github.com/marketingflorenza/onlinebornsong/pkg/adsapi"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the report API over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		}))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Get("/api/report", handleReport(st))
		r.Get("/api/compare", handleCompare(st))
		r.Get("/api/categories/{name}", handleCategoryDetail(st))

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				zap.L().Warn("server shutdown", zap.Error(err))
			}
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

// requestAggregate parses the window query parameters, loads the latest
// ledger snapshot, and aggregates it. The returned rows are the full ledger
// for origin lookups.
func requestAggregate(r *http.Request, st store.Store) (analytics.Window, []model.Row, model.Aggregate, error) {
	window, err := analytics.ParseWindow(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		return analytics.Window{}, nil, model.Aggregate{}, err
	}
	snap, err := st.LatestSnapshot(r.Context())
	if err != nil {
		return analytics.Window{}, nil, model.Aggregate{}, err
	}
	agg := analytics.AggregateWindow(snap.Rows, window, aggOptions())
	return window, snap.Rows, agg, nil
}

func handleReport(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		window, _, agg, err := requestAggregate(r, st)
		if err != nil {
			writeError(w, err)
			return
		}

		payload := reportPayload{Aggregate: agg}
		payload.Window.Start = window.Start.Format("2006-01-02")
		payload.Window.End = window.End.Format("2006-01-02")

		// Ads metrics ride along when the backend answers; sales data never
		// waits on them failing.
		var g errgroup.Group
		var adsResp *adsapi.Response
		g.Go(func() error {
			resp, err := adsClient().Totals(r.Context(), payload.Window.Start, payload.Window.End)
			if err != nil {
				zap.L().Warn("ads fetch failed", zap.Error(err))
				return nil
			}
			adsResp = resp
			return nil
		})
		_ = g.Wait()
		if adsResp != nil {
			payload.AdsTotals = &adsResp.Totals
			funnel := analytics.BuildFunnel(agg.Summary, adsResp.Totals)
			payload.Funnel = &funnel
		}

		writeJSON(w, http.StatusOK, payload)
	}
}

func handleCompare(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		window, rows, agg, err := requestAggregate(r, st)
		if err != nil {
			writeError(w, err)
			return
		}
		cmp := analytics.ComparePeriod(rows, window, agg, aggOptions())
		writeJSON(w, http.StatusOK, map[string]any{
			"current":    agg,
			"comparison": cmp,
		})
	}
}

func handleCategoryDetail(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, rows, agg, err := requestAggregate(r, st)
		if err != nil {
			writeError(w, err)
			return
		}
		name := chi.URLParam(r, "name")
		detail := analytics.BuildCategoryDetail(name, agg.FilteredRows, rows)
		writeJSON(w, http.StatusOK, detail)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case eris.Is(err, analytics.ErrInvalidWindow):
		status = http.StatusBadRequest
	case eris.Is(err, store.ErrNoSnapshot):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
