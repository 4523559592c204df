package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/marketingflorenza/onlinebornsong/internal/analytics"
	"github.com/marketingflorenza/onlinebornsong/internal/model"
	"github.com/marketingflorenza/onlinebornsong/internal/report"
)

var (
	compareStart   string
	compareEnd     string
	compareRefresh bool
	compareFormat  string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare a window against the immediately preceding period",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		start, end := windowDefaults(compareStart, compareEnd)
		window, err := analytics.ParseWindow(start, end)
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		rows, err := loadRows(ctx, st, compareRefresh)
		if err != nil {
			return err
		}

		agg := analytics.AggregateWindow(rows, window, aggOptions())
		cmp := analytics.ComparePeriod(rows, window, agg, aggOptions())

		if compareFormat == "json" {
			payload := struct {
				Window struct {
					Start string `json:"start"`
					End   string `json:"end"`
				} `json:"window"`
				Current    model.Aggregate  `json:"current"`
				Comparison model.Comparison `json:"comparison"`
			}{Current: agg, Comparison: cmp}
			payload.Window.Start = start
			payload.Window.End = end
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return eris.Wrap(enc.Encode(payload), "encode comparison")
		}

		renderer := report.NewRenderer(cfg.Report)
		renderer.RenderSummary(os.Stdout, window, agg)
		renderer.RenderComparison(os.Stdout, cmp)
		return nil
	},
}

func init() {
	f := compareCmd.Flags()
	f.StringVar(&compareStart, "start", "", "window start (YYYY-MM-DD, default first of this month)")
	f.StringVar(&compareEnd, "end", "", "window end (YYYY-MM-DD, default today)")
	f.BoolVar(&compareRefresh, "refresh", false, "refetch the sheet instead of using the latest snapshot")
	f.StringVar(&compareFormat, "format", "table", "output format: table or json")
	rootCmd.AddCommand(compareCmd)
}
