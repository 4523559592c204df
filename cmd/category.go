package main

import (
	"encoding/json"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/marketingflorenza/onlinebornsong/internal/analytics"
	"github.com/marketingflorenza/onlinebornsong/internal/report"
)

var (
	categoryStart   string
	categoryEnd     string
	categoryRefresh bool
	categoryFormat  string
)

var categoryCmd = &cobra.Command{
	Use:   "category <name>",
	Short: "Show a category's bills for a window, with upgrade origin context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		start, end := windowDefaults(categoryStart, categoryEnd)
		window, err := analytics.ParseWindow(start, end)
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		rows, err := loadRows(ctx, st, categoryRefresh)
		if err != nil {
			return err
		}

		agg := analytics.AggregateWindow(rows, window, aggOptions())
		detail := analytics.BuildCategoryDetail(args[0], agg.FilteredRows, rows)

		if categoryFormat == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return eris.Wrap(enc.Encode(detail), "encode category detail")
		}

		report.NewRenderer(cfg.Report).RenderCategoryDetail(cmd.OutOrStdout(), detail)
		return nil
	},
}

func init() {
	f := categoryCmd.Flags()
	f.StringVar(&categoryStart, "start", "", "window start (YYYY-MM-DD, default first of this month)")
	f.StringVar(&categoryEnd, "end", "", "window end (YYYY-MM-DD, default today)")
	f.BoolVar(&categoryRefresh, "refresh", false, "refetch the sheet instead of using the latest snapshot")
	f.StringVar(&categoryFormat, "format", "table", "output format: table or json")
	rootCmd.AddCommand(categoryCmd)
}
