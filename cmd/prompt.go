package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marketingflorenza/onlinebornsong/internal/analytics"
	"github.com/marketingflorenza/onlinebornsong/internal/report"
	"github.com/marketingflorenza/onlinebornsong/pkg/adsapi"
)

var (
	promptStart string
	promptEnd   string
	promptNoAds bool
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the analysis prompt text for the window",
	Long:  "Renders the window's sales and ads figures as the Thai analysis prompt the branch pastes into an LLM chat.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		start, end := windowDefaults(promptStart, promptEnd)
		window, err := analytics.ParseWindow(start, end)
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		rows, err := loadRows(ctx, st, false)
		if err != nil {
			return err
		}
		agg := analytics.AggregateWindow(rows, window, aggOptions())

		var totals *adsapi.Totals
		if !promptNoAds {
			resp, err := adsClient().Totals(ctx, start, end)
			if err != nil {
				zap.L().Warn("ads fetch failed", zap.Error(err))
			} else {
				totals = &resp.Totals
			}
		}

		renderer := report.NewRenderer(cfg.Report)
		_, err = os.Stdout.WriteString(renderer.BuildPrompt(window, agg, totals))
		return err
	},
}

func init() {
	f := promptCmd.Flags()
	f.StringVar(&promptStart, "start", "", "window start (YYYY-MM-DD, default first of this month)")
	f.StringVar(&promptEnd, "end", "", "window end (YYYY-MM-DD, default today)")
	f.BoolVar(&promptNoAds, "no-ads", false, "skip the ads-metrics fetch")
	rootCmd.AddCommand(promptCmd)
}
