package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marketingflorenza/onlinebornsong/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "bornsong",
	Short: "Branch sales-ledger analytics",
	Long:  "Aggregates the branch sales ledger into period reports: revenue and bills by stage, channel, and category, new-vs-repeat customers, period-over-period deltas, and ads funnel ratios.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
