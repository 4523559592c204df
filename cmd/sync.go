package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncPruneDays int

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the ledger sheet and save a fresh snapshot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if _, err := fetchSheet(ctx, st); err != nil {
			return err
		}

		if syncPruneDays > 0 {
			cutoff := time.Now().AddDate(0, 0, -syncPruneDays)
			deleted, err := st.DeleteSnapshotsBefore(ctx, cutoff)
			if err != nil {
				return err
			}
			zap.L().Info("pruned old snapshots",
				zap.Int("deleted", deleted),
				zap.Int("older_than_days", syncPruneDays),
			)
		}
		return nil
	},
}

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List stored ledger snapshots",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		snaps, err := st.ListSnapshots(ctx, 20)
		if err != nil {
			return err
		}
		if len(snaps) == 0 {
			cmd.Println("no snapshots")
			return nil
		}
		for _, s := range snaps {
			cmd.Printf("%s  %-6s %6d rows  %s\n",
				s.ID, s.Source, s.RowCount, s.FetchedAt.Local().Format(time.RFC3339))
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().IntVar(&syncPruneDays, "prune-days", 0, "also delete snapshots older than this many days")
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(snapshotsCmd)
}
