package main

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marketingflorenza/onlinebornsong/internal/ledger"
	"github.com/marketingflorenza/onlinebornsong/internal/model"
)

var (
	importFile  string
	importSheet string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a local ledger export (.xlsx or .csv) as a snapshot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		var (
			header []string
			cells  [][]string
			source model.SnapshotSource
			err    error
		)
		switch strings.ToLower(filepath.Ext(importFile)) {
		case ".xlsx":
			header, cells, err = ledger.ReadXLSX(importFile, ledger.XLSXOptions{SheetName: importSheet})
			source = model.SnapshotSourceXLSX
		case ".csv":
			header, cells, err = ledger.ReadCSV(importFile)
			source = model.SnapshotSourceCSV
		default:
			return eris.Errorf("unsupported ledger file %q (want .xlsx or .csv)", importFile)
		}
		if err != nil {
			return err
		}

		rows := ledger.NewMapper(cfg.Columns).MapTable(header, cells)

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		snap, err := st.SaveSnapshot(ctx, source, rows)
		if err != nil {
			return err
		}

		zap.L().Info("ledger imported",
			zap.String("snapshot_id", snap.ID),
			zap.String("file", importFile),
			zap.Int("rows", len(rows)),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "path to ledger export (required)")
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "xlsx sheet name (default first sheet)")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
