package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir, which is unavailable before Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "SUM", cfg.Sheet.Name)
	assert.Equal(t, "databillRam", cfg.Ads.Endpoint)
	assert.Equal(t, "ชื่อลูกค้า", cfg.Columns.Customer)
	assert.Equal(t, "ยอดอัพ P1", cfg.Columns.UpP1)
	assert.Equal(t, "RAM", cfg.Report.BranchName)
	assert.Equal(t, "฿", cfg.Report.CurrencySymbol)
	assert.Equal(t, "ไม่ระบุ", cfg.Report.UnspecifiedChannel)
	assert.Equal(t, 15, cfg.Report.TopCategories)
	assert.Equal(t, "bornsong.db", cfg.Store.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yaml := `
sheet:
  id: sheet-abc
report:
  branch_name: BKK
  top_categories: 5
columns:
  customer: Customer Name
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bornsong.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sheet-abc", cfg.Sheet.ID)
	assert.Equal(t, "BKK", cfg.Report.BranchName)
	assert.Equal(t, 5, cfg.Report.TopCategories)
	assert.Equal(t, "Customer Name", cfg.Columns.Customer)
	// Untouched keys keep their defaults.
	assert.Equal(t, "SUM", cfg.Sheet.Name)
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BORNSONG_REPORT_BRANCH_NAME", "CNX")
	t.Setenv("BORNSONG_SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "CNX", cfg.Report.BranchName)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.Error(t, InitLogger(LogConfig{Level: "bogus"}))
}
