package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendlens/cmd/spendlens/internal/commands"
)

func sqliteEnv(t *testing.T) {
	t.Helper()

	t.Setenv("STORAGE", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "spendlens.db"))
	t.Setenv("ANALYSIS_DELAY", "0s")
	t.Setenv("LOG_LEVEL", "error")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	root := commands.NewRoot()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()

	return out.String(), err
}

func TestSeedSummaryAnalyze(t *testing.T) {
	sqliteEnv(t)

	out, err := run(t, "seed", "--owner", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 8 expenses for alice")

	out, err = run(t, "summary", "--owner", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Healthcare")
	assert.Contains(t, out, "2023-05")

	out, err = run(t, "analyze", "--owner", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Total potential savings")

	out, err = run(t, "summary", "--owner", "bob")
	require.NoError(t, err)
	assert.NotContains(t, out, "Healthcare")
}

func TestImport(t *testing.T) {
	sqliteEnv(t)

	path := filepath.Join(t.TempDir(), "bank.csv")
	content := "Data;Categoria;Descrição;Montante\n15-01-2024;Shopping;Sapatos;-1.234,56\n16-01-2024;;Café;3,50\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	out, err := run(t, "rule", "add", "café", "Food & Dining")
	require.NoError(t, err)
	assert.Contains(t, out, "Rule saved")

	out, err = run(t, "rule", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Food & Dining")

	out, err = run(t, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 expenses (european")
	assert.Contains(t, out, "1 categorized by rules")

	_, err = run(t, "import", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	sqliteEnv(t)

	_, err := run(t, "seed")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.zip")

	out, err := run(t, "export", "-o", path, "--category", "Healthcare")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 expenses to "+path)
	assert.FileExists(t, path)

	_, err = run(t, "export", "-o", path, "--from", "May 1")
	assert.ErrorContains(t, err, "invalid date")
}

func TestReportWritesCharts(t *testing.T) {
	sqliteEnv(t)

	_, err := run(t, "seed")
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "charts")

	out, err := run(t, "report", "--chart-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Total potential savings")

	for _, name := range []string{"category.png", "monthly.png"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), name)
	}
}

func TestReport_EmptySkipsCharts(t *testing.T) {
	sqliteEnv(t)

	dir := filepath.Join(t.TempDir(), "charts")

	_, err := run(t, "report", "--chart-dir", dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "category.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestMigrate(t *testing.T) {
	sqliteEnv(t)

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Migrations applied (sqlite)")

	t.Setenv("STORAGE", "memory")

	_, err = run(t, "migrate")
	assert.ErrorContains(t, err, "requires STORAGE")
}

func TestWatchRequiresBroker(t *testing.T) {
	sqliteEnv(t)

	_, err := run(t, "watch")
	assert.ErrorContains(t, err, "AMQP_URL")
}
