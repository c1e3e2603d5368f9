package analysis

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianseguros/claims-backfill/internal/domain"
)

func TestExportReport(t *testing.T) {
	ts := time.Date(2025, time.March, 5, 9, 0, 0, 0, time.UTC)

	t.Run("writes a round-trippable report document", func(t *testing.T) {
		a := newTestAnalyzer(t)
		a.Load([]domain.ClaimEvent{
			eventAt("e1", domain.TypeAlagamento, ts, 25_000),
			eventAt("e2", domain.TypeVendaval, ts.AddDate(0, 0, 10), 40_000),
		})

		path := filepath.Join(t.TempDir(), "report.json")
		written, err := a.ExportReport(path)
		require.NoError(t, err)
		assert.Equal(t, path, written)

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var report Report
		require.NoError(t, json.Unmarshal(data, &report))

		assert.Equal(t, 2, report.Metadata.TotalEvents)
		assert.Equal(t, ts, report.Metadata.PeriodStart.UTC())
		assert.Equal(t, ts.AddDate(0, 0, 10), report.Metadata.PeriodEnd.UTC())
		assert.Equal(t, time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC), report.Metadata.GeneratedAt)

		require.NotNil(t, report.Patterns.Temporal)
		require.NotNil(t, report.Patterns.ByType)
		require.NotNil(t, report.Patterns.Financial)
		assert.NotEmpty(t, report.Insights.Recommendations)
	})

	t.Run("creates intermediate directories", func(t *testing.T) {
		a := newTestAnalyzer(t)
		a.Load([]domain.ClaimEvent{eventAt("e1", domain.TypeSeca, ts, 5_000)})

		path := filepath.Join(t.TempDir(), "reports", "nested", "report.json")
		written, err := a.ExportReport(path)
		require.NoError(t, err)
		assert.FileExists(t, written)
	})

	t.Run("empty path derives a timestamped default name", func(t *testing.T) {
		a := newTestAnalyzer(t)
		a.Load(nil)

		dir := t.TempDir()
		cwd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(dir))
		t.Cleanup(func() { _ = os.Chdir(cwd) })

		written, err := a.ExportReport("")
		require.NoError(t, err)
		assert.Equal(t, "claims_report_20260115_120000.json", written)
		assert.FileExists(t, filepath.Join(dir, written))
	})

	t.Run("empty dataset exports empty pattern groups", func(t *testing.T) {
		a := newTestAnalyzer(t)
		a.Load(nil)

		path := filepath.Join(t.TempDir(), "empty.json")
		_, err := a.ExportReport(path)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var raw map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(data, &raw))

		var patterns map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(raw["patterns"], &patterns))
		assert.Empty(t, patterns, "omitempty must drop every nil group")
	})

	t.Run("unwritable path surfaces the error", func(t *testing.T) {
		a := newTestAnalyzer(t)
		a.Load(nil)

		dir := t.TempDir()
		blocker := filepath.Join(dir, "not-a-dir")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

		_, err := a.ExportReport(filepath.Join(blocker, "report.json"))
		assert.Error(t, err)
	})
}
