package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ReportMetadata describes the dataset a report was computed from.
type ReportMetadata struct {
	GeneratedAt time.Time `json:"generated_at"`
	TotalEvents int       `json:"total_events"`
	PeriodStart time.Time `json:"period_start,omitempty"`
	PeriodEnd   time.Time `json:"period_end,omitempty"`
}

// Report is the exported document: metadata plus the full pattern and
// insight output.
type Report struct {
	Metadata ReportMetadata `json:"metadata"`
	Patterns Patterns       `json:"patterns"`
	Insights Insights       `json:"insights"`
}

// ExportReport serializes the analysis of the current dataset to a JSON
// document. An empty path derives a timestamped default in the working
// directory. The written path is returned; a failed write is surfaced to
// the caller — silent loss of a report would break auditability.
func (a *Analyzer) ExportReport(path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("claims_report_%s.json", a.clock.Now().UTC().Format("20060102_150405"))
	}

	start, end := a.period()
	report := Report{
		Metadata: ReportMetadata{
			GeneratedAt: a.clock.Now().UTC(),
			TotalEvents: len(a.records),
			PeriodStart: start,
			PeriodEnd:   end,
		},
		Patterns: a.AnalyzePatterns(),
		Insights: a.GenerateInsights(),
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	a.logger.Info("report exported", "path", path, "total_events", len(a.records))
	return path, nil
}
