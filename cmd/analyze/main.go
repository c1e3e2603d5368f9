// Command analyze runs the pattern analyzer over an existing claim-event
// JSON file — synthetic or real — and exports the report document. It also
// prints summary statistics in a form convenient for updating test
// assertions.
//
// Usage:
//
//	go run ./cmd/analyze -events data/claim_events.json -out reports/claims_report.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/meridianseguros/claims-backfill/internal/analysis"
	"github.com/meridianseguros/claims-backfill/internal/domain"
	"github.com/meridianseguros/claims-backfill/internal/generator"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	eventsPath := flag.String("events", "", "path to a claim-event JSON array")
	outPath := flag.String("out", "", "report output path (default: timestamped in cwd)")
	flag.Parse()

	if *eventsPath == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -events")
	}

	events, err := loadEvents(*eventsPath)
	if err != nil {
		return fmt.Errorf("loading events: %w", err)
	}
	log.Printf("loaded %d claim events from %s", len(events), *eventsPath)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	analyzer := analysis.New(logger, clockwork.NewRealClock())
	analyzer.Load(events)

	path, err := analyzer.ExportReport(*outPath)
	if err != nil {
		return fmt.Errorf("exporting report: %w", err)
	}
	log.Printf("wrote report: %s", path)

	printStats(events, analyzer)
	return nil
}

func loadEvents(path string) ([]domain.ClaimEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var events []domain.ClaimEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func printStats(events []domain.ClaimEvent, analyzer *analysis.Analyzer) {
	summary := generator.Summarize(events)
	patterns := analyzer.AnalyzePatterns()

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", summary.Total)
	fmt.Printf("Total loss: R$ %.2f (mean R$ %.2f)\n", summary.TotalLoss, summary.MeanLoss)

	types := make([]domain.ClaimType, 0, len(summary.CountByType))
	for ct := range summary.CountByType {
		types = append(types, ct)
	}
	sort.Slice(types, func(i, j int) bool {
		return summary.CountByType[types[i]] > summary.CountByType[types[j]]
	})
	fmt.Printf("By type: ")
	for _, ct := range types {
		fmt.Printf("%s=%d ", ct, summary.CountByType[ct])
	}
	fmt.Println()

	severityCounts := map[domain.SeverityBand]int{}
	for i := range events {
		severityCounts[events[i].Severity]++
	}
	fmt.Printf("By severity: leve=%d, moderado=%d, grave=%d, severo=%d, catastrofico=%d\n",
		severityCounts[domain.SeverityLeve], severityCounts[domain.SeverityModerado],
		severityCounts[domain.SeverityGrave], severityCounts[domain.SeveritySevero],
		severityCounts[domain.SeverityCatastrofico])

	if t := patterns.Temporal; t != nil {
		fmt.Printf("Peak month: %s (%d events), trough: %s (%d events)\n",
			time.Month(t.PeakMonth), t.ByMonth[t.PeakMonth],
			time.Month(t.TroughMonth), t.ByMonth[t.TroughMonth])
	}
	if bt := patterns.ByType; bt != nil {
		fmt.Printf("Most frequent: %s, most costly: %s\n", bt.MostFrequent, bt.MostCostly)
	}
	if g := patterns.Geographic; g != nil && len(g.DensestCells) > 0 {
		fmt.Printf("Densest cell: %s (%d events)\n", g.DensestCells[0].Cell, g.DensestCells[0].Count)
	}
}
