// Package analysis extracts temporal, type-based, climatic, financial, and
// geographic patterns from a claim-event population, derives rule-based
// insights, and exports a report document. It depends only on the claim
// event shape — the population may be synthetic, real, or mixed.
package analysis

import (
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/meridianseguros/claims-backfill/internal/domain"
)

// record is a claim event expanded with derived calendar fields so the
// aggregation passes never re-derive them.
type record struct {
	domain.ClaimEvent
	year    int
	month   time.Month
	weekday time.Weekday
	quarter int
}

// Analyzer holds exactly one working dataset at a time. It is not safe for
// concurrent use: Load replaces shared state read by every other method, so
// callers must serialize access or use one Analyzer per batch.
type Analyzer struct {
	records []record
	logger  *slog.Logger
	clock   clockwork.Clock
}

// New creates an Analyzer with an empty dataset.
func New(logger *slog.Logger, clock clockwork.Clock) *Analyzer {
	return &Analyzer{logger: logger, clock: clock}
}

// Load replaces any previously loaded dataset — there is no accumulation
// across calls — and derives calendar fields from each event's timestamp.
func (a *Analyzer) Load(events []domain.ClaimEvent) {
	a.records = make([]record, 0, len(events))
	for _, e := range events {
		ts := e.OccurredAt
		a.records = append(a.records, record{
			ClaimEvent: e,
			year:       ts.Year(),
			month:      ts.Month(),
			weekday:    ts.Weekday(),
			quarter:    (int(ts.Month())-1)/3 + 1,
		})
	}
	a.logger.Debug("dataset loaded", "events", len(a.records))
}

// Len returns the size of the loaded dataset.
func (a *Analyzer) Len() int {
	return len(a.records)
}

// period returns the earliest and latest event timestamps in the dataset.
func (a *Analyzer) period() (time.Time, time.Time) {
	if len(a.records) == 0 {
		return time.Time{}, time.Time{}
	}
	start, end := a.records[0].OccurredAt, a.records[0].OccurredAt
	for i := range a.records {
		ts := a.records[i].OccurredAt
		if ts.Before(start) {
			start = ts
		}
		if ts.After(end) {
			end = ts
		}
	}
	return start, end
}
