// Package filesink writes generated claim events to a local JSON file, the
// sink used when Kafka publishing is disabled. The written file feeds the
// analyze and validate commands.
package filesink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/meridianseguros/claims-backfill/internal/domain"
)

// Sink appends nothing: each LoadBatch call rewrites the file with the full
// batch. It implements pipeline.ClaimSink.
type Sink struct {
	path   string
	logger *slog.Logger
}

func New(path string, logger *slog.Logger) *Sink {
	return &Sink{path: path, logger: logger}
}

// LoadBatch serializes the events as an indented JSON array.
func (s *Sink) LoadBatch(_ context.Context, events []domain.ClaimEvent) error {
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize claim events: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create events directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write claim events: %w", err)
	}

	s.logger.Info("claim events written", "path", s.path, "count", len(events))
	return nil
}
