package reportstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/hazard-verify-service/internal/domain"
	"github.com/couchcryptid/hazard-verify-service/internal/observability"
)

// document is the on-disk layout shared with the reporting backend.
type document struct {
	Reports *[]domain.Report `json:"reports"`
}

// rawDocument defers record decoding so one bad record does not discard the file.
type rawDocument struct {
	Reports *[]json.RawMessage `json:"reports"`
}

// FileStore implements domain.HistoryReader over the backend's JSON report file.
// The file is re-read on every call; no state is cached between requests.
type FileStore struct {
	path    string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewFileStore creates a history reader for the file at path.
func NewFileStore(path string, logger *slog.Logger, metrics *observability.Metrics) *FileStore {
	return &FileStore{path: path, logger: logger, metrics: metrics}
}

// LoadHistory returns the current report history. Read and decode failures
// produce an unavailable result rather than an error.
func (s *FileStore) LoadHistory(ctx context.Context) domain.HistoryResult {
	result := s.load(ctx)

	s.metrics.HistoryLoads.WithLabelValues(string(result.Status)).Inc()
	s.metrics.HistoryRecords.Set(float64(len(result.Reports)))
	if !result.Available() {
		s.logger.Warn("report history unavailable", "path", s.path, "error", result.Err)
	}
	return result
}

func (s *FileStore) load(ctx context.Context) domain.HistoryResult {
	if err := ctx.Err(); err != nil {
		return domain.UnavailableHistory(err)
	}

	reports, skipped, err := ReadHistory(s.path)
	if err != nil {
		return domain.UnavailableHistory(err)
	}
	if skipped > 0 {
		s.metrics.HistorySkippedRecords.Add(float64(skipped))
		s.logger.Warn("skipped malformed history records", "path", s.path, "skipped", skipped)
	}
	return domain.HistoryFromReports(reports)
}

// ReadHistory decodes the report file at path. A zero-length or whitespace-only
// file is an empty history; a missing or non-array "reports" field is an error.
// Records that fail to decode are left out and counted in skipped.
func ReadHistory(path string) (reports []domain.Report, skipped int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read history: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, 0, nil
	}

	var doc rawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, 0, fmt.Errorf("decode history %s: %w", filepath.Base(path), err)
	}
	if doc.Reports == nil {
		return nil, 0, errors.New("decode history: missing reports collection")
	}

	reports = make([]domain.Report, 0, len(*doc.Reports))
	for _, raw := range *doc.Reports {
		var r domain.Report
		if err := json.Unmarshal(raw, &r); err != nil {
			skipped++
			continue
		}
		reports = append(reports, r)
	}
	return reports, skipped, nil
}

// WriteHistory writes reports to path in the backend's layout, replacing any
// existing file.
func WriteHistory(path string, reports []domain.Report) error {
	if reports == nil {
		reports = []domain.Report{}
	}
	data, err := json.MarshalIndent(document{Reports: &reports}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create history dir: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}
