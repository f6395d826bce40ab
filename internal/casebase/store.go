// Package casebase loads the processed case collection and indexes it by
// case identifier. The store is built once per run and never mutated after
// load.
package casebase

import (
	"encoding/json"
	"log/slog"

	"precedent/internal/domain"
	"precedent/internal/jsonio"
)

// Store is the read-only in-memory index of all known cases. Iteration order
// over Ordered follows the case-base file, which downstream ranking relies
// on for stable tie-breaking.
type Store struct {
	byID  map[string]domain.Case
	order []string
}

// Load reads the case base JSON array from path. Non-object entries and
// entries without a case_id are skipped with a warning; duplicate ids keep
// their first position but the last value wins. A missing file, invalid
// JSON, or non-array top level is an error.
func Load(path string, logger *slog.Logger) (*Store, error) {
	entries, err := jsonio.DecodeList(path)
	if err != nil {
		return nil, err
	}
	s := &Store{byID: make(map[string]domain.Case, len(entries))}
	if len(entries) == 0 {
		logger.Warn("no data found", slog.String("file", path))
		return s, nil
	}
	logger.Info("loaded case entries", slog.String("file", path), slog.Int("count", len(entries)))
	for i, raw := range entries {
		var c domain.Case
		if err := json.Unmarshal(raw, &c); err != nil {
			logger.Warn("skipping malformed case entry",
				slog.String("file", path),
				slog.Int("index", i),
				slog.String("error", err.Error()))
			continue
		}
		if c.CaseID == "" {
			logger.Warn("skipping case with missing case_id",
				slog.String("file", path),
				slog.Int("index", i))
			continue
		}
		if _, dup := s.byID[c.CaseID]; !dup {
			s.order = append(s.order, c.CaseID)
		}
		s.byID[c.CaseID] = c
	}
	return s, nil
}

// Get returns the case for id, if known.
func (s *Store) Get(id string) (domain.Case, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// Len reports the number of distinct cases in the store.
func (s *Store) Len() int { return len(s.order) }

// Ordered returns all cases in case-base order.
func (s *Store) Ordered() []domain.Case {
	out := make([]domain.Case, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}
