// Package predict aggregates statutory citations across retrieved cases and
// emits a majority-vote outcome per query.
package predict

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"precedent/internal/casebase"
	"precedent/internal/citation"
	"precedent/internal/domain"
	"precedent/internal/jsonio"
)

// NoData is the predicted solution when no citations can be extracted for a
// query.
const NoData = "N/A"

const (
	maxSolutions  = 5
	maxSupporting = 5
)

// tally counts citation occurrences in first-seen insertion order, so that
// tie-breaking on equal counts is deterministic.
type tally struct {
	counts map[string]int
	order  []string
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(c string) {
	if _, ok := t.counts[c]; !ok {
		t.order = append(t.order, c)
	}
	t.counts[c]++
}

// top returns the n most frequent citations; ties keep insertion order.
func (t *tally) top(n int) []string {
	ranked := make([]string, len(t.order))
	copy(ranked, t.order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return t.counts[ranked[i]] > t.counts[ranked[j]]
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// Predictor resolves retrieved case identifiers against the case base and
// votes over their extracted citations. It holds no per-query state.
type Predictor struct {
	store  *casebase.Store
	logger *slog.Logger
}

func New(store *casebase.Store, logger *slog.Logger) *Predictor {
	return &Predictor{store: store, logger: logger}
}

// Predict runs the majority vote for one query. Retrieved ids missing from
// the case base are logged and skipped; the supporting id list in the
// result is always the raw retrieved order truncated to five entries,
// whether or not those ids resolved.
func (p *Predictor) Predict(queryID string, retrievedIDs []string) domain.Prediction {
	supporting := make([]string, 0, maxSupporting)
	for _, id := range retrievedIDs {
		if len(supporting) == maxSupporting {
			break
		}
		supporting = append(supporting, id)
	}
	pred := domain.Prediction{QueryID: queryID, SupportingCaseIDs: supporting}

	var resolved []domain.Case
	for _, id := range retrievedIDs {
		c, ok := p.store.Get(id)
		if !ok {
			p.logger.Warn("retrieved case not found in case base",
				slog.String("query_id", queryID),
				slog.String("case_id", id))
			continue
		}
		resolved = append(resolved, c)
	}
	if len(resolved) == 0 {
		p.logger.Warn("no retrieved cases resolved; skipping majority vote",
			slog.String("query_id", queryID))
		pred.PredictedSolution = NoData
		return pred
	}

	votes := newTally()
	for _, c := range resolved {
		// Extraction deduplicates per case, so each case contributes each
		// of its citations once.
		for _, cit := range citation.Extract(c.Pasal) {
			votes.add(cit)
		}
	}
	if len(votes.order) == 0 {
		pred.PredictedSolution = NoData
		return pred
	}
	pred.PredictedSolution = citation.Join(votes.top(maxSolutions))
	return pred
}

// RunConfig names the artifacts of one batch prediction run.
type RunConfig struct {
	RetrievalPath string
	CaseBasePath  string
	OutputPath    string
}

// Run executes the batch prediction stage: load the retrieval results and
// case base, vote per query, and write the predictions CSV. An empty
// retrieval collection ends the run with a warning and no output file;
// file-level failures and a case base with zero usable identifiers are
// errors returned before anything is written.
func Run(cfg RunConfig, logger *slog.Logger) error {
	outDir := filepath.Dir(cfg.OutputPath)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", outDir, err)
	}
	logger.Info("starting prediction", slog.String("retrieval", cfg.RetrievalPath), slog.String("case_base", cfg.CaseBasePath))

	entries, err := loadRetrievalEntries(cfg.RetrievalPath, logger)
	if err != nil {
		return fmt.Errorf("load retrieval data: %w", err)
	}
	if len(entries) == 0 {
		logger.Warn("no retrieval data found; nothing to predict", slog.String("file", cfg.RetrievalPath))
		return nil
	}
	caseStore, err := casebase.Load(cfg.CaseBasePath, logger)
	if err != nil {
		return fmt.Errorf("load case base: %w", err)
	}
	if caseStore.Len() == 0 {
		return fmt.Errorf("no valid case ids found in case base %s", cfg.CaseBasePath)
	}

	predictor := New(caseStore, logger)
	predictions := make([]domain.Prediction, 0, len(entries))
	for _, e := range entries {
		predictions = append(predictions, predictor.Predict(e.QueryID, e.TopKCaseIDs))
	}
	logger.Info("queries processed for prediction", slog.Int("count", len(predictions)))

	if err := WriteCSV(cfg.OutputPath, predictions); err != nil {
		return fmt.Errorf("write predictions to %s: %w", cfg.OutputPath, err)
	}
	logger.Info("predictions saved", slog.String("file", cfg.OutputPath))
	return nil
}

// retrievalEntry is the wire form of one query's retrieval result as
// produced by the retrieval stage.
type retrievalEntry struct {
	QueryID     string
	TopKCaseIDs []string
}

// loadRetrievalEntries reads the retrieval JSON array. Non-object entries
// and entries whose top_k_case_ids field is missing or not a list of
// strings are skipped with a warning.
func loadRetrievalEntries(path string, logger *slog.Logger) ([]retrievalEntry, error) {
	raws, err := jsonio.DecodeList(path)
	if err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, nil
	}
	logger.Info("loaded retrieval entries", slog.String("file", path), slog.Int("count", len(raws)))
	entries := make([]retrievalEntry, 0, len(raws))
	for i, raw := range raws {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			logger.Warn("skipping non-object entry in retrieval data",
				slog.String("file", path),
				slog.Int("index", i))
			continue
		}
		entry := retrievalEntry{QueryID: "UNKNOWN_QUERY"}
		if rawID, ok := fields["query_id"]; ok {
			var id string
			if err := json.Unmarshal(rawID, &id); err == nil && id != "" {
				entry.QueryID = id
			}
		}
		rawIDs, ok := fields["top_k_case_ids"]
		if !ok {
			logger.Warn("skipping query: top_k_case_ids missing",
				slog.String("file", path),
				slog.String("query_id", entry.QueryID))
			continue
		}
		// A null field unmarshals without error into a nil slice, so it has
		// to be rejected alongside the other non-list shapes.
		if err := json.Unmarshal(rawIDs, &entry.TopKCaseIDs); err != nil || entry.TopKCaseIDs == nil {
			logger.Warn("skipping query: top_k_case_ids is not a list of strings",
				slog.String("file", path),
				slog.String("query_id", entry.QueryID))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
