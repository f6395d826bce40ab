// Package retrieval ranks cases by textual similarity to free-text queries
// and runs the batch retrieval stage of the pipeline.
package retrieval

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"precedent/internal/casebase"
	"precedent/internal/domain"
	"precedent/internal/jsonio"
)

// Retriever scores queries against an indexed case base through the
// pluggable embedder and vector store strategies.
type Retriever struct {
	embedder domain.Embedder
	store    domain.VectorStore
	logger   *slog.Logger
}

func New(embedder domain.Embedder, store domain.VectorStore, logger *slog.Logger) *Retriever {
	return &Retriever{embedder: embedder, store: store, logger: logger}
}

// BuildIndex fits the similarity model and indexes every case that yields a
// usable retrieval document. extraCorpus lets the batch run include query
// texts in the vocabulary fit, matching how the model is trained on the
// combined corpus.
func (r *Retriever) BuildIndex(cases []domain.Case, extraCorpus []string) error {
	var ids []string
	var texts []string
	for _, c := range cases {
		text := casebase.RetrievalText(c)
		if text == "" {
			r.logger.Warn("skipping case with no usable text content", slog.String("case_id", c.CaseID))
			continue
		}
		ids = append(ids, c.CaseID)
		texts = append(texts, text)
	}
	if len(ids) == 0 {
		return errors.New("no valid case texts extracted for retrieval")
	}
	corpus := make([]string, 0, len(texts)+len(extraCorpus))
	corpus = append(corpus, texts...)
	corpus = append(corpus, extraCorpus...)
	if err := r.embedder.Prepare(corpus); err != nil {
		return fmt.Errorf("prepare %s embedder: %w", r.embedder.Name(), err)
	}
	if err := r.store.Init(r.embedder.Dimension()); err != nil {
		return fmt.Errorf("init vector store: %w", err)
	}
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := r.embedder.Embed(text)
		if err != nil {
			return fmt.Errorf("embed case %s: %w", ids[i], err)
		}
		vectors[i] = vec
	}
	if err := r.store.Clear(); err != nil {
		return err
	}
	if err := r.store.Upsert(ids, vectors); err != nil {
		return fmt.Errorf("index case vectors: %w", err)
	}
	r.logger.Info("case index built", slog.Int("cases", len(ids)), slog.Int("dimension", r.embedder.Dimension()))
	return nil
}

// Retrieve returns the top-k most similar cases for the query text. An empty
// index yields an empty result without error; k greater than the number of
// indexed cases returns all of them ranked.
func (r *Retriever) Retrieve(queryID, text string, k int) (domain.RetrievalResult, error) {
	vec, err := r.embedder.Embed(text)
	if err != nil {
		return domain.RetrievalResult{}, fmt.Errorf("embed query %s: %w", queryID, err)
	}
	ranked, err := r.store.Search(vec, k)
	if err != nil {
		return domain.RetrievalResult{}, fmt.Errorf("search for query %s: %w", queryID, err)
	}
	return domain.RetrievalResult{QueryID: queryID, Ranked: ranked}, nil
}

// RunConfig names the artifacts of one batch retrieval run.
type RunConfig struct {
	CaseBasePath string
	QueriesPath  string
	OutputPath   string
	TopK         int
}

// Run executes the batch retrieval stage: load the case base and queries,
// build the index, rank the top-K cases per query, and write the retrieval
// JSON. Empty-but-valid inputs end the run gracefully with a warning and no
// output file; file-level failures are returned as errors before anything is
// written.
func Run(cfg RunConfig, embedder domain.Embedder, store domain.VectorStore, logger *slog.Logger) error {
	outDir := filepath.Dir(cfg.OutputPath)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", outDir, err)
	}
	caseStore, err := casebase.Load(cfg.CaseBasePath, logger)
	if err != nil {
		return fmt.Errorf("load case base: %w", err)
	}
	queries, err := LoadQueries(cfg.QueriesPath, logger)
	if err != nil {
		return fmt.Errorf("load queries: %w", err)
	}
	if caseStore.Len() == 0 {
		logger.Warn("no cases found in the case base; retrieval cannot proceed")
		return nil
	}
	if len(queries) == 0 {
		logger.Warn("no queries found; retrieval cannot proceed")
		return nil
	}

	queryTexts := make([]string, len(queries))
	for i, q := range queries {
		queryTexts[i] = q.Text
	}
	retriever := New(embedder, store, logger)
	if err := retriever.BuildIndex(caseStore.Ordered(), queryTexts); err != nil {
		return err
	}

	topK := cfg.TopK
	if topK <= 0 {
		topK = 5
	}
	results := make([]resultEntry, 0, len(queries))
	for _, q := range queries {
		res, err := retriever.Retrieve(q.QueryID, q.Text, topK)
		if err != nil {
			return err
		}
		entry := resultEntry{QueryID: res.QueryID, TopKCaseIDs: []string{}, SimilarityScores: []float64{}}
		for _, rc := range res.Ranked {
			entry.TopKCaseIDs = append(entry.TopKCaseIDs, rc.CaseID)
			entry.SimilarityScores = append(entry.SimilarityScores, rc.Score)
		}
		results = append(results, entry)
	}
	logger.Info("retrieval complete", slog.Int("queries", len(results)), slog.Int("top_k", topK))

	data, err := json.MarshalIndent(results, "", "    ")
	if err != nil {
		return fmt.Errorf("encode retrieval results: %w", err)
	}
	if err := os.WriteFile(cfg.OutputPath, data, 0o644); err != nil {
		return fmt.Errorf("write retrieval results to %s: %w", cfg.OutputPath, err)
	}
	logger.Info("retrieval results saved", slog.String("file", cfg.OutputPath))
	return nil
}

// resultEntry is the wire form of one query's retrieval result, the field
// names the prediction stage reads back.
type resultEntry struct {
	QueryID          string    `json:"query_id"`
	TopKCaseIDs      []string  `json:"top_k_case_ids"`
	SimilarityScores []float64 `json:"similarity_scores"`
}

// LoadQueries reads the queries JSON array. Entries that are not objects or
// that have a missing or blank text field are skipped with a warning; a
// non-empty file that yields no usable queries at all is an error.
func LoadQueries(path string, logger *slog.Logger) ([]domain.Query, error) {
	entries, err := jsonio.DecodeList(path)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		logger.Warn("no data found", slog.String("file", path))
		return nil, nil
	}
	logger.Info("loaded query entries", slog.String("file", path), slog.Int("count", len(entries)))
	queries := make([]domain.Query, 0, len(entries))
	for i, raw := range entries {
		var q domain.Query
		if err := json.Unmarshal(raw, &q); err != nil {
			logger.Warn("skipping malformed query entry",
				slog.String("file", path),
				slog.Int("index", i),
				slog.String("error", err.Error()))
			continue
		}
		if q.QueryID == "" {
			q.QueryID = fmt.Sprintf("query_%d", i)
		}
		q.Text = strings.TrimSpace(q.Text)
		if q.Text == "" {
			logger.Warn("skipping query with missing or empty text",
				slog.String("file", path),
				slog.String("query_id", q.QueryID))
			continue
		}
		queries = append(queries, q)
	}
	// An empty file is a valid no-op, but a file whose entries all had to
	// be skipped leaves nothing to retrieve for and aborts the run.
	if len(queries) == 0 {
		return nil, fmt.Errorf("no valid query texts found in %s", path)
	}
	return queries, nil
}
