package domain

// Case is a structured record derived from one court decision. CaseID is the
// sole join key between retrieval output and the case base; the remaining
// fields are optional and decode to "" when absent.
type Case struct {
	CaseID         string `json:"case_id"`
	NoPerkara      string `json:"no_perkara,omitempty"`
	JenisPerkara   string `json:"jenis_perkara,omitempty"`
	Tanggal        string `json:"tanggal,omitempty"`
	RingkasanFakta string `json:"ringkasan_fakta,omitempty"`
	Pasal          string `json:"pasal,omitempty"`
	StatusHukuman  string `json:"status_hukuman,omitempty"`
}

// Query pairs an identifier with the free text used to rank cases.
type Query struct {
	QueryID string `json:"query_id"`
	Text    string `json:"text"`
}

// RankedCase is one retrieval hit: a case identifier with its similarity score.
type RankedCase struct {
	CaseID string
	Score  float64
}

// RetrievalResult holds the top-K most similar cases for one query, ordered
// by descending score with ties in case-base order.
type RetrievalResult struct {
	QueryID string
	Ranked  []RankedCase
}

// Prediction is the majority-vote outcome for one query. SupportingCaseIDs
// is the raw retrieved id list truncated to five entries, not the subset of
// ids that resolved against the case base.
type Prediction struct {
	QueryID           string
	PredictedSolution string
	SupportingCaseIDs []string
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) ([]float64, error)
}

// VectorStore indexes case vectors and supports similarity search.
type VectorStore interface {
	Init(dimension int) error
	Upsert(caseIDs []string, vectors [][]float64) error
	Search(vector []float64, topK int) ([]RankedCase, error)
	Clear() error
}
