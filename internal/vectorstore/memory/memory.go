// Package memory provides a brute-force in-memory similarity index over the
// case base.
package memory

import (
	"errors"
	"sort"
	"sync"

	"precedent/internal/domain"
)

// Store keeps case vectors in upsert order and ranks them by cosine
// similarity. The sort is stable, so tied scores keep case-base order.
type Store struct {
	mu        sync.RWMutex
	dimension int
	caseIDs   []string
	vectors   [][]float64
}

func New() *Store { return &Store{} }

func (s *Store) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.caseIDs = nil
	s.vectors = nil
	return nil
}

func (s *Store) Upsert(caseIDs []string, vectors [][]float64) error {
	if len(caseIDs) != len(vectors) {
		return errors.New("case ids and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.caseIDs = append(s.caseIDs, caseIDs...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

func (s *Store) Search(vector []float64, topK int) ([]domain.RankedCase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 5
	}
	// cosine similarity; vectors are assumed L2-normalized
	scores := make([]float64, len(s.vectors))
	for i := range s.vectors {
		scores[i] = dot(s.vectors[i], vector)
	}
	idxs := make([]int, len(scores))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(i, j int) bool { return scores[idxs[i]] > scores[idxs[j]] })
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]domain.RankedCase, 0, topK)
	for i := 0; i < topK; i++ {
		j := idxs[i]
		results = append(results, domain.RankedCase{CaseID: s.caseIDs[j], Score: scores[j]})
	}
	return results, nil
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caseIDs = nil
	s.vectors = nil
	return nil
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
