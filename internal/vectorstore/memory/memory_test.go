package memory

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"precedent/internal/domain"
)

func newTestStore(t *testing.T, dim int, ids []string, vectors [][]float64) *Store {
	t.Helper()
	s := New()
	if err := s.Init(dim); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := s.Upsert(ids, vectors); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	return s
}

func ids(results []domain.RankedCase) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.CaseID
	}
	return out
}

func TestSearchRanksByDescendingScore(t *testing.T) {
	s := newTestStore(t, 2,
		[]string{"c1", "c2", "c3"},
		[][]float64{{0, 1}, {1, 0}, {0.7071, 0.7071}},
	)
	results, err := s.Search([]float64{1, 0}, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if diff := cmp.Diff([]string{"c2", "c3", "c1"}, ids(results)); diff != "" {
		t.Errorf("ranking mismatch (-want +got):\n%s", diff)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("scores not descending: %v", results)
		}
	}
}

func TestSearchTiesKeepInsertionOrder(t *testing.T) {
	same := []float64{0.6, 0.8}
	s := newTestStore(t, 2,
		[]string{"c1", "c2", "c3"},
		[][]float64{same, same, same},
	)
	results, err := s.Search([]float64{1, 0}, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if diff := cmp.Diff([]string{"c1", "c2", "c3"}, ids(results)); diff != "" {
		t.Errorf("tied scores must keep case-base order (-want +got):\n%s", diff)
	}
}

func TestSearchTopKLargerThanStore(t *testing.T) {
	s := newTestStore(t, 2,
		[]string{"c1", "c2"},
		[][]float64{{1, 0}, {0, 1}},
	)
	results, err := s.Search([]float64{1, 0}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("len = %d, want 2", len(results))
	}
}

func TestSearchEmptyStore(t *testing.T) {
	s := New()
	if err := s.Init(2); err != nil {
		t.Fatalf("Init: %v", err)
	}
	results, err := s.Search([]float64{1, 0}, 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("len = %d, want 0", len(results))
	}
}

func TestUpsertValidation(t *testing.T) {
	s := New()
	if err := s.Init(2); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := s.Upsert([]string{"c1"}, nil); err == nil {
		t.Error("length mismatch should fail")
	}
	if err := s.Upsert([]string{"c1"}, [][]float64{{1, 0, 0}}); err == nil {
		t.Error("dimension mismatch should fail")
	}
	if err := New().Init(0); err == nil {
		t.Error("Init(0) should fail")
	}
}
