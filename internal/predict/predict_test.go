package predict

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"precedent/internal/casebase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func storeFrom(t *testing.T, casesJSON string) *casebase.Store {
	t.Helper()
	path := writeFile(t, t.TempDir(), "cases.json", casesJSON)
	s, err := casebase.Load(path, discardLogger())
	if err != nil {
		t.Fatalf("load case base: %v", err)
	}
	return s
}

func TestPredictMajorityVote(t *testing.T) {
	store := storeFrom(t, `[
		{"case_id": "c1", "pasal": "Pasal 2 Ayat (1)"},
		{"case_id": "c2", "pasal": "pasal 2 ayat (1); Pasal 5"}
	]`)
	p := New(store, discardLogger())
	got := p.Predict("q1", []string{"c1", "c2", "c3"})

	if got.QueryID != "q1" {
		t.Errorf("QueryID = %q, want q1", got.QueryID)
	}
	if got.PredictedSolution != "Pasal 2 Ayat (1); Pasal 5" {
		t.Errorf("PredictedSolution = %q, want %q", got.PredictedSolution, "Pasal 2 Ayat (1); Pasal 5")
	}
	// The unresolved c3 still appears in the supporting list.
	if diff := cmp.Diff([]string{"c1", "c2", "c3"}, got.SupportingCaseIDs); diff != "" {
		t.Errorf("SupportingCaseIDs mismatch (-want +got):\n%s", diff)
	}
}

func TestPredictTieBreaksByFirstSeen(t *testing.T) {
	store := storeFrom(t, `[
		{"case_id": "c1", "pasal": "Pasal 1 dan Pasal 2"},
		{"case_id": "c2", "pasal": "Pasal 2 jo Pasal 3"},
		{"case_id": "c3", "pasal": "Pasal 3"}
	]`)
	p := New(store, discardLogger())
	got := p.Predict("q1", []string{"c1", "c2", "c3"})

	// Pasal 2 and Pasal 3 both have two votes; Pasal 2 was seen first.
	want := "Pasal 2; Pasal 3; Pasal 1"
	if got.PredictedSolution != want {
		t.Errorf("PredictedSolution = %q, want %q", got.PredictedSolution, want)
	}
}

func TestPredictDuplicateMentionsCountOncePerCase(t *testing.T) {
	store := storeFrom(t, `[
		{"case_id": "c1", "pasal": "Pasal 9, Pasal 9, pasal 9"},
		{"case_id": "c2", "pasal": "Pasal 8"},
		{"case_id": "c3", "pasal": "Pasal 8"}
	]`)
	p := New(store, discardLogger())
	got := p.Predict("q1", []string{"c1", "c2", "c3"})

	// Pasal 8 appears in two cases, Pasal 9 only in one however often
	// it is mentioned there.
	want := "Pasal 8; Pasal 9"
	if got.PredictedSolution != want {
		t.Errorf("PredictedSolution = %q, want %q", got.PredictedSolution, want)
	}
}

func TestPredictTopFiveLimit(t *testing.T) {
	store := storeFrom(t, `[
		{"case_id": "c1", "pasal": "Pasal 1; Pasal 2; Pasal 3; Pasal 4; Pasal 5; Pasal 6"},
		{"case_id": "c2", "pasal": "Pasal 6"}
	]`)
	p := New(store, discardLogger())
	got := p.Predict("q1", []string{"c1", "c2"})

	want := "Pasal 6; Pasal 1; Pasal 2; Pasal 3; Pasal 4"
	if got.PredictedSolution != want {
		t.Errorf("PredictedSolution = %q, want %q", got.PredictedSolution, want)
	}
}

func TestPredictDegradedOutcomes(t *testing.T) {
	store := storeFrom(t, `[
		{"case_id": "c1", "pasal": ""},
		{"case_id": "c2"}
	]`)
	p := New(store, discardLogger())

	cases := []struct {
		name           string
		retrieved      []string
		wantSupporting []string
	}{
		{"no retrieved ids", nil, []string{}},
		{"no id resolves", []string{"x", "y"}, []string{"x", "y"}},
		{"resolved but no citations", []string{"c1", "c2"}, []string{"c1", "c2"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := p.Predict("q1", c.retrieved)
			if got.PredictedSolution != NoData {
				t.Errorf("PredictedSolution = %q, want %q", got.PredictedSolution, NoData)
			}
			if diff := cmp.Diff(c.wantSupporting, got.SupportingCaseIDs); diff != "" {
				t.Errorf("SupportingCaseIDs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPredictSupportingIDsTruncatedToFive(t *testing.T) {
	store := storeFrom(t, `[{"case_id": "c1", "pasal": "Pasal 1"}]`)
	p := New(store, discardLogger())
	got := p.Predict("q1", []string{"c1", "c2", "c3", "c4", "c5", "c6", "c7"})
	if diff := cmp.Diff([]string{"c1", "c2", "c3", "c4", "c5"}, got.SupportingCaseIDs); diff != "" {
		t.Errorf("SupportingCaseIDs mismatch (-want +got):\n%s", diff)
	}
}

func TestPredictDeterministic(t *testing.T) {
	store := storeFrom(t, `[
		{"case_id": "c1", "pasal": "Pasal 1; Pasal 2"},
		{"case_id": "c2", "pasal": "Pasal 2; Pasal 1"}
	]`)
	p := New(store, discardLogger())
	first := p.Predict("q1", []string{"c1", "c2"})
	for i := 0; i < 10; i++ {
		again := p.Predict("q1", []string{"c1", "c2"})
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("prediction not deterministic (-first +again):\n%s", diff)
		}
	}
}
