package citation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtract(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "simple article",
			text: "melanggar Pasal 2 Ayat (1)",
			want: []string{"Pasal 2 Ayat (1)"},
		},
		{
			name: "lowercase mention",
			text: "pasal 2 ayat (1)",
			want: []string{"Pasal 2 Ayat (1)"},
		},
		{
			name: "huruf sub-point",
			text: "Pasal 10 Ayat (1) huruf a",
			want: []string{"Pasal 10 Ayat (1) Huruf A"},
		},
		{
			name: "article without clause",
			text: "berdasarkan Pasal 55 KUHP",
			want: []string{"Pasal 55"},
		},
		{
			name: "multiple distinct",
			text: "Pasal 10, Pasal 10 Ayat (1) huruf a",
			want: []string{"Pasal 10", "Pasal 10 Ayat (1) Huruf A"},
		},
		{
			name: "duplicates keep first position",
			text: "Pasal 5 jo. pasal 2 dan PASAL 5",
			want: []string{"Pasal 5", "Pasal 2"},
		},
		{
			name: "whitespace runs collapse",
			text: "pasal   7  ayat  (2)",
			want: []string{"Pasal 7 Ayat (2)"},
		},
		{
			name: "no citations",
			text: "tidak ada rujukan undang-undang",
			want: nil,
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Extract(c.text)
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("Extract(%q) mismatch (-want +got):\n%s", c.text, diff)
			}
		})
	}
}

func TestExtractIdempotent(t *testing.T) {
	// Re-extracting from the joined canonical form must yield the same set.
	inputs := []string{
		"pasal 2 ayat (1); Pasal 5",
		"Pasal 10 Ayat (1) huruf a dan pasal 10",
		"melanggar   pasal   3   ayat   (2)   huruf   b",
	}
	for _, in := range inputs {
		first := Extract(in)
		second := Extract(Join(first))
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("Extract not idempotent for %q (-first +second):\n%s", in, diff)
		}
	}
}

func TestJoin(t *testing.T) {
	got := Join([]string{"Pasal 2 Ayat (1)", "Pasal 5"})
	want := "Pasal 2 Ayat (1); Pasal 5"
	if got != want {
		t.Errorf("Join = %q, want %q", got, want)
	}
	if Join(nil) != "" {
		t.Errorf("Join(nil) = %q, want empty", Join(nil))
	}
}
