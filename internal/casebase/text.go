package casebase

import (
	"strings"

	"precedent/internal/domain"
)

// Field values that carry no retrieval signal.
var placeholders = map[string]struct{}{
	"===":       {},
	"---":       {},
	"...":       {},
	"N/A":       {},
	"null":      {},
	"undefined": {},
}

const (
	maxPasalChars         = 200
	maxStatusHukumanChars = 300
)

type fieldValue struct {
	name  string
	value string
}

// RetrievalText assembles the document used to rank a case against queries.
// Field groups are tried in priority order, the facts summary first; the
// first group yielding any usable text wins. Returns "" when no field is
// usable.
func RetrievalText(c domain.Case) string {
	combinations := [][]fieldValue{
		{{"ringkasan_fakta", c.RingkasanFakta}},
		{{"jenis_perkara", c.JenisPerkara}, {"pasal", c.Pasal}, {"status_hukuman", c.StatusHukuman}},
		{{"jenis_perkara", c.JenisPerkara}, {"pasal", c.Pasal}},
		{{"no_perkara", c.NoPerkara}, {"jenis_perkara", c.JenisPerkara}, {"tanggal", c.Tanggal}},
	}
	for _, fields := range combinations {
		var parts []string
		for _, f := range fields {
			v := strings.TrimSpace(f.value)
			if !usable(v) {
				continue
			}
			switch f.name {
			case "pasal":
				v = truncate(v, maxPasalChars)
			case "status_hukuman":
				v = truncate(v, maxStatusHukumanChars)
			}
			parts = append(parts, v)
		}
		if len(parts) > 0 {
			return strings.Join(parts, ". ")
		}
	}
	return ""
}

// usable rejects placeholders, values shorter than 10 characters, and runs
// of a single repeated character.
func usable(v string) bool {
	if v == "" {
		return false
	}
	if _, ok := placeholders[v]; ok {
		return false
	}
	runes := []rune(v)
	if len(runes) < 10 {
		return false
	}
	distinct := make(map[rune]struct{}, len(runes))
	for _, r := range runes {
		distinct[r] = struct{}{}
	}
	return len(distinct) > 1
}

func truncate(v string, limit int) string {
	runes := []rune(v)
	if len(runes) <= limit {
		return v
	}
	return string(runes[:limit]) + "..."
}
