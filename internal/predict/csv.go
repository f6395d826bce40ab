package predict

import (
	"os"
	"strings"

	"precedent/internal/domain"
)

// WriteCSV writes the predictions table: one header row, then one row per
// query with columns query_id, predicted_solution, top_5_case_ids. Every
// field is quoted regardless of content, the convention the downstream
// evaluation tooling expects, which is why encoding/csv (quote-on-demand
// only) is not used here. The file is fully regenerated on each call.
func WriteCSV(path string, predictions []domain.Prediction) error {
	var b strings.Builder
	writeRow(&b, "query_id", "predicted_solution", "top_5_case_ids")
	for _, p := range predictions {
		writeRow(&b, p.QueryID, p.PredictedSolution, strings.Join(p.SupportingCaseIDs, ", "))
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func writeRow(b *strings.Builder, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
