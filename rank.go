package medflow

import "sort"

// Rank orders documents by a composite relevance heuristic:
// clinical-trial papers first, then more recent publications, then higher
// retriever score. The sort is stable, so documents that tie on all three
// keys keep their retrieval order. Empty input yields empty output.
//
// Rank is idempotent: ranking an already-ranked list is a no-op.
func Rank(docs []Document) []Document {
	ranked := make([]Document, len(docs))
	copy(ranked, docs)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.IsClinicalTrial != b.IsClinicalTrial {
			return a.IsClinicalTrial
		}
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		return a.Score > b.Score
	})

	return ranked
}
