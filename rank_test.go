package medflow

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRank(t *testing.T) {
	tests := []struct {
		name string
		docs []Document
		want []string // expected PMID order
	}{
		{
			name: "empty",
			docs: nil,
			want: []string{},
		},
		{
			name: "trials before non-trials",
			docs: []Document{
				{PMID: "a", Year: 2024, Score: 0.9},
				{PMID: "b", Year: 2010, Score: 0.1, IsClinicalTrial: true},
			},
			want: []string{"b", "a"},
		},
		{
			name: "recency within same class",
			docs: []Document{
				{PMID: "a", Year: 2015, Score: 0.9},
				{PMID: "b", Year: 2022, Score: 0.1},
			},
			want: []string{"b", "a"},
		},
		{
			name: "score breaks year ties",
			docs: []Document{
				{PMID: "a", Year: 2020, Score: 0.3},
				{PMID: "b", Year: 2020, Score: 0.8},
			},
			want: []string{"b", "a"},
		},
		{
			name: "full ties keep retrieval order",
			docs: []Document{
				{PMID: "a", Year: 2020, Score: 0.5},
				{PMID: "b", Year: 2020, Score: 0.5},
				{PMID: "c", Year: 2020, Score: 0.5},
			},
			want: []string{"a", "b", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pmids(Rank(tt.docs))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Rank() order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRankIdempotent(t *testing.T) {
	docs := []Document{
		{PMID: "a", Year: 2015, Score: 0.9},
		{PMID: "b", Year: 2022, Score: 0.1, IsClinicalTrial: true},
		{PMID: "c", Year: 2022, Score: 0.7},
	}

	once := Rank(docs)
	twice := Rank(once)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("Rank() not idempotent (-once +twice):\n%s", diff)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	docs := []Document{
		{PMID: "a", Year: 2015},
		{PMID: "b", Year: 2022},
	}

	Rank(docs)

	if docs[0].PMID != "a" || docs[1].PMID != "b" {
		t.Error("Rank() mutated its input slice")
	}
}

func pmids(docs []Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.PMID)
	}
	return out
}
