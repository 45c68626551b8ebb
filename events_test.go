package medflow

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/randalmurphal/medflow/graph"
	"github.com/randalmurphal/medflow/trials"
)

func TestEventForStep(t *testing.T) {
	tests := []struct {
		name        string
		step        graph.Step[AgentState]
		wantKeys    []string // keys that must appear in the JSON
		missingKeys []string // keys that must not appear
	}{
		{
			name: "classify exposes only domain",
			step: graph.Step[AgentState]{
				Node:  NodeClassify,
				State: AgentState{Domain: DomainMedical, Query: "internal"},
			},
			wantKeys:    []string{"node", "domain"},
			missingKeys: []string{"query", "docs_count", "summary", "trials"},
		},
		{
			name: "retrieve exposes zero counts",
			step: graph.Step[AgentState]{
				Node:  NodeRetrieveRefine,
				State: AgentState{Summary: MsgNoDocsSummary, Explanation: MsgNoDocsExplanation},
			},
			wantKeys:    []string{"node", "docs_count", "refine_count", "summary", "explanation"},
			missingKeys: []string{"domain", "trials_count"},
		},
		{
			name: "retrieve success omits fallback strings",
			step: graph.Step[AgentState]{
				Node:  NodeRetrieveRefine,
				State: AgentState{Docs: someDocs(), RefineCount: 1},
			},
			wantKeys:    []string{"docs_count", "refine_count"},
			missingKeys: []string{"summary", "explanation"},
		},
		{
			name: "fetch trials exposes count even when empty",
			step: graph.Step[AgentState]{
				Node:  NodeFetchTrials,
				State: AgentState{Trials: []trials.Record{}},
			},
			wantKeys:    []string{"trials_count"},
			missingKeys: []string{"docs_count", "summary"},
		},
		{
			name: "summarize exposes only summary",
			step: graph.Step[AgentState]{
				Node:  NodeSummarize,
				State: AgentState{Summary: "- point", Docs: someDocs()},
			},
			wantKeys:    []string{"summary"},
			missingKeys: []string{"docs_count", "explanation"},
		},
		{
			name: "off domain exposes explanation",
			step: graph.Step[AgentState]{
				Node:  NodeOffDomain,
				State: AgentState{Domain: DomainOther, Explanation: MsgOffDomain},
			},
			wantKeys:    []string{"explanation"},
			missingKeys: []string{"domain", "summary"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(EventForStep(tt.step))
			if err != nil {
				t.Fatalf("marshal event: %v", err)
			}

			var decoded map[string]any
			if err := json.Unmarshal(raw, &decoded); err != nil {
				t.Fatalf("unmarshal event: %v", err)
			}

			for _, key := range tt.wantKeys {
				if _, ok := decoded[key]; !ok {
					t.Errorf("event missing key %q: %s", key, raw)
				}
			}
			for _, key := range tt.missingKeys {
				if _, ok := decoded[key]; ok {
					t.Errorf("event leaked key %q: %s", key, raw)
				}
			}
		})
	}
}

func TestEventZeroCountsSerialize(t *testing.T) {
	step := graph.Step[AgentState]{Node: NodeRetrieveRefine, State: AgentState{}}

	raw, err := json.Marshal(EventForStep(step))
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	if !strings.Contains(string(raw), `"docs_count":0`) {
		t.Errorf("zero docs_count dropped from wire event: %s", raw)
	}
	if !strings.Contains(string(raw), `"refine_count":0`) {
		t.Errorf("zero refine_count dropped from wire event: %s", raw)
	}
}

func TestEventTrialsPayload(t *testing.T) {
	step := graph.Step[AgentState]{
		Node: NodeFetchTrials,
		State: AgentState{Trials: []trials.Record{
			{Title: "Trial A", Status: "Recruiting"},
		}},
	}

	event := EventForStep(step)
	if event.TrialsCount == nil || *event.TrialsCount != 1 {
		t.Fatalf("TrialsCount = %v, want 1", event.TrialsCount)
	}
	if len(event.Trials) != 1 || event.Trials[0].Title != "Trial A" {
		t.Errorf("Trials = %v, want the record payload", event.Trials)
	}
}

func TestEventUnknownNode(t *testing.T) {
	step := graph.Step[AgentState]{
		Node:  "mystery",
		State: AgentState{Summary: "should not leak"},
	}

	event := EventForStep(step)
	if event.Node != "mystery" {
		t.Errorf("Node = %q, want mystery", event.Node)
	}
	if event.Summary != "" || event.Domain != "" || event.DocsCount != nil {
		t.Error("unknown node leaked state fields")
	}
}
