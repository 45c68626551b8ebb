package medflow

import (
	"github.com/randalmurphal/medflow/graph"
	"github.com/randalmurphal/medflow/trials"
)

// =============================================================================
// Wire Events
// =============================================================================

// WorkflowEvent is the wire-level progress event emitted once per
// completed node. Fields beyond Node appear only when the node declares
// them as outputs; counts use pointers so a legitimate zero still
// serializes. Events are constructed, transmitted, and discarded, never
// stored.
type WorkflowEvent struct {
	Node        string          `json:"node"`
	Domain      string          `json:"domain,omitempty"`
	DocsCount   *int            `json:"docs_count,omitempty"`
	RefineCount *int            `json:"refine_count,omitempty"`
	Summary     string          `json:"summary,omitempty"`
	Explanation string          `json:"explanation,omitempty"`
	TrialsCount *int            `json:"trials_count,omitempty"`
	Trials      []trials.Record `json:"trials,omitempty"`
}

// eventField identifies one declarable output of a node.
type eventField int

const (
	fieldDomain eventField = iota
	fieldDocsCount
	fieldRefineCount
	fieldSummary
	fieldExplanation
	fieldTrials
)

// nodeOutputs is the declared-outputs schema: the only state fields each
// node may expose on the wire. Keeping this explicit prevents
// internal-only state from leaking into events.
var nodeOutputs = map[string][]eventField{
	NodeClassify:       {fieldDomain},
	NodeOffDomain:      {fieldExplanation},
	NodeRetrieveRefine: {fieldDocsCount, fieldRefineCount, fieldSummary, fieldExplanation},
	NodeNoAnswer:       {fieldExplanation},
	NodeFetchTrials:    {fieldTrials},
	NodeSummarize:      {fieldSummary},
	NodeExplain:        {fieldExplanation},
}

// EventForStep converts one streamed graph step into its wire event.
// String outputs are included only when non-empty (the retrieve_refine
// node, for example, sets summary/explanation only on its fallback path);
// count outputs are always included for their node so an empty result is
// still visible.
func EventForStep(step graph.Step[AgentState]) WorkflowEvent {
	event := WorkflowEvent{Node: step.Node}
	state := step.State

	for _, field := range nodeOutputs[step.Node] {
		switch field {
		case fieldDomain:
			event.Domain = string(state.Domain)
		case fieldDocsCount:
			n := len(state.Docs)
			event.DocsCount = &n
		case fieldRefineCount:
			n := state.RefineCount
			event.RefineCount = &n
		case fieldSummary:
			event.Summary = state.Summary
		case fieldExplanation:
			event.Explanation = state.Explanation
		case fieldTrials:
			n := len(state.Trials)
			event.TrialsCount = &n
			event.Trials = state.Trials
		}
	}

	return event
}
