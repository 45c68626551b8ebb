package medflow

import "github.com/randalmurphal/medflow/graph"

// Node names. These are the identifiers surfaced in streamed events.
const (
	NodeClassify       = "classify"
	NodeOffDomain      = "off_domain"
	NodeRetrieveRefine = "retrieve_refine"
	NodeFetchTrials    = "fetch_trials"
	NodeSummarize      = "summarize"
	NodeExplain        = "explain"
	NodeNoAnswer       = "no_answer"
)

// routeAfterClassify picks the branch taken once the query domain is
// known. Total over Domain: anything but an explicit "other" proceeds to
// retrieval.
func routeAfterClassify(state AgentState) string {
	if state.Domain == DomainOther {
		return NodeOffDomain
	}
	return NodeRetrieveRefine
}

// routeAfterRetrieve picks the branch taken once retrieval (including
// refinement) has finished.
func routeAfterRetrieve(state AgentState) string {
	if state.HasDocs() {
		return NodeFetchTrials
	}
	return NodeNoAnswer
}

// BuildWorkflow wires the pipeline nodes into the query-answering graph:
//
//	classify ─┬─> retrieve_refine ─┬─> fetch_trials -> summarize -> explain -> END
//	          │                    └─> no_answer -> END
//	          └─> off_domain -> END
//
// The retrieval/refinement loop is encapsulated inside the
// retrieve_refine node; the graph itself is acyclic and every node runs
// at most once per request.
func BuildWorkflow() (*graph.Compiled[AgentState], error) {
	return graph.New[AgentState]().
		AddNode(NodeClassify, Classify).
		AddNode(NodeOffDomain, OffDomain).
		AddNode(NodeRetrieveRefine, RetrieveWithRefine).
		AddNode(NodeFetchTrials, FetchTrials).
		AddNode(NodeSummarize, Summarize).
		AddNode(NodeExplain, Explain).
		AddNode(NodeNoAnswer, NoAnswer).
		SetEntry(NodeClassify).
		AddBranch(NodeClassify, routeAfterClassify).
		AddEdge(NodeOffDomain, graph.END).
		AddBranch(NodeRetrieveRefine, routeAfterRetrieve).
		AddEdge(NodeFetchTrials, NodeSummarize).
		AddEdge(NodeSummarize, NodeExplain).
		AddEdge(NodeExplain, graph.END).
		AddEdge(NodeNoAnswer, graph.END).
		Compile()
}
