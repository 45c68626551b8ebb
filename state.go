package medflow

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/randalmurphal/medflow/trials"
)

// =============================================================================
// Domain
// =============================================================================

// Domain is the classification label for an incoming query.
type Domain string

// Domain values. DomainUnset means classification has not run yet.
const (
	DomainUnset   Domain = ""
	DomainMedical Domain = "medical"
	DomainOther   Domain = "other"
)

// =============================================================================
// Document
// =============================================================================

// Document is one retrieved PubMed abstract. Documents are created by the
// retriever, owned by the AgentState of a single request, and never
// persisted.
type Document struct {
	PMID    string `json:"pmid,omitempty"`
	Content string `json:"content"`

	// Ranking metadata.
	IsClinicalTrial bool    `json:"is_clinical_trial"`
	Year            int     `json:"year"`
	Score           float64 `json:"score"`
}

// =============================================================================
// AgentState
// =============================================================================

// AgentState is the state value threaded through the workflow graph. It
// is passed by value: every node receives its own copy and returns the
// updated one, so steps never alias each other's state.
type AgentState struct {
	// Identification
	RunID string `json:"run_id"`

	// Query is the current retrieval query. The refinement loop may
	// overwrite it; it is never empty when retrieval runs.
	Query string `json:"query"`

	// Domain is set exactly once, by the classify node, before branching.
	Domain Domain `json:"domain,omitempty"`

	// Docs holds retrieved documents, ranked descending by the
	// (is_clinical_trial, year, score) heuristic.
	Docs []Document `json:"docs,omitempty"`

	// Trials holds clinical-trial records; empty (never absent) when the
	// lookup fails.
	Trials []trials.Record `json:"trials,omitempty"`

	// Summary is present only after the summarize node or the no-answer
	// fallback.
	Summary string `json:"summary,omitempty"`

	// Explanation is always present at a terminal state.
	Explanation string `json:"explanation,omitempty"`

	// RefineCount counts query refinements; bounded by NodeConfig.MaxRefines.
	RefineCount int `json:"refine_count,omitempty"`
}

// NewAgentState creates the state for one incoming query.
func NewAgentState(query string) AgentState {
	return AgentState{
		RunID: generateRunID(),
		Query: query,
	}
}

// HasDocs reports whether retrieval produced any documents.
func (s AgentState) HasDocs() bool {
	return len(s.Docs) > 0
}

// Summary strings used by terminal and fallback paths. The exact wording
// is part of the user-facing contract.
const (
	// MsgOffDomain explains the off-domain short circuit.
	MsgOffDomain = "The question is outside the medical domain (off-domain). " +
		"This assistant only answers medical and biomedical queries."

	// MsgNoAnswer explains the exhausted-retrieval short circuit.
	MsgNoAnswer = "The question is outside the medical domain. No answer can be provided."

	// MsgNoDocsSummary is the fallback summary after refinement exhaustion.
	MsgNoDocsSummary = "No relevant documents found after query refinement."

	// MsgNoDocsExplanation is the fallback explanation after refinement exhaustion.
	MsgNoDocsExplanation = "Unable to provide an answer based on the current knowledge."

	// MsgNoAbstracts is the summary when summarize runs with no documents.
	MsgNoAbstracts = "No relevant PubMed abstracts found."

	// Disclaimer is always appended to the final explanation.
	Disclaimer = "Disclaimer: This summary is for informational purposes only " +
		"and not a substitute for medical advice."
)

// generateRunID creates a unique run ID.
func generateRunID() string {
	timestamp := time.Now().Format("2006-01-02")
	suffix := gonanoid.MustGenerate("0123456789abcdefghijklmnopqrstuvwxyz", 8)
	return fmt.Sprintf("%s-%s", timestamp, suffix)
}
