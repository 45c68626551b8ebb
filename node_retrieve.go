package medflow

import (
	"context"
	"strings"

	"github.com/randalmurphal/medflow/llm"
	"github.com/randalmurphal/medflow/notify"
)

// Retrieve fetches documents for the current query and stores them
// ranked. Retriever failures propagate as hard errors; the refinement
// loop only handles the empty-result case, not service failure.
//
// Prerequisites: state.Query must be set
// Updates: state.Docs (ranked)
func Retrieve(ctx context.Context, state AgentState) (AgentState, error) {
	retriever := RetrieverFromContext(ctx)
	if retriever == nil {
		return state, ErrNoRetriever
	}

	notify.Info(ctx, notify.NotifierFromContext(ctx), NodeRetrieveRefine,
		"retrieving documents from PubMed...")

	docs, err := retriever.Search(ctx, state.Query)
	if err != nil {
		return state, err
	}

	state.Docs = Rank(docs)
	return state, nil
}

// RefineQuery asks the completion service for a better retrieval query
// and overwrites state.Query with the trimmed response. The new query is
// not validated against the old one.
//
// Updates: state.Query, state.RefineCount
func RefineQuery(ctx context.Context, state AgentState) (AgentState, error) {
	client := LLMFromContext(ctx)
	if client == nil {
		return state, ErrNoLLMClient
	}

	notify.Info(ctx, notify.NotifierFromContext(ctx), NodeRetrieveRefine,
		"refining query to find relevant documents...")

	prompt, err := loadPrompt(PromptLoaderFromContext(ctx), "refine",
		map[string]any{"Query": state.Query})
	if err != nil {
		return state, err
	}

	result, err := client.Complete(ctx, llm.Prompt(prompt))
	if err != nil {
		return state, err
	}

	state.Query = strings.TrimSpace(result.Content)
	state.RefineCount++
	return state, nil
}

// RetrieveWithRefine retrieves documents, refining the query up to
// NodeConfig.MaxRefines times when retrieval comes back empty, then falls
// back to fixed no-answer messages if still empty.
//
// The loop makes at most MaxRefines refinement calls and at most
// MaxRefines+1 retrieval calls per request. This is the only place that
// bounding logic lives.
func RetrieveWithRefine(ctx context.Context, state AgentState) (AgentState, error) {
	maxRefines := NodeConfigFromContext(ctx).MaxRefines

	for attempt := 0; attempt <= maxRefines; attempt++ {
		var err error
		state, err = Retrieve(ctx, state)
		if err != nil {
			return state, err
		}
		if state.HasDocs() {
			return state, nil
		}
		if attempt < maxRefines {
			state, err = RefineQuery(ctx, state)
			if err != nil {
				return state, err
			}
		}
	}

	// Fallback
	notify.Info(ctx, notify.NotifierFromContext(ctx), NodeRetrieveRefine,
		"no documents found after refinement")

	state.Summary = MsgNoDocsSummary
	state.Explanation = MsgNoDocsExplanation
	return state, nil
}
