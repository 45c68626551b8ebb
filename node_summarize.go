package medflow

import (
	"context"
	"strings"

	"github.com/randalmurphal/medflow/llm"
	"github.com/randalmurphal/medflow/notify"
)

// Summarize condenses the retrieved abstracts into a bullet-point
// summary. With no documents it short-circuits to a fixed message without
// calling the completion service.
//
// Updates: state.Summary
func Summarize(ctx context.Context, state AgentState) (AgentState, error) {
	notifier := notify.NotifierFromContext(ctx)

	if !state.HasDocs() {
		notify.Warn(ctx, notifier, NodeSummarize, "no relevant PubMed abstracts found")
		state.Summary = MsgNoAbstracts
		return state, nil
	}

	client := LLMFromContext(ctx)
	if client == nil {
		return state, ErrNoLLMClient
	}

	notify.Info(ctx, notifier, NodeSummarize, "summarizing retrieved documents...")

	contents := make([]string, len(state.Docs))
	for i, doc := range state.Docs {
		contents[i] = doc.Content
	}

	prompt, err := loadPrompt(PromptLoaderFromContext(ctx), "summarize",
		map[string]any{"Docs": strings.Join(contents, "\n\n")})
	if err != nil {
		return state, err
	}

	result, err := client.Complete(ctx, llm.Prompt(prompt))
	if err != nil {
		return state, err
	}

	state.Summary = result.Content
	return state, nil
}
