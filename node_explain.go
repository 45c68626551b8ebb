package medflow

import (
	"context"
	"strings"

	"github.com/randalmurphal/medflow/llm"
	"github.com/randalmurphal/medflow/notify"
)

// Explain expands the summary into a clinician-facing explanation and
// guarantees the medical disclaimer is present.
//
// Prerequisites: state.Summary must be set
// Updates: state.Explanation
func Explain(ctx context.Context, state AgentState) (AgentState, error) {
	client := LLMFromContext(ctx)
	if client == nil {
		return state, ErrNoLLMClient
	}

	notify.Info(ctx, notify.NotifierFromContext(ctx), NodeExplain,
		"generating detailed explanation...")

	prompt, err := loadPrompt(PromptLoaderFromContext(ctx), "explain",
		map[string]any{"Summary": state.Summary})
	if err != nil {
		return state, err
	}

	result, err := client.Complete(ctx, llm.Prompt(prompt))
	if err != nil {
		return state, err
	}

	explanation := result.Content
	if !strings.Contains(explanation, Disclaimer) {
		explanation = strings.TrimRight(explanation, "\n") + "\n\n" + Disclaimer
	}

	state.Explanation = explanation
	return state, nil
}
