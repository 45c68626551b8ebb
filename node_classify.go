package medflow

import (
	"context"
	"strings"

	"github.com/randalmurphal/medflow/llm"
	"github.com/randalmurphal/medflow/notify"
)

// Classify determines whether the query is a medical question.
//
// Prerequisites: state.Query must be set
// Updates: state.Domain (exactly once, before any branching)
func Classify(ctx context.Context, state AgentState) (AgentState, error) {
	if state.Query == "" {
		return state, ErrEmptyQuery
	}

	client := LLMFromContext(ctx)
	if client == nil {
		return state, ErrNoLLMClient
	}

	notify.Info(ctx, notify.NotifierFromContext(ctx), NodeClassify,
		"classifying query domain...")

	prompt, err := loadPrompt(PromptLoaderFromContext(ctx), "classify",
		map[string]any{"Query": state.Query})
	if err != nil {
		return state, err
	}

	result, err := client.Complete(ctx, llm.Prompt(prompt))
	if err != nil {
		return state, err
	}

	answer := strings.ToLower(strings.TrimSpace(result.Content))
	if strings.Contains(answer, "medical") {
		state.Domain = DomainMedical
	} else {
		state.Domain = DomainOther
	}

	return state, nil
}
