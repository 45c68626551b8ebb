package medflow

import (
	"context"

	"github.com/randalmurphal/medflow/llm"
	"github.com/randalmurphal/medflow/trials"
)

// =============================================================================
// Collaborator Interfaces
// =============================================================================

// Retriever searches for documents matching a query. Implementations may
// fail hard; the retrieve node does not catch their errors.
type Retriever interface {
	Search(ctx context.Context, query string) ([]Document, error)
}

// TrialsSearcher looks up clinical-trial records for a query. Failures
// are degraded by the fetch-trials node, never propagated.
type TrialsSearcher interface {
	Search(ctx context.Context, query string) ([]trials.Record, error)
}

// =============================================================================
// Context Injection Helpers
// =============================================================================
// Collaborators are injected into context.Context so node functions stay
// plain state transformations with a uniform signature.

// serviceContextKey is a private type for context keys to avoid collisions
type serviceContextKey string

// Context keys for pipeline services
const (
	llmServiceKey        serviceContextKey = "medflow.llm"
	retrieverServiceKey  serviceContextKey = "medflow.retriever"
	trialsServiceKey     serviceContextKey = "medflow.trials"
	promptServiceKey     serviceContextKey = "medflow.prompts"
	nodeConfigServiceKey serviceContextKey = "medflow.nodeconfig"
)

// WithLLMClient adds a completion client to the context.
func WithLLMClient(ctx context.Context, client llm.Client) context.Context {
	return context.WithValue(ctx, llmServiceKey, client)
}

// LLMFromContext extracts the completion client from context.
func LLMFromContext(ctx context.Context) llm.Client {
	if client, ok := ctx.Value(llmServiceKey).(llm.Client); ok {
		return client
	}
	return nil
}

// WithRetriever adds a document retriever to the context.
func WithRetriever(ctx context.Context, r Retriever) context.Context {
	return context.WithValue(ctx, retrieverServiceKey, r)
}

// RetrieverFromContext extracts the document retriever from context.
func RetrieverFromContext(ctx context.Context) Retriever {
	if r, ok := ctx.Value(retrieverServiceKey).(Retriever); ok {
		return r
	}
	return nil
}

// WithTrialsSearcher adds a clinical-trials searcher to the context.
func WithTrialsSearcher(ctx context.Context, t TrialsSearcher) context.Context {
	return context.WithValue(ctx, trialsServiceKey, t)
}

// TrialsSearcherFromContext extracts the trials searcher from context.
// Returns nil if none is configured; the fetch-trials node treats that as
// a degraded (empty) lookup.
func TrialsSearcherFromContext(ctx context.Context) TrialsSearcher {
	if t, ok := ctx.Value(trialsServiceKey).(TrialsSearcher); ok {
		return t
	}
	return nil
}

// WithPromptLoader adds a PromptLoader to the context.
func WithPromptLoader(ctx context.Context, loader *PromptLoader) context.Context {
	return context.WithValue(ctx, promptServiceKey, loader)
}

// PromptLoaderFromContext extracts the PromptLoader from context.
// Returns nil if none is configured; nodes fall back to embedded prompts.
func PromptLoaderFromContext(ctx context.Context) *PromptLoader {
	if loader, ok := ctx.Value(promptServiceKey).(*PromptLoader); ok {
		return loader
	}
	return nil
}

// WithNodeConfig adds a NodeConfig to the context.
func WithNodeConfig(ctx context.Context, cfg NodeConfig) context.Context {
	return context.WithValue(ctx, nodeConfigServiceKey, cfg)
}

// NodeConfigFromContext extracts the NodeConfig from context, or the
// defaults if none was set.
func NodeConfigFromContext(ctx context.Context) NodeConfig {
	if cfg, ok := ctx.Value(nodeConfigServiceKey).(NodeConfig); ok {
		return cfg
	}
	return DefaultNodeConfig()
}
