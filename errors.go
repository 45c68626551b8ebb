package medflow

import "errors"

// Collaborator wiring errors. Nodes fail fast when a required service is
// missing from the context; these are programming errors, not runtime
// degradations.
var (
	// ErrNoLLMClient indicates no completion client is in the context.
	ErrNoLLMClient = errors.New("llm client not found in context")

	// ErrNoRetriever indicates no document retriever is in the context.
	ErrNoRetriever = errors.New("retriever not found in context")

	// ErrEmptyQuery indicates a workflow was started with an empty query.
	ErrEmptyQuery = errors.New("query must not be empty")
)
