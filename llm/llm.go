// Package llm defines the completion-service boundary used by pipeline
// steps, plus a Gemini REST adapter and a mock client for tests.
//
// The boundary is deliberately thin: Complete sends prompt messages and
// returns text. Calls are not retried and carry no explicit deadline of
// their own; a failing backend fails the request (callers that want a
// circuit breaker or backoff wrap the Client themselves).
package llm

import "context"

// Role identifies the author of a message.
type Role string

// Message roles.
const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one turn of a completion prompt.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest is a single completion call.
type CompletionRequest struct {
	// SystemPrompt is prepended as a system instruction, if the backend
	// supports one. Optional.
	SystemPrompt string

	// Messages is the prompt conversation, oldest first.
	Messages []Message
}

// Usage reports token consumption for one completion.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// CompletionResult is the outcome of a completion call.
type CompletionResult struct {
	Content string
	Usage   Usage
}

// Client is the completion service consumed by pipeline steps.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error)
}

// Prompt is a convenience for the common single-user-message case.
func Prompt(text string) CompletionRequest {
	return CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: text}},
	}
}
