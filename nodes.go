package medflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// =============================================================================
// Node Types
// =============================================================================

// NodeFunc is a function that processes state and returns updated state.
// This signature is compatible with graph.NodeFunc[AgentState].
type NodeFunc func(ctx context.Context, state AgentState) (AgentState, error)

// NodeConfig configures node behavior
type NodeConfig struct {
	MaxRefines  int // Max query refinements on empty retrieval (default: 2)
	TrialsLimit int // Max trial records surfaced (default: 5)
}

// DefaultNodeConfig returns sensible defaults
func DefaultNodeConfig() NodeConfig {
	return NodeConfig{
		MaxRefines:  2,
		TrialsLimit: 5,
	}
}

// =============================================================================
// Node Wrappers
// =============================================================================

// WithRetry wraps a node with retry logic
func WithRetry(node NodeFunc, maxRetries int) NodeFunc {
	return func(ctx context.Context, state AgentState) (AgentState, error) {
		var lastErr error
		for i := 0; i < maxRetries; i++ {
			result, err := node(ctx, state)
			if err == nil {
				return result, nil
			}
			lastErr = err
		}
		return state, fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
	}
}

// WithTiming wraps a node with timing metrics
func WithTiming(node NodeFunc) NodeFunc {
	return func(ctx context.Context, state AgentState) (AgentState, error) {
		start := time.Now()
		result, err := node(ctx, state)
		duration := time.Since(start)
		slog.Debug("node execution completed", "runId", state.RunID, "duration", duration)
		return result, err
	}
}
