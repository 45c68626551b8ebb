package graph

import (
	"context"
	"errors"
	"fmt"
)

// END is the reserved name for the terminal pseudo-node. Routing to END
// finishes the execution.
const END = "__end__"

// DefaultStepLimit bounds the number of node executions in a single run.
// It exists to turn a misbehaving router (one that produces a cycle) into
// an error instead of an infinite loop.
const DefaultStepLimit = 100

// Graph construction and execution errors.
var (
	// ErrNoEntry indicates no entry node was set before Compile.
	ErrNoEntry = errors.New("graph: no entry node set")

	// ErrUnknownNode indicates an edge, branch, or router referenced a
	// node that was never added.
	ErrUnknownNode = errors.New("graph: unknown node")

	// ErrDuplicateNode indicates AddNode was called twice with one name.
	ErrDuplicateNode = errors.New("graph: duplicate node")

	// ErrConflictingEdge indicates a node has both an unconditional edge
	// and a branch, or two unconditional edges.
	ErrConflictingEdge = errors.New("graph: conflicting outgoing edge")

	// ErrDanglingNode indicates a node has no outgoing edge or branch.
	ErrDanglingNode = errors.New("graph: node has no outgoing edge")

	// ErrStepLimit indicates the execution exceeded the step limit,
	// which almost always means a router introduced a cycle.
	ErrStepLimit = errors.New("graph: step limit exceeded")
)

// NodeFunc is a function that processes state and returns updated state.
// Nodes receive the state by value and must return the (possibly
// modified) state; the engine never aliases state between steps.
type NodeFunc[S any] func(ctx context.Context, state S) (S, error)

// RouterFunc picks the next node name from the current state. It must be
// total: every state value must map to a node name or END.
type RouterFunc[S any] func(state S) string

// Graph is a mutable workflow graph builder. The zero value is not
// usable; create one with New. Builder methods return the receiver so
// calls can be chained. Construction errors are deferred to Compile.
type Graph[S any] struct {
	nodes    map[string]NodeFunc[S]
	edges    map[string]string
	branches map[string]RouterFunc[S]
	entry    string
	limit    int
	errs     []error
}

// New creates an empty graph builder.
func New[S any]() *Graph[S] {
	return &Graph[S]{
		nodes:    make(map[string]NodeFunc[S]),
		edges:    make(map[string]string),
		branches: make(map[string]RouterFunc[S]),
		limit:    DefaultStepLimit,
	}
}

// AddNode registers a named node function.
func (g *Graph[S]) AddNode(name string, fn NodeFunc[S]) *Graph[S] {
	if name == END {
		g.errs = append(g.errs, fmt.Errorf("%w: %q is reserved", ErrDuplicateNode, END))
		return g
	}
	if _, ok := g.nodes[name]; ok {
		g.errs = append(g.errs, fmt.Errorf("%w: %q", ErrDuplicateNode, name))
		return g
	}
	if fn == nil {
		g.errs = append(g.errs, fmt.Errorf("graph: nil node func for %q", name))
		return g
	}
	g.nodes[name] = fn
	return g
}

// AddEdge adds an unconditional edge from one node to another (or END).
func (g *Graph[S]) AddEdge(from, to string) *Graph[S] {
	if _, dup := g.edges[from]; dup {
		g.errs = append(g.errs, fmt.Errorf("%w: %q already has an edge", ErrConflictingEdge, from))
		return g
	}
	if _, dup := g.branches[from]; dup {
		g.errs = append(g.errs, fmt.Errorf("%w: %q already has a branch", ErrConflictingEdge, from))
		return g
	}
	g.edges[from] = to
	return g
}

// AddBranch adds a conditional edge: after from completes, router picks
// the next node from the resulting state. The router's possible targets
// are checked at execution time against the declared node set.
func (g *Graph[S]) AddBranch(from string, router RouterFunc[S]) *Graph[S] {
	if _, dup := g.edges[from]; dup {
		g.errs = append(g.errs, fmt.Errorf("%w: %q already has an edge", ErrConflictingEdge, from))
		return g
	}
	if _, dup := g.branches[from]; dup {
		g.errs = append(g.errs, fmt.Errorf("%w: %q already has a branch", ErrConflictingEdge, from))
		return g
	}
	if router == nil {
		g.errs = append(g.errs, fmt.Errorf("graph: nil router for %q", from))
		return g
	}
	g.branches[from] = router
	return g
}

// SetEntry declares the node execution starts from.
func (g *Graph[S]) SetEntry(name string) *Graph[S] {
	g.entry = name
	return g
}

// SetStepLimit overrides DefaultStepLimit. Values <= 0 restore the default.
func (g *Graph[S]) SetStepLimit(n int) *Graph[S] {
	if n <= 0 {
		n = DefaultStepLimit
	}
	g.limit = n
	return g
}

// Compile validates the graph and returns an immutable executable form.
//
// Validation requires: an entry node that exists, every edge source and
// target declared (END is always a valid target), and every node having
// exactly one outgoing edge or branch. Router targets cannot be validated
// statically; an unknown router result fails the execution instead.
func (g *Graph[S]) Compile() (*Compiled[S], error) {
	if len(g.errs) > 0 {
		return nil, errors.Join(g.errs...)
	}
	if g.entry == "" {
		return nil, ErrNoEntry
	}
	if _, ok := g.nodes[g.entry]; !ok {
		return nil, fmt.Errorf("%w: entry %q", ErrUnknownNode, g.entry)
	}
	for from, to := range g.edges {
		if _, ok := g.nodes[from]; !ok {
			return nil, fmt.Errorf("%w: edge source %q", ErrUnknownNode, from)
		}
		if to != END {
			if _, ok := g.nodes[to]; !ok {
				return nil, fmt.Errorf("%w: edge target %q", ErrUnknownNode, to)
			}
		}
	}
	for from := range g.branches {
		if _, ok := g.nodes[from]; !ok {
			return nil, fmt.Errorf("%w: branch source %q", ErrUnknownNode, from)
		}
	}
	for name := range g.nodes {
		_, hasEdge := g.edges[name]
		_, hasBranch := g.branches[name]
		if !hasEdge && !hasBranch {
			return nil, fmt.Errorf("%w: %q", ErrDanglingNode, name)
		}
	}

	c := &Compiled[S]{
		nodes:    make(map[string]NodeFunc[S], len(g.nodes)),
		edges:    make(map[string]string, len(g.edges)),
		branches: make(map[string]RouterFunc[S], len(g.branches)),
		entry:    g.entry,
		limit:    g.limit,
	}
	for k, v := range g.nodes {
		c.nodes[k] = v
	}
	for k, v := range g.edges {
		c.edges[k] = v
	}
	for k, v := range g.branches {
		c.branches[k] = v
	}
	return c, nil
}

// Compiled is a validated, executable graph. It holds no mutable state;
// concurrent executions are independent.
type Compiled[S any] struct {
	nodes    map[string]NodeFunc[S]
	edges    map[string]string
	branches map[string]RouterFunc[S]
	entry    string
	limit    int
}

// Step is one element of a streamed execution: the node that just
// completed and the state snapshot it produced. If Err is non-nil the
// execution aborted at Node and no further steps follow.
type Step[S any] struct {
	Node  string
	State S
	Err   error
}

// Run executes the graph to completion and returns the final state.
func (c *Compiled[S]) Run(ctx context.Context, initial S) (S, error) {
	state := initial
	var runErr error
	c.execute(ctx, initial, func(step Step[S]) bool {
		state = step.State
		runErr = step.Err
		return true
	})
	return state, runErr
}

// Stream executes the graph in a separate goroutine, sending one Step per
// node entered, in execution order. The channel is unbuffered so the
// producer advances in lockstep with the consumer, and is closed when the
// graph reaches END or fails. Each call starts a fresh execution.
//
// If ctx is cancelled the execution stops between nodes and the channel
// closes after a final Step carrying ctx.Err().
func (c *Compiled[S]) Stream(ctx context.Context, initial S) <-chan Step[S] {
	ch := make(chan Step[S])
	go func() {
		defer close(ch)
		c.execute(ctx, initial, func(step Step[S]) bool {
			select {
			case ch <- step:
				return true
			case <-ctx.Done():
				return false
			}
		})
	}()
	return ch
}

// execute runs the node loop, invoking yield after every node. A false
// return from yield stops the execution.
func (c *Compiled[S]) execute(ctx context.Context, state S, yield func(Step[S]) bool) {
	current := c.entry
	for steps := 0; ; steps++ {
		if steps >= c.limit {
			yield(Step[S]{Node: current, State: state, Err: fmt.Errorf("%w (%d)", ErrStepLimit, c.limit)})
			return
		}
		if err := ctx.Err(); err != nil {
			yield(Step[S]{Node: current, State: state, Err: err})
			return
		}

		next, err := c.nodes[current](ctx, state)
		if err != nil {
			yield(Step[S]{Node: current, State: state, Err: fmt.Errorf("node %s: %w", current, err)})
			return
		}
		state = next

		if !yield(Step[S]{Node: current, State: state}) {
			return
		}

		target, err := c.next(current, state)
		if err != nil {
			yield(Step[S]{Node: current, State: state, Err: err})
			return
		}
		if target == END {
			return
		}
		current = target
	}
}

// next resolves the outgoing edge of a completed node.
func (c *Compiled[S]) next(current string, state S) (string, error) {
	if router, ok := c.branches[current]; ok {
		target := router(state)
		if target == END {
			return END, nil
		}
		if _, ok := c.nodes[target]; !ok {
			return "", fmt.Errorf("%w: router at %q returned %q", ErrUnknownNode, current, target)
		}
		return target, nil
	}
	return c.edges[current], nil
}
