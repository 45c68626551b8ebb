// Package graph provides a small directed-graph workflow engine.
//
// A graph is built from named nodes (state-transforming functions),
// unconditional edges, and branches (named router functions that pick the
// next node from the current state). Compile validates the topology and
// returns an immutable Compiled graph that can be executed any number of
// times, each execution with its own state value.
//
// Core types:
//   - NodeFunc[S]: func(ctx, state) (state, error) node signature
//   - RouterFunc[S]: picks the next node name from state
//   - Graph[S]: mutable builder
//   - Compiled[S]: validated, executable graph
//   - Step[S]: one element of a streamed execution
//
// Example usage:
//
//	g := graph.New[MyState]().
//	    AddNode("first", firstNode).
//	    AddNode("second", secondNode).
//	    AddEdge("first", "second").
//	    AddEdge("second", graph.END).
//	    SetEntry("first")
//
//	compiled, err := g.Compile()
//	final, err := compiled.Run(ctx, MyState{})
//
// Streaming execution yields one Step per node entered, in execution
// order, and closes the channel when the graph reaches END or fails:
//
//	for step := range compiled.Stream(ctx, MyState{}) {
//	    if step.Err != nil {
//	        // execution aborted; no further steps follow
//	    }
//	}
package graph
