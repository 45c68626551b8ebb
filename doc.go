// Package medflow provides the workflow primitives for an AI-powered
// medical query-answering pipeline.
//
// A query flows through a directed graph of node functions: domain
// classification, document retrieval with bounded query refinement,
// clinical-trial lookup, summarization, and a clinician-facing
// explanation. Each node is a pure transformation of an AgentState value
// plus calls to external collaborators injected through the context.
//
// The package is organized into subpackages by concern:
//
//   - graph: generic workflow graph engine (nodes, edges, branches, streaming)
//   - llm: completion-service boundary and the Gemini adapter
//   - pubmed: PubMed document retriever
//   - trials: ClinicalTrials.gov registry client
//   - httpx: shared HTTP client utilities
//   - notify: progress side-channel for pipeline steps
//   - config: configuration loading (defaults, YAML, env)
//   - server: HTTP surface (SSE streaming endpoint)
//   - testutil: fakes for tests
//
// # Quick Start
//
//	client, _ := llm.NewGemini(llm.GeminiConfig{APIKey: key})
//	ctx = medflow.WithLLMClient(ctx, client)
//	ctx = medflow.WithRetriever(ctx, pubmed.NewClient(pubmed.Config{}))
//	ctx = medflow.WithTrialsSearcher(ctx, trials.NewClient(trials.Config{}))
//
//	compiled, _ := medflow.BuildWorkflow()
//	final, err := compiled.Run(ctx, medflow.NewAgentState("latest glioblastoma treatments"))
//
// Streaming execution emits one event per node completed; see
// Compiled.Stream and EventForStep.
package medflow
