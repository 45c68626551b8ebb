// Package server exposes the query pipeline over HTTP: a Server-Sent
// Events endpoint streaming one event per completed node, a liveness
// probe, and Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/randalmurphal/medflow"
	"github.com/randalmurphal/medflow/config"
	"github.com/randalmurphal/medflow/graph"
	"github.com/randalmurphal/medflow/llm"
	"github.com/randalmurphal/medflow/notify"
	"github.com/randalmurphal/medflow/pubmed"
	"github.com/randalmurphal/medflow/trials"
)

// Deps are the pipeline collaborators the server injects per request.
// Tests supply fakes; production wiring comes from BuildDeps.
type Deps struct {
	LLM       llm.Client
	Retriever medflow.Retriever
	Trials    medflow.TrialsSearcher
	Prompts   *medflow.PromptLoader
	Logger    *slog.Logger
}

// BuildDeps constructs production collaborators from configuration.
func BuildDeps(cfg config.Config, logger *slog.Logger) (Deps, error) {
	gemini, err := llm.NewGemini(llm.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
	})
	if err != nil {
		return Deps{}, fmt.Errorf("gemini client: %w", err)
	}

	return Deps{
		LLM: gemini,
		Retriever: pubmed.NewClient(pubmed.Config{
			BaseURL:    cfg.PubMedBaseURL,
			APIKey:     cfg.PubMedAPIKey,
			MaxResults: cfg.PubMedMaxResults,
		}),
		Trials: trials.NewClient(trials.Config{
			BaseURL:  cfg.TrialsBaseURL,
			Timeout:  cfg.TrialsTimeout.Std(),
			CacheTTL: cfg.TrialsCacheTTL.Std(),
		}),
		Logger: logger,
	}, nil
}

// Server is the medflow HTTP API.
type Server struct {
	cfg      config.Config
	deps     Deps
	workflow *graph.Compiled[medflow.AgentState]
	logger   *slog.Logger
}

// New creates a Server with the given configuration and collaborators.
func New(cfg config.Config, deps Deps) (*Server, error) {
	workflow, err := medflow.BuildWorkflow()
	if err != nil {
		return nil, fmt.Errorf("build workflow: %w", err)
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		cfg:      cfg,
		deps:     deps,
		workflow: workflow,
		logger:   logger,
	}, nil
}

// Router returns the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/ask", s.handleAsk).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

// handleRoot is the liveness probe.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "medflow API running"})
}

// handleAsk runs the pipeline for ?query= and streams one SSE frame per
// completed node, then an `event: done` terminator. A node failure ends
// the stream without the terminator.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx := s.requestContext(r)
	state := medflow.NewAgentState(query)

	logger := s.logger.With("runId", state.RunID)
	logger.Info("query received", "query", query)

	var (
		lastNode  string
		failed    bool
		nodeStart = time.Now()
	)
	for step := range s.workflow.Stream(ctx, state) {
		nodeDuration.WithLabelValues(step.Node).Observe(time.Since(nodeStart).Seconds())
		nodeStart = time.Now()

		if step.Err != nil {
			logger.Error("pipeline failed", "node", step.Node, "error", step.Err)
			requestsTotal.WithLabelValues(outcomeError).Inc()
			failed = true
			break
		}

		lastNode = step.Node
		state = step.State

		if err := writeSSE(w, flusher, medflow.EventForStep(step)); err != nil {
			logger.Warn("client disconnected", "node", step.Node, "error", err)
			return
		}
	}

	if failed {
		return
	}

	refinementsTotal.Add(float64(state.RefineCount))
	requestsTotal.WithLabelValues(outcomeForNode(lastNode)).Inc()
	logger.Info("query answered", "outcome", outcomeForNode(lastNode),
		"docs", len(state.Docs), "refinements", state.RefineCount)

	fmt.Fprint(w, "event: done\ndata: {}\n\n")
	flusher.Flush()
}

// requestContext injects collaborators and per-run configuration.
func (s *Server) requestContext(r *http.Request) (ctx context.Context) {
	ctx = r.Context()
	if s.deps.LLM != nil {
		ctx = medflow.WithLLMClient(ctx, s.deps.LLM)
	}
	if s.deps.Retriever != nil {
		ctx = medflow.WithRetriever(ctx, s.deps.Retriever)
	}
	if s.deps.Trials != nil {
		ctx = medflow.WithTrialsSearcher(ctx, s.deps.Trials)
	}
	if s.deps.Prompts != nil {
		ctx = medflow.WithPromptLoader(ctx, s.deps.Prompts)
	}
	ctx = medflow.WithNodeConfig(ctx, medflow.NodeConfig{
		MaxRefines:  s.cfg.MaxRefines,
		TrialsLimit: s.cfg.TrialsLimit,
	})
	ctx = notify.WithNotifier(ctx, s.progressNotifier())
	return ctx
}

// progressNotifier logs node progress and counts degraded trials lookups.
func (s *Server) progressNotifier() notify.Notifier {
	return notify.NewMultiNotifier(
		notify.NewLogNotifier(s.logger),
		notify.FuncNotifier(func(ctx context.Context, event notify.Event) error {
			if event.Node == medflow.NodeFetchTrials && event.Severity == notify.SeverityWarning {
				trialsLookupFailures.Inc()
			}
			return nil
		}),
	)
}

// outcomeForNode maps the terminal node to a metrics label.
func outcomeForNode(node string) string {
	switch node {
	case medflow.NodeExplain:
		return outcomeAnswered
	case medflow.NodeOffDomain:
		return outcomeOffDomain
	case medflow.NodeNoAnswer:
		return outcomeNoAnswer
	default:
		return outcomeError
	}
}

// writeSSE writes one `data:` frame and flushes it immediately so
// clients see node progress in real time.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, event medflow.WorkflowEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
