// Package testutil provides fakes and helpers for tests that exercise
// the full pipeline from outside the medflow package.
package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/randalmurphal/medflow"
	"github.com/randalmurphal/medflow/notify"
	"github.com/randalmurphal/medflow/trials"
)

// =============================================================================
// ScriptedRetriever
// =============================================================================

// ScriptedRetriever returns one canned result set per Search call, in
// order, repeating the last set once exhausted. The zero value always
// returns empty results.
type ScriptedRetriever struct {
	mu      sync.Mutex
	Results [][]medflow.Document
	Err     error
	queries []string
}

// Search implements medflow.Retriever.
func (r *ScriptedRetriever) Search(ctx context.Context, query string) ([]medflow.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.queries = append(r.queries, query)
	if r.Err != nil {
		return nil, r.Err
	}
	if len(r.Results) == 0 {
		return []medflow.Document{}, nil
	}
	result := r.Results[0]
	if len(r.Results) > 1 {
		r.Results = r.Results[1:]
	}
	return result, nil
}

// Queries returns a copy of the queries seen so far.
func (r *ScriptedRetriever) Queries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.queries))
	copy(out, r.queries)
	return out
}

// =============================================================================
// ScriptedTrials
// =============================================================================

// ScriptedTrials returns a fixed record set or error on every Search.
type ScriptedTrials struct {
	mu      sync.Mutex
	Records []trials.Record
	Err     error
	calls   int
}

// Search implements medflow.TrialsSearcher.
func (s *ScriptedTrials) Search(ctx context.Context, query string) ([]trials.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Records, nil
}

// Calls returns the number of Search invocations so far.
func (s *ScriptedTrials) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// =============================================================================
// Notification Recorder
// =============================================================================

// Recorder captures progress events for assertions.
type Recorder struct {
	mu     sync.Mutex
	events []notify.Event
}

// Notify implements notify.Notifier.
func (r *Recorder) Notify(ctx context.Context, event notify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notify.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Nodes returns the distinct node names that emitted events, in first-seen order.
func (r *Recorder) Nodes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := map[string]bool{}
	var nodes []string
	for _, e := range r.events {
		if !seen[e.Node] {
			seen[e.Node] = true
			nodes = append(nodes, e.Node)
		}
	}
	return nodes
}

// =============================================================================
// Trials Test Server
// =============================================================================

// TrialsServer starts an httptest server that answers the full-studies
// endpoint with the given JSON body. The caller owns Close.
func TrialsServer(body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}
