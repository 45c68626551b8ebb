package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/randalmurphal/medflow"
	"github.com/randalmurphal/medflow/config"
	"github.com/randalmurphal/medflow/llm"
)

type stubRetriever struct {
	docs []medflow.Document
	err  error
}

func (r *stubRetriever) Search(ctx context.Context, query string) ([]medflow.Document, error) {
	return r.docs, r.err
}

func newTestServer(t *testing.T, deps Deps) *Server {
	t.Helper()
	srv, err := New(config.Default(), deps)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv
}

// parseSSE splits a raw SSE body into data payloads and reports whether
// the done terminator was sent.
func parseSSE(t *testing.T, body string) (frames []map[string]any, done bool) {
	t.Helper()
	for _, block := range strings.Split(body, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if strings.HasPrefix(block, "event: done") {
			done = true
			continue
		}
		payload, ok := strings.CutPrefix(block, "data: ")
		if !ok {
			t.Fatalf("unexpected SSE block: %q", block)
		}
		var decoded map[string]any
		if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
			t.Fatalf("bad frame %q: %v", payload, err)
		}
		frames = append(frames, decoded)
	}
	return frames, done
}

func ask(t *testing.T, srv *Server, query string) *httptest.ResponseRecorder {
	t.Helper()
	url := "/ask"
	if query != "" {
		url += "?query=" + strings.ReplaceAll(query, " ", "+")
	}
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestRootLiveness(t *testing.T) {
	srv := newTestServer(t, Deps{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "medflow API running") {
		t.Errorf("body = %q, want liveness message", rec.Body.String())
	}
}

func TestAskMissingQuery(t *testing.T) {
	srv := newTestServer(t, Deps{})

	rec := ask(t, srv, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAskMedicalPath(t *testing.T) {
	srv := newTestServer(t, Deps{
		LLM:       llm.NewMockClient("medical", "- finding", "explanation text"),
		Retriever: &stubRetriever{docs: []medflow.Document{{PMID: "1", Content: "abstract"}}},
	})

	rec := ask(t, srv, "what is metformin")

	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-cache" {
		t.Errorf("Cache-Control = %q, want no-cache", got)
	}

	frames, done := parseSSE(t, rec.Body.String())
	if !done {
		t.Error("missing done terminator")
	}

	wantNodes := []string{
		medflow.NodeClassify,
		medflow.NodeRetrieveRefine,
		medflow.NodeFetchTrials,
		medflow.NodeSummarize,
		medflow.NodeExplain,
	}
	if len(frames) != len(wantNodes) {
		t.Fatalf("got %d frames, want %d: %v", len(frames), len(wantNodes), frames)
	}
	for i, frame := range frames {
		if frame["node"] != wantNodes[i] {
			t.Errorf("frame %d node = %v, want %s", i, frame["node"], wantNodes[i])
		}
	}

	// The fetch_trials frame must carry a count even with no searcher.
	if frames[2]["trials_count"] != float64(0) {
		t.Errorf("trials_count = %v, want 0", frames[2]["trials_count"])
	}
	if disclaimer, _ := frames[4]["explanation"].(string); !strings.Contains(disclaimer, "Disclaimer") {
		t.Error("final explanation missing disclaimer")
	}
}

func TestAskOffDomainPath(t *testing.T) {
	srv := newTestServer(t, Deps{LLM: llm.NewMockClient("other")})

	rec := ask(t, srv, "who won the world cup")

	frames, done := parseSSE(t, rec.Body.String())
	if !done {
		t.Error("missing done terminator")
	}
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2: %v", len(frames), frames)
	}
	if frames[1]["node"] != medflow.NodeOffDomain {
		t.Errorf("terminal node = %v, want off_domain", frames[1]["node"])
	}
	if explanation, _ := frames[1]["explanation"].(string); !strings.Contains(explanation, "off-domain") {
		t.Errorf("explanation = %q, want off-domain message", explanation)
	}
}

func TestAskNoAnswerPath(t *testing.T) {
	srv := newTestServer(t, Deps{
		LLM:       llm.NewMockClient("medical", "refined a", "refined b"),
		Retriever: &stubRetriever{docs: []medflow.Document{}},
	})

	rec := ask(t, srv, "obscure medical question")

	frames, done := parseSSE(t, rec.Body.String())
	if !done {
		t.Error("missing done terminator")
	}
	last := frames[len(frames)-1]
	if last["node"] != medflow.NodeNoAnswer {
		t.Errorf("terminal node = %v, want no_answer", last["node"])
	}
}

func TestAskPipelineErrorOmitsDone(t *testing.T) {
	srv := newTestServer(t, Deps{
		LLM: llm.NewMockClient().Fail(errors.New("backend down")),
	})

	rec := ask(t, srv, "what is metformin")

	_, done := parseSSE(t, rec.Body.String())
	if done {
		t.Error("done terminator sent after pipeline failure")
	}
}

func TestAskRetrieverErrorOmitsDone(t *testing.T) {
	srv := newTestServer(t, Deps{
		LLM:       llm.NewMockClient("medical"),
		Retriever: &stubRetriever{err: errors.New("pubmed unavailable")},
	})

	rec := ask(t, srv, "what is metformin")

	frames, done := parseSSE(t, rec.Body.String())
	if done {
		t.Error("done terminator sent after retriever failure")
	}
	// classify streamed before the failure
	if len(frames) != 1 || frames[0]["node"] != medflow.NodeClassify {
		t.Errorf("frames = %v, want only classify", frames)
	}
}
