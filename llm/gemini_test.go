package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewGemini_RequiresAPIKey(t *testing.T) {
	_, err := NewGemini(GeminiConfig{})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("err = %v, want %v", err, ErrMissingAPIKey)
	}
}

func TestGemini_Complete(t *testing.T) {
	var gotBody geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("key = %q, want %q", r.URL.Query().Get("key"), "test-key")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": "medical"}},
				}},
			},
			"usageMetadata": map[string]any{
				"promptTokenCount":     12,
				"candidatesTokenCount": 3,
			},
		})
	}))
	defer srv.Close()

	client, err := NewGemini(GeminiConfig{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewGemini: %v", err)
	}

	result, err := client.Complete(context.Background(), CompletionRequest{
		SystemPrompt: "You are an expert domain classifier.",
		Messages:     []Message{{Role: RoleUser, Content: "Question: glioblastoma"}},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if result.Content != "medical" {
		t.Errorf("Content = %q, want %q", result.Content, "medical")
	}
	if result.Usage.InputTokens != 12 || result.Usage.OutputTokens != 3 {
		t.Errorf("Usage = %+v", result.Usage)
	}
	if gotBody.SystemInstruction == nil {
		t.Error("system instruction should be sent")
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Role != "user" {
		t.Errorf("contents = %+v", gotBody.Contents)
	}
}

func TestGemini_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"API key invalid"}}`))
	}))
	defer srv.Close()

	client, err := NewGemini(GeminiConfig{APIKey: "bad", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewGemini: %v", err)
	}

	_, err = client.Complete(context.Background(), Prompt("hello"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestGemini_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	client, err := NewGemini(GeminiConfig{APIKey: "k", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewGemini: %v", err)
	}

	_, err = client.Complete(context.Background(), Prompt("hello"))
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Errorf("err = %v, want %v", err, ErrEmptyCompletion)
	}
}

func TestMockClient_FIFO(t *testing.T) {
	mock := NewMockClient("first", "second")

	r1, _ := mock.Complete(context.Background(), Prompt("a"))
	r2, _ := mock.Complete(context.Background(), Prompt("b"))
	r3, _ := mock.Complete(context.Background(), Prompt("c"))

	if r1.Content != "first" || r2.Content != "second" || r3.Content != "second" {
		t.Errorf("responses = %q, %q, %q", r1.Content, r2.Content, r3.Content)
	}
	if mock.Calls() != 3 {
		t.Errorf("Calls = %d, want 3", mock.Calls())
	}
}
