package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mikedeiure/CustomApp-V1/internal/fetch"
)

func TestOpenAIComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("bad auth header %q", got)
		}
		var req openAIRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "gpt-4o-mini" || len(req.Messages) != 1 || req.Messages[0].Content != "analyze this" {
			t.Errorf("bad request body: %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "pause the losers"}},
			},
		})
	}))
	defer srv.Close()

	c := NewOpenAIClient(fetch.NewHTTPClient(2*time.Second), srv.URL, "test-key", "gpt-4o-mini")
	got, err := c.Complete(context.Background(), Request{Prompt: "analyze this"})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got != "pause the losers" {
		t.Fatalf("bad completion: %q", got)
	}
}

func TestAnthropicComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("bad api key header %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got == "" {
			t.Error("missing anthropic-version header")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{
				{"type": "text", "text": "raise brand bids"},
			},
		})
	}))
	defer srv.Close()

	c := NewAnthropicClient(fetch.NewHTTPClient(2*time.Second), srv.URL, "test-key", "claude-sonnet-4-20250514")
	got, err := c.Complete(context.Background(), Request{Prompt: "analyze this"})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got != "raise brand bids" {
		t.Fatalf("bad completion: %q", got)
	}
}

func TestCompleteSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewOpenAIClient(fetch.NewHTTPClient(2*time.Second), srv.URL, "test-key", "gpt-4o-mini")
	if _, err := c.Complete(context.Background(), Request{Prompt: "x"}); err == nil {
		t.Fatal("expected error from non-2xx response")
	}
}
