package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ClarenceZzz/assistant-demo/internal/domain"
)

func TestClientComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt","choices":[{"index":0,"message":{"role":"assistant","content":"hi"},"finish_reason":"stop"}],"usage":{"prompt_tokens":1,"completion_tokens":2,"total_tokens":3}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	resp, err := client.Complete(context.Background(), &Request{
		Model:    "gpt",
		Messages: []domain.Message{domain.UserMessage("hello")},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Content != "hi" || resp.HasToolCalls() {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestClientCompleteToolCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c2","object":"chat.completion","created":1,"model":"gpt","choices":[{"index":0,"message":{"role":"assistant","content":"","tool_calls":[{"id":"call_1","type":"function","function":{"name":"getWeather","arguments":"{\"cityName\":\"Xiamen\"}"}}]},"finish_reason":"tool_calls"}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", time.Second)
	resp, err := client.Complete(context.Background(), &Request{
		Model:    "gpt",
		Messages: []domain.Message{domain.UserMessage("weather in Xiamen?")},
		Tools: []domain.ToolDefinition{
			{Type: "function", Function: domain.ToolFunction{Name: "getWeather"}},
		},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if !resp.HasToolCalls() {
		t.Fatalf("expected tool calls, got %+v", resp)
	}
	call := resp.ToolCalls[0]
	if call.ID != "call_1" || call.Function.Name != "getWeather" {
		t.Fatalf("unexpected tool call: %+v", call)
	}
}

func TestClientCompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"slow down","type":"rate_limit_error"}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	_, err := client.Complete(context.Background(), &Request{
		Model:    "gpt",
		Messages: []domain.Message{domain.UserMessage("hello")},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("unexpected status: %d", apiErr.StatusCode)
	}
}
