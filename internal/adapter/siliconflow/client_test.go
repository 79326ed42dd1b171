package siliconflow

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[{"index":1,"embedding":[0.5,0.5]},{"index":0,"embedding":[1,0]}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "emb", "rerank", time.Second)
	vectors, err := client.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}
	// Vectors must come back in input order regardless of response order.
	if vectors[0][0] != 1 || vectors[1][0] != 0.5 {
		t.Fatalf("unexpected vectors: %v", vectors)
	}
}

func TestClientEmbedEmptyInput(t *testing.T) {
	client := NewClient("http://localhost", "", "emb", "rerank", time.Second)
	vectors, err := client.Embed(context.Background(), nil)
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if vectors != nil {
		t.Fatalf("expected nil, got %v", vectors)
	}
}

func TestClientRerank(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/rerank" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results":[{"index":2,"relevance_score":0.9},{"index":0,"relevance_score":0.3}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "emb", "rerank", time.Second)
	results, err := client.Rerank(context.Background(), "query", []string{"d0", "d1", "d2"})
	if err != nil {
		t.Fatalf("Rerank failed: %v", err)
	}
	if len(results) != 2 || results[0].Index != 2 || results[0].RelevanceScore != 0.9 {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestClientRerankAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"invalid api key"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad", "emb", "rerank", time.Second)
	_, err := client.Rerank(context.Background(), "query", []string{"doc"})
	if err == nil {
		t.Fatalf("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", apiErr.StatusCode)
	}
}
