package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ClarenceZzz/assistant-demo/internal/adapter/siliconflow"
	"github.com/ClarenceZzz/assistant-demo/internal/domain"
	"github.com/ClarenceZzz/assistant-demo/tests/helpers"
)

// fakeEmbedder maps known texts to fixed vectors.
type fakeEmbedder struct {
	vectors  map[string][]float32
	fallback []float32
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := f.vectors[t]; ok {
			out[i] = v
		} else if f.fallback != nil {
			out[i] = f.fallback
		} else {
			return nil, fmt.Errorf("no vector for %q", t)
		}
	}
	return out, nil
}

// fakeReranker reverses the candidate order with descending scores.
type fakeReranker struct{ fail bool }

func (f *fakeReranker) Rerank(ctx context.Context, query string, documents []string) ([]siliconflow.RankedDocument, error) {
	if f.fail {
		return nil, fmt.Errorf("rerank service unavailable")
	}
	out := make([]siliconflow.RankedDocument, len(documents))
	for i := range documents {
		idx := len(documents) - 1 - i
		out[i] = siliconflow.RankedDocument{Index: idx, RelevanceScore: 1 - float64(i)*0.1}
	}
	return out, nil
}

func TestIngestAndQuery(t *testing.T) {
	doc := "Go was designed at Google in 2007 by Robert Griesemer.\n\nThe gopher mascot was drawn by Renee French for the project."
	embedder := &fakeEmbedder{
		vectors: map[string][]float32{
			"Go was designed at Google in 2007 by Robert Griesemer.":      {1, 0, 0},
			"The gopher mascot was drawn by Renee French for the project.": {0, 1, 0},
			"Who designed Go?": {0.9, 0.1, 0},
		},
	}
	env := newTestEnv(t, []*domain.ModelResponse{helpers.TextResponse("Go was designed at Google.")}, nil)
	env.svc.embedder = embedder
	env.svc.reranker = nil // cosine order only
	ctx := context.Background()

	ids, err := env.svc.IngestDocument(ctx, doc, nil)
	if err != nil {
		t.Fatalf("IngestDocument: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(ids))
	}

	answer, err := env.svc.RagQuery(ctx, "Who designed Go?")
	if err != nil {
		t.Fatalf("RagQuery: %v", err)
	}
	if answer.Answer != "Go was designed at Google." {
		t.Errorf("unexpected answer: %q", answer.Answer)
	}
	if len(answer.References) != 2 {
		t.Fatalf("expected 2 references, got %d", len(answer.References))
	}
	if !strings.Contains(answer.References[0].Content, "Google") {
		t.Errorf("best cosine match should lead: %+v", answer.References[0])
	}

	// The model prompt must contain the retrieved context and the question.
	msgs := env.lastMessages(t)
	prompt := msgs[len(msgs)-1].Content
	if !strings.Contains(prompt, "Google") || !strings.Contains(prompt, "Who designed Go?") {
		t.Errorf("prompt missing context or question: %q", prompt)
	}
}

func TestQueryRerankReorders(t *testing.T) {
	embedder := &fakeEmbedder{fallback: []float32{1, 0, 0}, vectors: map[string][]float32{
		"first":  {1, 0, 0},
		"second": {0.9, 0.1, 0},
	}}
	env := newTestEnv(t, []*domain.ModelResponse{helpers.TextResponse("ok")}, nil)
	env.svc.embedder = embedder
	env.svc.reranker = &fakeReranker{}
	ctx := context.Background()

	if _, err := env.svc.IngestDocument(ctx, "first chunk goes here, long enough to stand alone.\n\nsecond chunk goes here, also long enough to stand.", nil); err != nil {
		t.Fatalf("IngestDocument: %v", err)
	}

	answer, err := env.svc.RagQuery(ctx, "anything")
	if err != nil {
		t.Fatalf("RagQuery: %v", err)
	}
	if len(answer.References) != 2 {
		t.Fatalf("expected 2 references, got %d", len(answer.References))
	}
	// The fake reranker reverses cosine order.
	if answer.References[0].Score <= answer.References[1].Score {
		t.Errorf("rerank scores must be descending: %+v", answer.References)
	}
}

func TestQueryRerankFailureFallsBack(t *testing.T) {
	embedder := &fakeEmbedder{fallback: []float32{1, 0, 0}}
	env := newTestEnv(t, []*domain.ModelResponse{helpers.TextResponse("ok")}, nil)
	env.svc.embedder = embedder
	env.svc.reranker = &fakeReranker{fail: true}
	ctx := context.Background()

	if _, err := env.svc.IngestDocument(ctx, "a chunk that is comfortably long enough to stand alone here.", nil); err != nil {
		t.Fatalf("IngestDocument: %v", err)
	}

	answer, err := env.svc.RagQuery(ctx, "anything")
	if err != nil {
		t.Fatalf("RagQuery must survive rerank failure: %v", err)
	}
	if len(answer.References) != 1 {
		t.Errorf("expected cosine fallback references, got %d", len(answer.References))
	}
}

func TestQueryNoDocuments(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.svc.embedder = &fakeEmbedder{fallback: []float32{1, 0, 0}}

	answer, err := env.svc.RagQuery(context.Background(), "anything")
	if err != nil {
		t.Fatalf("RagQuery: %v", err)
	}
	if !strings.Contains(answer.Answer, "could not find") {
		t.Errorf("expected empty-corpus answer, got %q", answer.Answer)
	}
	if len(answer.References) != 0 {
		t.Errorf("expected no references, got %+v", answer.References)
	}
}

func TestSplitChunks(t *testing.T) {
	chunks := splitChunks("A paragraph that is long enough to be kept alone.\n\nshort\n\nAnother full paragraph that also stands on its own fine.")
	if len(chunks) != 2 {
		t.Fatalf("expected tiny fragment folded into predecessor, got %d chunks: %v", len(chunks), chunks)
	}
	if !strings.Contains(chunks[0], "short") {
		t.Errorf("fragment must fold into the previous chunk: %q", chunks[0])
	}
}
