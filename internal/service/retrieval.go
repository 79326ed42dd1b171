package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ClarenceZzz/assistant-demo/internal/adapter/llm"
	"github.com/ClarenceZzz/assistant-demo/internal/domain"
)

// IngestDocument splits a document into chunks, embeds them and persists
// them for retrieval. Returns the chunk ids.
func (s *Service) IngestDocument(ctx context.Context, content string, metadata json.RawMessage) ([]string, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("content is required")
	}

	chunks := splitChunks(content)
	embeddings, err := s.embedder.Embed(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embedding count mismatch: %d texts, %d vectors", len(chunks), len(embeddings))
	}

	ids := make([]string, 0, len(chunks))
	for i, text := range chunks {
		chunk := &domain.Chunk{
			ChunkID:   "chk_" + uuid.New().String()[:8],
			Content:   text,
			Metadata:  metadata,
			Embedding: embeddings[i],
			CreatedAt: time.Now(),
		}
		if err := s.store.CreateChunk(ctx, chunk); err != nil {
			return nil, fmt.Errorf("failed to save chunk: %w", err)
		}
		ids = append(ids, chunk.ChunkID)
	}
	log.Printf("INFO: ingested %d chunk(s)", len(ids))
	return ids, nil
}

// RagQuery answers a question over the ingested documents: embed the query,
// recall the top-K chunks by cosine similarity, rerank to top-N, then ask
// the chat model with the chunks as context.
func (s *Service) RagQuery(ctx context.Context, query string) (*domain.RagAnswer, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required")
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("expected 1 query vector, got %d", len(vectors))
	}

	recalled, err := s.store.SearchChunks(ctx, vectors[0], s.config.RetrievalTopK)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	if len(recalled) == 0 {
		return &domain.RagAnswer{Answer: "I could not find any relevant documents for this question."}, nil
	}

	selected := s.rerank(ctx, query, recalled)

	var sb strings.Builder
	sb.WriteString("Answer the question using only the context below. Cite nothing outside it.\n\nContext:\n")
	references := make([]domain.RagReference, 0, len(selected))
	for i, c := range selected {
		fmt.Fprintf(&sb, "[%d] %s\n", i+1, c.Content)
		references = append(references, domain.RagReference{
			ChunkID: c.ChunkID,
			Content: c.Content,
			Score:   c.Score,
		})
	}
	fmt.Fprintf(&sb, "\nQuestion: %s", query)

	resp, err := s.chat.Complete(ctx, &llm.Request{
		Model: s.config.ChatModel,
		Messages: []domain.Message{
			domain.SystemMessage(systemPrompt),
			domain.UserMessage(sb.String()),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("model invocation failed: %w", err)
	}

	return &domain.RagAnswer{Answer: resp.Content, References: references}, nil
}

// rerank reorders recalled chunks via the rerank model and keeps the top-N.
// Rerank failures fall back to the cosine ordering rather than failing the
// query.
func (s *Service) rerank(ctx context.Context, query string, recalled []domain.ScoredChunk) []domain.ScoredChunk {
	topN := s.config.RetrievalTopN
	if topN <= 0 || topN > len(recalled) {
		topN = len(recalled)
	}
	if s.reranker == nil {
		return recalled[:topN]
	}

	docs := make([]string, len(recalled))
	for i, c := range recalled {
		docs[i] = c.Content
	}
	ranked, err := s.reranker.Rerank(ctx, query, docs)
	if err != nil {
		log.Printf("WARN: rerank failed, falling back to cosine order: %v", err)
		return recalled[:topN]
	}

	selected := make([]domain.ScoredChunk, 0, topN)
	for _, r := range ranked {
		if r.Index < 0 || r.Index >= len(recalled) {
			continue
		}
		c := recalled[r.Index]
		c.Score = r.RelevanceScore
		selected = append(selected, c)
		if len(selected) == topN {
			break
		}
	}
	if len(selected) == 0 {
		return recalled[:topN]
	}
	return selected
}

// splitChunks breaks a document on blank lines, folding tiny fragments into
// their predecessor.
func splitChunks(content string) []string {
	parts := strings.Split(content, "\n\n")
	var chunks []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if len(p) < 40 && len(chunks) > 0 {
			chunks[len(chunks)-1] += "\n" + p
			continue
		}
		chunks = append(chunks, p)
	}
	if len(chunks) == 0 {
		chunks = []string{strings.TrimSpace(content)}
	}
	return chunks
}
