// Package service implements the orchestration core: the tool-call loop,
// human-in-the-loop approvals, and retrieval-augmented answering.
package service

import (
	"context"

	"github.com/ClarenceZzz/assistant-demo/internal/adapter/llm"
	"github.com/ClarenceZzz/assistant-demo/internal/adapter/siliconflow"
	"github.com/ClarenceZzz/assistant-demo/internal/approval"
	"github.com/ClarenceZzz/assistant-demo/internal/config"
	"github.com/ClarenceZzz/assistant-demo/internal/policy"
	"github.com/ClarenceZzz/assistant-demo/internal/store"
	"github.com/ClarenceZzz/assistant-demo/internal/tool"
)

// Embedder turns texts into embedding vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Reranker reorders candidate documents by relevance to a query.
type Reranker interface {
	Rerank(ctx context.Context, query string, documents []string) ([]siliconflow.RankedDocument, error)
}

type Service struct {
	store        store.Store
	chat         llm.ChatModel
	embedder     Embedder
	reranker     Reranker
	registry     *tool.Registry
	executor     *tool.Executor
	approvals    approval.Store
	policyEngine *policy.Engine
	config       *config.Config
}

func New(
	st store.Store,
	chat llm.ChatModel,
	embedder Embedder,
	reranker Reranker,
	registry *tool.Registry,
	executor *tool.Executor,
	approvals approval.Store,
	policyEngine *policy.Engine,
	cfg *config.Config,
) *Service {
	return &Service{
		store:        st,
		chat:         chat,
		embedder:     embedder,
		reranker:     reranker,
		registry:     registry,
		executor:     executor,
		approvals:    approvals,
		policyEngine: policyEngine,
		config:       cfg,
	}
}
