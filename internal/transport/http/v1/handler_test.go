package v1

import (
	"context"
	"testing"
	"time"

	"github.com/ClarenceZzz/assistant-demo/internal/adapter/llm"
	"github.com/ClarenceZzz/assistant-demo/internal/approval"
	"github.com/ClarenceZzz/assistant-demo/internal/config"
	"github.com/ClarenceZzz/assistant-demo/internal/policy"
	"github.com/ClarenceZzz/assistant-demo/internal/service"
	"github.com/ClarenceZzz/assistant-demo/internal/store"
	"github.com/ClarenceZzz/assistant-demo/internal/tool"
	"github.com/ClarenceZzz/assistant-demo/tests/helpers"
)

// newTestHandler wires a handler with an in-memory store, the default policy
// and the given model double. highRisk names the tools gated for approval.
func newTestHandler(t *testing.T, model llm.ChatModel, highRisk []string) (*Handler, *store.SQLiteStore) {
	t.Helper()

	db := helpers.NewTestSQLiteStore(t)
	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy, policy.DataFor(highRisk, nil))
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	registry := tool.NewRegistry()
	tool.RegisterBuiltins(registry)
	executor := tool.NewExecutor(registry, nil, 3)
	approvals := approval.NewMemoryStore(10 * time.Minute)

	cfg := &config.Config{
		ChatModel:         "test-model",
		MaxToolIterations: 10,
		ToolMaxAttempts:   3,
		RetrievalTopK:     20,
		RetrievalTopN:     5,
	}

	svc := service.New(db, model, nil, nil, registry, executor, approvals, engine, cfg)
	return NewHandler(svc), db
}
