package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ClarenceZzz/assistant-demo/internal/adapter/llm"
	"github.com/ClarenceZzz/assistant-demo/internal/adapter/siliconflow"
	"github.com/ClarenceZzz/assistant-demo/internal/approval"
	"github.com/ClarenceZzz/assistant-demo/internal/config"
	"github.com/ClarenceZzz/assistant-demo/internal/policy"
	"github.com/ClarenceZzz/assistant-demo/internal/service"
	"github.com/ClarenceZzz/assistant-demo/internal/store"
	"github.com/ClarenceZzz/assistant-demo/internal/tool"
	v1 "github.com/ClarenceZzz/assistant-demo/internal/transport/http/v1"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting assistant service...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("Chat model: %s via %s", cfg.ChatModel, cfg.ChatBaseURL)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize chat model client
	chatClient := llm.NewClient(cfg.ChatBaseURL, cfg.ChatAPIKey, cfg.ChatTimeout)

	// Initialize embedding / rerank client
	sfClient := siliconflow.NewClient(cfg.SiliconFlowBaseURL, cfg.SiliconFlowAPIKey,
		cfg.EmbeddingModel, cfg.RerankModel, cfg.SiliconFlowTimeout)

	// Initialize policy engine with the configured tool sets
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy, policy.DataFor(cfg.HighRiskTools, nil))
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize tool pipeline
	registry := tool.NewRegistry()
	tool.RegisterBuiltins(registry)
	limiter := tool.NewRateLimiter(cfg.RateLimitMaxCalls, cfg.RateLimitWindow, cfg.RateLimitWhitelist)
	executor := tool.NewExecutor(registry, limiter, cfg.ToolMaxAttempts)

	// Initialize pending approval store
	approvals := approval.NewMemoryStore(cfg.ApprovalTTL)

	// Initialize service
	svc := service.New(db, chatClient, sfClient, sfClient, registry, executor, approvals, policyEngine, cfg)

	// Initialize handler
	h := v1.NewHandler(svc)

	// Create Echo server
	server := echo.New()
	server.HideBanner = true

	// Middleware
	server.Use(middleware.Logger())
	server.Use(middleware.Recover())
	server.Use(middleware.CORS())

	// Register routes
	h.RegisterRoutes(server)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down assistant service...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Assistant service stopped")
}
