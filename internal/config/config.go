// Package config provides configuration for the assistant service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the service configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// Chat model (OpenAI-compatible endpoint)
	ChatBaseURL string
	ChatAPIKey  string
	ChatModel   string
	ChatTimeout time.Duration

	// Embedding / rerank provider
	SiliconFlowBaseURL string
	SiliconFlowAPIKey  string
	SiliconFlowTimeout time.Duration
	EmbeddingModel     string
	RerankModel        string

	// Orchestration loop
	MaxToolIterations int
	ToolMaxAttempts   int

	// Rate limiting
	RateLimitWindow    time.Duration
	RateLimitMaxCalls  int
	RateLimitWhitelist []string

	// Approvals
	HighRiskTools []string
	ApprovalTTL   time.Duration

	// Retrieval
	RetrievalTopK int
	RetrievalTopN int
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		HTTPPort:           getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:        getEnv("DATABASE_URL", "file:assistant.db?cache=shared&mode=rwc"),
		ChatBaseURL:        getEnv("CHAT_BASE_URL", "https://api.openai.com"),
		ChatAPIKey:         getEnv("CHAT_API_KEY", ""),
		ChatModel:          getEnv("CHAT_MODEL", "gpt-4o-mini"),
		ChatTimeout:        time.Duration(getEnvInt("CHAT_TIMEOUT_MS", 60000)) * time.Millisecond,
		SiliconFlowBaseURL: getEnv("SILICONFLOW_BASE_URL", "https://api.siliconflow.cn"),
		SiliconFlowAPIKey:  getEnv("SILICONFLOW_API_KEY", ""),
		SiliconFlowTimeout: time.Duration(getEnvInt("SILICONFLOW_TIMEOUT_MS", 30000)) * time.Millisecond,
		EmbeddingModel:     getEnv("EMBEDDING_MODEL", "BAAI/bge-m3"),
		RerankModel:        getEnv("RERANK_MODEL", "BAAI/bge-reranker-v2-m3"),
		MaxToolIterations:  getEnvInt("MAX_TOOL_ITERATIONS", 10),
		ToolMaxAttempts:    getEnvInt("TOOL_MAX_ATTEMPTS", 3),
		RateLimitWindow:    time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MS", 60000)) * time.Millisecond,
		RateLimitMaxCalls:  getEnvInt("RATE_LIMIT_MAX_CALLS", 10),
		RateLimitWhitelist: getEnvList("RATE_LIMIT_WHITELIST", []string{"getWeather", "getTemperature"}),
		HighRiskTools: getEnvList("HIGH_RISK_TOOLS", []string{
			"delete_user", "transfer_money", "deploy_service",
			"drop_table", "send_email_batch",
			"getWeather", "getTemperature",
		}),
		ApprovalTTL:   time.Duration(getEnvInt("APPROVAL_TTL_MS", 600000)) * time.Millisecond,
		RetrievalTopK: getEnvInt("RETRIEVAL_TOP_K", 20),
		RetrievalTopN: getEnvInt("RETRIEVAL_TOP_N", 5),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
