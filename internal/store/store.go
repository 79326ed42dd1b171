// Package store defines the storage interface and implementations.
package store

import (
	"context"

	"github.com/ClarenceZzz/assistant-demo/internal/domain"
)

// Store defines the interface for data persistence.
type Store interface {
	// Conversation operations
	CreateConversation(ctx context.Context, conv *domain.Conversation) error
	GetConversation(ctx context.Context, conversationID string) (*domain.Conversation, error)
	GetOrCreateConversation(ctx context.Context, conversationID, userID string) (*domain.Conversation, error)

	// Message operations
	CreateMessage(ctx context.Context, msg *domain.StoredMessage) error
	GetMessages(ctx context.Context, conversationID string, limit int) ([]domain.StoredMessage, error)

	// Event operations
	CreateEvent(ctx context.Context, event *domain.Event) error
	GetEvents(ctx context.Context, conversationID string, afterTs int64, types []string, limit int) ([]domain.Event, error)

	// Chunk operations
	CreateChunk(ctx context.Context, chunk *domain.Chunk) error
	SearchChunks(ctx context.Context, embedding []float32, topK int) ([]domain.ScoredChunk, error)

	// Lifecycle
	Close() error
}
