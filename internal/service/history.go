package service

import (
	"context"
	"fmt"

	"github.com/ClarenceZzz/assistant-demo/internal/domain"
)

// GetConversationMessages returns the persisted messages of a conversation.
func (s *Service) GetConversationMessages(ctx context.Context, conversationID string, limit int) ([]domain.StoredMessage, error) {
	if conversationID == "" {
		return nil, fmt.Errorf("conversation_id is required")
	}
	return s.store.GetMessages(ctx, conversationID, limit)
}

// GetConversationEvents returns the audit events of a conversation.
func (s *Service) GetConversationEvents(ctx context.Context, conversationID string, afterTs int64, types []string, limit int) ([]domain.Event, error) {
	if conversationID == "" {
		return nil, fmt.Errorf("conversation_id is required")
	}
	return s.store.GetEvents(ctx, conversationID, afterTs, types, limit)
}
