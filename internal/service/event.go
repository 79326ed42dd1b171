package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ClarenceZzz/assistant-demo/internal/domain"
)

// recordEvent appends an audit event to the store. Stateless turns carry no
// conversation, so there is nothing to scope the event to and it is skipped.
// Event failures are logged, never propagated: auditing must not break turns.
func (s *Service) recordEvent(ctx context.Context, conversationID string, eventType domain.EventType, payload interface{}) {
	if s.store == nil || conversationID == "" {
		return
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR: failed to marshal %s payload: %v", eventType, err)
		return
	}

	event := &domain.Event{
		EventID:        "evt_" + uuid.New().String()[:8],
		ConversationID: conversationID,
		Ts:             time.Now().UnixMilli(),
		Type:           eventType,
		Payload:        payloadBytes,
	}

	if err := s.store.CreateEvent(ctx, event); err != nil {
		log.Printf("ERROR: failed to record %s event: %v", eventType, err)
	}
}
