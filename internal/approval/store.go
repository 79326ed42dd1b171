package approval

import (
	"fmt"
	"sync"
	"time"

	"github.com/ClarenceZzz/assistant-demo/internal/domain"
)

// Store keeps pending approvals until they are decided or expire.
type Store interface {
	// Save registers a pending approval under its ApprovalID.
	Save(p *PendingApproval) error
	// GetAndRemove consumes a pending approval. Each approval can be
	// consumed exactly once; a second call returns domain.ErrApprovalNotFound.
	// Expired approvals return domain.ErrApprovalExpired and are dropped.
	GetAndRemove(approvalID string) (*PendingApproval, error)
	// Peek returns a pending approval without consuming it.
	Peek(approvalID string) (*PendingApproval, error)
	// Len reports how many approvals are currently held, expired included.
	Len() int
}

// MemoryStore is an in-memory Store with lazy TTL expiry. Expired entries are
// dropped when touched, not by a background sweeper.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	pending map[string]*PendingApproval
	now     func() time.Time // for testing
}

// NewMemoryStore creates a store whose approvals expire ttl after creation.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		pending: make(map[string]*PendingApproval),
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(p *PendingApproval) error {
	if p == nil || p.ApprovalID == "" {
		return fmt.Errorf("approval id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.pending[p.ApprovalID]; exists {
		return fmt.Errorf("approval %s already pending", p.ApprovalID)
	}
	s.pending[p.ApprovalID] = p
	return nil
}

func (s *MemoryStore) GetAndRemove(approvalID string) (*PendingApproval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[approvalID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrApprovalNotFound, approvalID)
	}
	delete(s.pending, approvalID)
	if s.expired(p) {
		return nil, fmt.Errorf("%w: %s", domain.ErrApprovalExpired, approvalID)
	}
	return p, nil
}

func (s *MemoryStore) Peek(approvalID string) (*PendingApproval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[approvalID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrApprovalNotFound, approvalID)
	}
	if s.expired(p) {
		delete(s.pending, approvalID)
		return nil, fmt.Errorf("%w: %s", domain.ErrApprovalExpired, approvalID)
	}
	return p, nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *MemoryStore) expired(p *PendingApproval) bool {
	return s.now().Sub(p.CreatedAt) > s.ttl
}
