// Package conversation tracks live conversations in memory for the lifetime
// of the process. Nothing is persisted; a conversation ends when the process
// does.
package conversation

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/mindbotz/team-zephyra/internal/service/agent"
)

// ErrConversationNotFound is returned for unknown conversation ids.
var ErrConversationNotFound = errors.New("conversation not found")

// Service encapsulates conversation lifecycle management.
type Service struct {
	mu       sync.RWMutex
	agents   *agent.Service
	sessions map[string]*agent.Session
}

// NewService bootstraps the in-memory conversation registry.
func NewService(agents *agent.Service) *Service {
	return &Service{
		agents:   agents,
		sessions: make(map[string]*agent.Session),
	}
}

// Create provisions a conversation starting on the router persona.
func (s *Service) Create(_ context.Context) (*agent.Session, error) {
	sess := s.agents.NewSession(uuid.NewString())

	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()

	return sess, nil
}

// Get retrieves a live conversation by identifier.
func (s *Service) Get(_ context.Context, id string) (*agent.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return sess, nil
}
