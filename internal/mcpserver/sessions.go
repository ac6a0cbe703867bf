package mcpserver

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mcpkit-labs/mcpkit/internal/logging"
	"github.com/mcpkit-labs/mcpkit/internal/metrics"
)

const sessionIDPrefix = "mcp-session-"

// sessionManager issues streamable HTTP session ids and releases the tool
// state of a session when the client terminates it with DELETE.
type sessionManager struct {
	name string
	drop func(id string)

	mu   sync.Mutex
	live map[string]struct{}
}

func newSessionManager(s *Server) *sessionManager {
	return &sessionManager{
		name: s.name,
		drop: s.set.dropSession,
		live: make(map[string]struct{}),
	}
}

func (m *sessionManager) Generate() string {
	id := sessionIDPrefix + uuid.NewString()

	m.mu.Lock()
	m.live[id] = struct{}{}
	m.mu.Unlock()

	metrics.SessionOpened(m.name)
	logging.L().Debug("session started", zap.String("server", m.name), zap.String("session", id))
	return id
}

// Validate reports ids this manager never issued, or already terminated, as
// terminated so the client re-initializes.
func (m *sessionManager) Validate(id string) (isTerminated bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.live[id]
	return !ok, nil
}

func (m *sessionManager) Terminate(id string) (isNotAllowed bool, err error) {
	m.mu.Lock()
	_, ok := m.live[id]
	delete(m.live, id)
	m.mu.Unlock()

	if ok {
		m.drop(id)
		metrics.SessionClosed(m.name)
		logging.L().Debug("session terminated", zap.String("server", m.name), zap.String("session", id))
	}
	return false, nil
}

// Len returns the number of live sessions.
func (m *sessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}
