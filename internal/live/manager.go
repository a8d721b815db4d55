package live

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/toklytics/toklytics-live/internal/domain"
	"github.com/toklytics/toklytics-live/internal/logger"
	"github.com/toklytics/toklytics-live/internal/powerup"
)

const (
	DEFAULT_CONNECT_TIMEOUT  = 15 * time.Second
	DEFAULT_EVENT_QUEUE_SIZE = 1024
)

// Config holds the live session manager configuration
type Config struct {
	// ConnectTimeout bounds the room handshake
	ConnectTimeout time.Duration
	// EventQueueSize is the number of events buffered per session before delivery blocks
	EventQueueSize int
}

// Manager owns the live sessions of the process, at most one per creator
type Manager struct {
	connector Connector
	processor powerup.Processor
	config    Config

	mu       sync.RWMutex
	sessions map[string]*session

	// locks serializes start and stop per creator
	locks *keyedMutex
}

// NewManager creates a new live session manager
func NewManager(connector Connector, processor powerup.Processor, cfg Config) *Manager {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DEFAULT_CONNECT_TIMEOUT
	}
	if cfg.EventQueueSize <= 0 {
		cfg.EventQueueSize = DEFAULT_EVENT_QUEUE_SIZE
	}

	return &Manager{
		connector: connector,
		processor: processor,
		config:    cfg,
		sessions:  make(map[string]*session),
		locks:     newKeyedMutex(),
	}
}

// StartTracking connects to the creator's live room, replacing any session the creator already has.
// The replaced session's OnDisconnected fires before the new session's OnConnected.
// Callbacks must not call back into the Manager.
func (m *Manager) StartTracking(ctx context.Context, username string, creatorID string, callbacks Callbacks) (Status, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	creatorID = strings.TrimSpace(creatorID)
	if username == "" {
		return Status{}, domain.ErrInvalidUsername
	}
	if creatorID == "" {
		return Status{}, domain.ErrInvalidCreatorID
	}

	unlock := m.locks.lock(creatorID)
	defer unlock()

	if existing := m.get(creatorID); existing != nil {
		logger.InfoCtx(ctx, "Replacing live session",
			zap.String("creatorID", creatorID),
			zap.String("previous", existing.username),
			zap.String("username", username))
		existing.stop()
		m.remove(creatorID, existing)
	}

	logger.InfoCtx(ctx, "Starting live session",
		zap.String("creatorID", creatorID),
		zap.String("username", username))

	s := newSession(creatorID, username, callbacks, m.processor, m.config.EventQueueSize, func(lost *session) {
		m.remove(lost.creatorID, lost)
	})
	if err := s.start(ctx, m.connector, m.config.ConnectTimeout); err != nil {
		return Status{CreatorID: creatorID, Username: username}, fmt.Errorf("failed to start live session for @%s: %w", username, err)
	}

	if !m.put(creatorID, s) {
		return Status{CreatorID: creatorID, Username: username},
			fmt.Errorf("failed to start live session for @%s: %w: stream ended during start", username, domain.ErrHandshakeFailed)
	}

	return s.status(), nil
}

// StopTracking closes the creator's session and waits for its queued events.
// Returns false if the creator had no session.
func (m *Manager) StopTracking(ctx context.Context, creatorID string) bool {
	unlock := m.locks.lock(creatorID)
	defer unlock()

	s := m.get(creatorID)
	if s == nil {
		return false
	}

	logger.InfoCtx(ctx, "Stopping live session", zap.String("creatorID", creatorID))
	stopped := s.stop()
	m.remove(creatorID, s)

	return stopped
}

// GetStatus returns the creator's session status; unknown creators are not tracking
func (m *Manager) GetStatus(creatorID string) Status {
	status, _ := m.GetSession(creatorID)
	return status
}

// GetSession returns the creator's session status and whether a session exists
func (m *Manager) GetSession(creatorID string) (Status, bool) {
	s := m.get(creatorID)
	if s == nil {
		return Status{CreatorID: creatorID, IsTracking: false}, false
	}
	return s.status(), true
}

// ListSessions returns the status of every session ordered by creator
func (m *Manager) ListSessions() []Status {
	m.mu.RLock()
	statuses := make([]Status, 0, len(m.sessions))
	for _, s := range m.sessions {
		statuses = append(statuses, s.status())
	}
	m.mu.RUnlock()

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].CreatorID < statuses[j].CreatorID
	})
	return statuses
}

// Shutdown stops every session, waiting for queued events until ctx is done
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.RLock()
	creatorIDs := make([]string, 0, len(m.sessions))
	for creatorID := range m.sessions {
		creatorIDs = append(creatorIDs, creatorID)
	}
	m.mu.RUnlock()

	logger.InfoCtx(ctx, "Shutting down live sessions", zap.Int("sessions", len(creatorIDs)))

	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		for _, creatorID := range creatorIDs {
			wg.Add(1)
			go func(creatorID string) {
				defer wg.Done()
				m.StopTracking(ctx, creatorID)
			}(creatorID)
		}
		wg.Wait()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to stop live sessions: %w", ctx.Err())
	}
}

func (m *Manager) get(creatorID string) *session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[creatorID]
}

// put registers a started session unless it was already lost
func (m *Manager) put(creatorID string, s *session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.closed.Load() {
		return false
	}
	m.sessions[creatorID] = s
	return true
}

// remove unregisters s, leaving any newer session for the creator in place
func (m *Manager) remove(creatorID string, s *session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if current, ok := m.sessions[creatorID]; ok && current == s {
		delete(m.sessions, creatorID)
	}
}
