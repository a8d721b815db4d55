package live

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/toklytics/toklytics-live/internal/domain"
	"github.com/toklytics/toklytics-live/internal/logger"
	"github.com/toklytics/toklytics-live/internal/powerup"
)

// Callbacks are invoked synchronously on session state changes and must not block
type Callbacks struct {
	// OnConnected fires once the room handshake succeeded
	OnConnected func(status Status)
	// OnDisconnected fires exactly once when a connected session ends, whether stopped or lost
	OnDisconnected func()
	// OnError fires for stream errors and failed event processing
	OnError func(err error)
}

// Status is a snapshot of a live session
type Status struct {
	CreatorID  string `json:"creatorId,omitempty"`
	IsTracking bool   `json:"isTracking"`
	Username   string `json:"username,omitempty"`
	RoomID     string `json:"roomId,omitempty"`
}

// session is the live event stream of one creator.
// Events are processed one at a time, in arrival order, by a single-worker pool.
type session struct {
	creatorID string
	username  string
	callbacks Callbacks
	processor powerup.Processor

	ctx    context.Context
	cancel context.CancelFunc
	pool   pond.Pool
	// ready is closed once the handshake finished, successfully or not
	ready  chan struct{}
	closed atomic.Bool
	// lost is called after the stream ended on its own
	lost func(s *session)

	// cbMu orders the Connected and Disconnected callbacks
	cbMu      sync.Mutex
	connected bool

	mu       sync.RWMutex
	conn     Connection
	tracking bool
	roomID   string
	battleID *string
}

func newSession(creatorID, username string, callbacks Callbacks, processor powerup.Processor, queueSize int, lost func(s *session)) *session {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = logger.WithFields(ctx,
		zap.String("creatorID", creatorID),
		zap.String("username", username))

	return &session{
		creatorID: creatorID,
		username:  username,
		callbacks: callbacks,
		processor: processor,
		ctx:       ctx,
		cancel:    cancel,
		pool:      pond.NewPool(1, pond.WithQueueSize(queueSize), pond.WithContext(ctx)),
		ready:     make(chan struct{}),
		lost:      lost,
	}
}

// start opens the stream and waits for the handshake, bounded by timeout
func (s *session) start(ctx context.Context, connector Connector, timeout time.Duration) error {
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := connector.Connect(connectCtx, s.username, s)
	if err != nil {
		s.closed.Store(true)
		close(s.ready)
		s.pool.StopAndWait()
		s.cancel()
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrHandshakeFailed) {
			err = fmt.Errorf("%w: %w", domain.ErrHandshakeFailed, err)
		}
		return err
	}

	s.mu.Lock()
	s.conn = conn
	s.roomID = conn.RoomID()
	s.tracking = true
	s.mu.Unlock()
	close(s.ready)

	logger.InfoCtx(s.ctx, "Live session connected", zap.String("roomID", conn.RoomID()))

	s.cbMu.Lock()
	defer s.cbMu.Unlock()
	if s.closed.Load() {
		// Lost between the handshake and now; the disconnect was already handled
		return fmt.Errorf("%w: stream ended during handshake", domain.ErrHandshakeFailed)
	}
	s.connected = true
	if s.callbacks.OnConnected != nil {
		s.callbacks.OnConnected(s.status())
	}

	return nil
}

// stop closes the stream and waits for queued events to finish.
// Returns false if the session had already ended.
func (s *session) stop() bool {
	if !s.closed.CompareAndSwap(false, true) {
		return false
	}

	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.WarnCtx(s.ctx, "Failed to close live stream", zap.Error(err))
		}
	}

	s.finish()
	logger.InfoCtx(s.ctx, "Live session stopped")

	return true
}

// finish drains the queue, clears the session state and fires Disconnected
func (s *session) finish() {
	s.pool.StopAndWait()
	s.cancel()

	s.mu.Lock()
	s.tracking = false
	s.roomID = ""
	s.battleID = nil
	s.mu.Unlock()

	s.cbMu.Lock()
	defer s.cbMu.Unlock()
	if s.connected && s.callbacks.OnDisconnected != nil {
		s.callbacks.OnDisconnected()
	}
	s.connected = false
}

func (s *session) status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		CreatorID:  s.creatorID,
		IsTracking: s.tracking,
		Username:   s.username,
		RoomID:     s.roomID,
	}
}

func (s *session) liveContext() domain.LiveContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.LiveContext{
		CreatorID: s.creatorID,
		RoomID:    s.roomID,
		BattleID:  s.battleID,
	}
}

// OnEvent queues an inbound event for sequential processing
func (s *session) OnEvent(event domain.LiveEvent) {
	if s.closed.Load() {
		logger.DebugCtx(s.ctx, "Dropping event for closed session", zap.String("type", string(event.Type)))
		return
	}

	s.pool.Submit(func() {
		<-s.ready
		if s.ctx.Err() != nil {
			return
		}
		s.process(event)
	})
}

// OnDisconnected handles the stream ending on its own
func (s *session) OnDisconnected(reason string) {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}

	logger.WarnCtx(s.ctx, "Live stream disconnected", zap.String("reason", reason))

	if s.lost != nil {
		s.lost(s)
	}

	// Never block the stream's own delivery goroutine on the queue drain
	go func() {
		<-s.ready
		s.mu.RLock()
		conn := s.conn
		s.mu.RUnlock()
		if conn != nil {
			if err := conn.Close(); err != nil {
				logger.DebugCtx(s.ctx, "Failed to close lost live stream", zap.Error(err))
			}
		}
		s.finish()
	}()
}

// OnError reports a stream error; the stream stays open
func (s *session) OnError(err error) {
	logger.ErrorCtx(s.ctx, fmt.Errorf("live stream error: %w", err))
	s.reportError(err)
}

func (s *session) reportError(err error) {
	if s.callbacks.OnError != nil {
		s.callbacks.OnError(err)
	}
}

func (s *session) process(event domain.LiveEvent) {
	switch event.Type {
	case domain.LiveEventTypeGift:
		if event.Gift == nil {
			return
		}
		if _, err := s.processor.HandleGift(s.ctx, s.liveContext(), *event.Gift); err != nil {
			logger.ErrorCtx(s.ctx, err, zap.String("gift", event.Gift.GiftName))
			s.reportError(err)
		}

	case domain.LiveEventTypeBattle:
		if event.Battle == nil {
			return
		}
		battleID := s.processor.HandleBattle(s.ctx, s.liveContext(), *event.Battle)
		s.mu.Lock()
		s.battleID = &battleID
		s.mu.Unlock()

	case domain.LiveEventTypeChat:
		if event.Chat != nil {
			logger.DebugCtx(s.ctx, "Chat", zap.String("from", event.Chat.UniqueID), zap.String("comment", event.Chat.Comment))
		}

	case domain.LiveEventTypeMember:
		if event.Member != nil {
			logger.DebugCtx(s.ctx, "Viewer joined", zap.String("viewer", event.Member.UniqueID))
		}

	default:
		logger.DebugCtx(s.ctx, "Ignoring unknown live event", zap.String("type", string(event.Type)))
	}
}
