package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/toklytics/toklytics-live/internal/adapter"
	"github.com/toklytics/toklytics-live/internal/domain"
	"github.com/toklytics/toklytics-live/internal/logger"
	"github.com/toklytics/toklytics-live/internal/messaging"
	"github.com/toklytics/toklytics-live/internal/store"
	"github.com/toklytics/toklytics-live/internal/store/schema"
)

const (
	SWEEP_CYCLE_INTERVAL = 5 * time.Minute // Time to sleep between sweep cycles
)

// ExpirySweeperConfig holds configuration for the power-up expiry sweeper
type ExpirySweeperConfig struct {
	Interval           time.Duration // Time between sweep cycles
	NotificationWindow time.Duration // How far ahead an expiry counts as "soon"
	DedupeWindow       time.Duration // Skip accounts notified within this window
}

// SweepResult is the outcome of one sweep cycle
type SweepResult struct {
	Expired int
	Queued  int
}

// ExpirySweeper expires stale power-ups and queues expiring-soon notifications
type ExpirySweeper interface {
	Sweeper

	// ExpirePowerUps deactivates stale power-ups; returns how many were flipped
	ExpirePowerUps(ctx context.Context) (int, error)
	// QueueExpiryNotifications queues deduplicated notifications; returns how many were queued
	QueueExpiryNotifications(ctx context.Context) (int, error)
	// Sweep runs one full cycle: queue notifications, then expire
	Sweep(ctx context.Context) (SweepResult, error)
}

type expirySweeper struct {
	config    ExpirySweeperConfig
	store     store.Store
	publisher messaging.Publisher
	clock     adapter.Clock
	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewExpirySweeper creates a new power-up expiry sweeper
func NewExpirySweeper(config ExpirySweeperConfig, st store.Store, publisher messaging.Publisher, clock adapter.Clock) ExpirySweeper {
	if config.Interval <= 0 {
		config.Interval = SWEEP_CYCLE_INTERVAL
	}
	if config.NotificationWindow <= 0 {
		config.NotificationWindow = domain.EXPIRY_NOTIFICATION_LOOKAHEAD
	}
	if config.DedupeWindow <= 0 {
		config.DedupeWindow = domain.EXPIRY_NOTIFICATION_DEDUPE
	}

	return &expirySweeper{
		config:    config,
		store:     st,
		publisher: publisher,
		clock:     clock,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (s *expirySweeper) Name() string {
	return "powerup-expiry-sweeper"
}

// Start runs a sweep cycle every interval until the context is canceled or Stop is called
func (s *expirySweeper) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting power-up expiry sweeper",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("notification_window", s.config.NotificationWindow),
		zap.Duration("dedupe_window", s.config.DedupeWindow),
	)

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Power-up expiry sweeper stopping due to context cancellation", zap.Error(ctx.Err()))
			return nil
		case <-s.stopChan:
			logger.InfoCtx(ctx, "Power-up expiry sweeper stop requested")
			return nil
		default:
			if _, err := s.Sweep(ctx); err != nil {
				// The next cycle retries
				if !errors.Is(err, context.Canceled) {
					logger.ErrorCtx(ctx, err)
				}
			}

			s.sleep(ctx, s.config.Interval)
		}
	}
}

// Stop gracefully stops the sweeper, waiting for the current cycle to finish
func (s *expirySweeper) Stop(ctx context.Context) error {
	if !s.running.Load() {
		return nil
	}

	select {
	case <-s.stopChan:
		// Already requested
	default:
		logger.InfoCtx(ctx, "Stopping power-up expiry sweeper")
		close(s.stopChan)
	}

	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "Power-up expiry sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Power-up expiry sweeper stop interrupted by context timeout")
		return ctx.Err()
	}
}

// sleep waits for the duration; returns false if interrupted
func (s *expirySweeper) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-s.clock.After(duration):
		return true
	case <-ctx.Done():
		return false
	case <-s.stopChan:
		return false
	}
}

// Sweep runs one full cycle. Notifications are queued before expiring so that power-ups
// that went stale since the last cycle are listed once before they are flipped.
// A failed step does not skip the other.
func (s *expirySweeper) Sweep(ctx context.Context) (SweepResult, error) {
	startTime := s.clock.Now()
	var result SweepResult

	queued, queueErr := s.QueueExpiryNotifications(ctx)
	result.Queued = queued

	expired, expireErr := s.ExpirePowerUps(ctx)
	result.Expired = expired

	if err := errors.Join(queueErr, expireErr); err != nil {
		return result, err
	}

	logger.InfoCtx(ctx, "Sweep cycle completed",
		zap.Duration("duration", s.clock.Since(startTime)),
		zap.Int("expired", result.Expired),
		zap.Int("queued", result.Queued),
	)

	return result, nil
}

// ExpirePowerUps deactivates stale power-ups and publishes one expired event per creator
func (s *expirySweeper) ExpirePowerUps(ctx context.Context) (int, error) {
	now := s.clock.Now()

	expired, err := s.store.ExpirePowerUps(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire power-ups: %w", err)
	}
	if len(expired) == 0 {
		return 0, nil
	}

	logger.InfoCtx(ctx, "Power-ups expired", zap.Int("count", len(expired)))

	byCreator := make(map[string][]string)
	for _, p := range expired {
		byCreator[p.CreatorID] = append(byCreator[p.CreatorID], p.ID)
	}
	creatorIDs := make([]string, 0, len(byCreator))
	for creatorID := range byCreator {
		creatorIDs = append(creatorIDs, creatorID)
	}
	sort.Strings(creatorIDs)

	for _, creatorID := range creatorIDs {
		event := messaging.NewLifecycleEvent(domain.PowerUpLifecycleExpired, now)
		event.CreatorID = creatorID
		event.PowerUpIDs = byCreator[creatorID]
		s.publish(ctx, event)
	}

	return len(expired), nil
}

// QueueExpiryNotifications queues expiring-soon notifications and publishes a queued event
func (s *expirySweeper) QueueExpiryNotifications(ctx context.Context) (int, error) {
	now := s.clock.Now()

	notifications, err := s.store.QueueExpiryNotifications(ctx, store.QueueExpiryNotificationsInput{
		Now:          now,
		Lookahead:    s.config.NotificationWindow,
		DedupeWindow: s.config.DedupeWindow,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to queue expiry notifications: %w", err)
	}
	if len(notifications) == 0 {
		return 0, nil
	}

	logger.InfoCtx(ctx, "Expiry notifications queued", zap.Int("count", len(notifications)))

	event := messaging.NewLifecycleEvent(domain.PowerUpLifecycleNotificationQueued, now)
	event.UserIDs = notificationUserIDs(notifications)
	s.publish(ctx, event)

	return len(notifications), nil
}

func (s *expirySweeper) publish(ctx context.Context, event *domain.PowerUpLifecycleEvent) {
	if err := s.publisher.PublishLifecycleEvent(ctx, event); err != nil {
		logger.ErrorCtx(ctx, err,
			zap.String("message", "Failed to publish lifecycle event"),
			zap.String("subject", string(event.EventType)))
	}
}

func notificationUserIDs(notifications []schema.Notification) []string {
	userIDs := make([]string, 0, len(notifications))
	for _, n := range notifications {
		userIDs = append(userIDs, n.UserID)
	}
	return userIDs
}
