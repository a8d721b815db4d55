package sweeper_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toklytics/toklytics-live/internal/domain"
	"github.com/toklytics/toklytics-live/internal/mocks"
	"github.com/toklytics/toklytics-live/internal/store"
	"github.com/toklytics/toklytics-live/internal/store/schema"
	"github.com/toklytics/toklytics-live/internal/sweeper"
)

// testSweeperMocks contains all the mocks needed for testing the sweeper
type testSweeperMocks struct {
	ctrl      *gomock.Controller
	store     *mocks.MockStore
	publisher *mocks.MockPublisher
	clock     *mocks.MockClock
	sweeper   sweeper.ExpirySweeper
}

// setupTestSweeper creates all the mocks and sweeper for testing
func setupTestSweeper(t *testing.T) *testSweeperMocks {
	ctrl := gomock.NewController(t)

	tm := &testSweeperMocks{
		ctrl:      ctrl,
		store:     mocks.NewMockStore(ctrl),
		publisher: mocks.NewMockPublisher(ctrl),
		clock:     mocks.NewMockClock(ctrl),
	}

	tm.sweeper = sweeper.NewExpirySweeper(
		sweeper.ExpirySweeperConfig{},
		tm.store,
		tm.publisher,
		tm.clock,
	)

	return tm
}

func tearDownTestSweeper(mocks *testSweeperMocks) {
	mocks.ctrl.Finish()
}

// delayedAfter makes After fire after a brief delay so Stop can run between cycles
func delayedAfter(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	go func() {
		time.Sleep(50 * time.Millisecond)
		ch <- time.Now()
	}()
	return ch
}

// stopAfter stops the sweeper after d; the returned channel closes once Stop has returned
func stopAfter(ctx context.Context, s sweeper.ExpirySweeper, d time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		time.Sleep(d)
		_ = s.Stop(ctx)
	}()
	return done
}

func TestExpirySweeper_Name(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	assert.Equal(t, "powerup-expiry-sweeper", mocks.sweeper.Name())
}

func TestExpirySweeper_ExpirePowerUps_PublishesPerCreator(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	mocks.clock.EXPECT().Now().Return(now)

	mocks.store.EXPECT().
		ExpirePowerUps(gomock.Any(), now).
		Return([]schema.PowerUp{
			{ID: "p1", CreatorID: "creator-b"},
			{ID: "p2", CreatorID: "creator-a"},
			{ID: "p3", CreatorID: "creator-b"},
		}, nil)

	var published []*domain.PowerUpLifecycleEvent
	mocks.publisher.EXPECT().
		PublishLifecycleEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *domain.PowerUpLifecycleEvent) error {
			published = append(published, event)
			return nil
		}).
		Times(2)

	count, err := mocks.sweeper.ExpirePowerUps(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	require.Len(t, published, 2)
	assert.Equal(t, "creator-a", published[0].CreatorID)
	assert.Equal(t, []string{"p2"}, published[0].PowerUpIDs)
	assert.Equal(t, "creator-b", published[1].CreatorID)
	assert.Equal(t, []string{"p1", "p3"}, published[1].PowerUpIDs)
	for _, event := range published {
		assert.Equal(t, domain.PowerUpLifecycleExpired, event.EventType)
		assert.Equal(t, now, event.Timestamp)
		assert.NotEmpty(t, event.EventID)
	}
	assert.NotEqual(t, published[0].EventID, published[1].EventID)
}

func TestExpirySweeper_ExpirePowerUps_NothingExpired(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	now := time.Now()
	mocks.clock.EXPECT().Now().Return(now)
	mocks.store.EXPECT().ExpirePowerUps(gomock.Any(), now).Return(nil, nil)

	count, err := mocks.sweeper.ExpirePowerUps(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestExpirySweeper_ExpirePowerUps_StoreError(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	now := time.Now()
	mocks.clock.EXPECT().Now().Return(now)
	storeErr := errors.New("connection reset")
	mocks.store.EXPECT().ExpirePowerUps(gomock.Any(), now).Return(nil, storeErr)

	_, err := mocks.sweeper.ExpirePowerUps(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
}

func TestExpirySweeper_ExpirePowerUps_PublishFailureTolerated(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	now := time.Now()
	mocks.clock.EXPECT().Now().Return(now)
	mocks.store.EXPECT().
		ExpirePowerUps(gomock.Any(), now).
		Return([]schema.PowerUp{{ID: "p1", CreatorID: "creator-a"}}, nil)
	mocks.publisher.EXPECT().
		PublishLifecycleEvent(gomock.Any(), gomock.Any()).
		Return(errors.New("broker unavailable"))

	count, err := mocks.sweeper.ExpirePowerUps(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestExpirySweeper_QueueExpiryNotifications(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	mocks.clock.EXPECT().Now().Return(now)

	mocks.store.EXPECT().
		QueueExpiryNotifications(gomock.Any(), store.QueueExpiryNotificationsInput{
			Now:          now,
			Lookahead:    domain.EXPIRY_NOTIFICATION_LOOKAHEAD,
			DedupeWindow: domain.EXPIRY_NOTIFICATION_DEDUPE,
		}).
		Return([]schema.Notification{
			{ID: "n1", UserID: "user-1"},
			{ID: "n2", UserID: "user-2"},
		}, nil)

	mocks.publisher.EXPECT().
		PublishLifecycleEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *domain.PowerUpLifecycleEvent) error {
			assert.Equal(t, domain.PowerUpLifecycleNotificationQueued, event.EventType)
			assert.Equal(t, []string{"user-1", "user-2"}, event.UserIDs)
			return nil
		})

	count, err := mocks.sweeper.QueueExpiryNotifications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestExpirySweeper_QueueExpiryNotifications_CustomWindows(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	clock := mocks.NewMockClock(ctrl)
	s := sweeper.NewExpirySweeper(sweeper.ExpirySweeperConfig{
		NotificationWindow: 6 * time.Hour,
		DedupeWindow:       time.Hour,
	}, st, mocks.NewMockPublisher(ctrl), clock)

	now := time.Now()
	clock.EXPECT().Now().Return(now)
	st.EXPECT().
		QueueExpiryNotifications(gomock.Any(), store.QueueExpiryNotificationsInput{
			Now:          now,
			Lookahead:    6 * time.Hour,
			DedupeWindow: time.Hour,
		}).
		Return(nil, nil)

	count, err := s.QueueExpiryNotifications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestExpirySweeper_Sweep(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	now := time.Now()
	mocks.clock.EXPECT().Now().Return(now).AnyTimes()
	mocks.clock.EXPECT().Since(now).Return(time.Second)

	gomock.InOrder(
		mocks.store.EXPECT().
			QueueExpiryNotifications(gomock.Any(), gomock.Any()).
			Return([]schema.Notification{{ID: "n1", UserID: "user-1"}}, nil),
		mocks.publisher.EXPECT().
			PublishLifecycleEvent(gomock.Any(), gomock.Any()).
			Return(nil),
		mocks.store.EXPECT().
			ExpirePowerUps(gomock.Any(), now).
			Return([]schema.PowerUp{{ID: "p1", CreatorID: "creator-a"}}, nil),
		mocks.publisher.EXPECT().
			PublishLifecycleEvent(gomock.Any(), gomock.Any()).
			Return(nil),
	)

	result, err := mocks.sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sweeper.SweepResult{Expired: 1, Queued: 1}, result)
}

// A power-up that went stale since the last cycle is listed in the notification and then flipped
func TestExpirySweeper_Sweep_StalePowerUpNotifiedThenExpired(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	now := time.Now()
	staleID := "p-stale"
	active := map[string]bool{staleID: true}

	mocks.clock.EXPECT().Now().Return(now).AnyTimes()
	mocks.clock.EXPECT().Since(now).Return(time.Second)
	mocks.publisher.EXPECT().PublishLifecycleEvent(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	var listed []string
	mocks.store.EXPECT().
		QueueExpiryNotifications(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ store.QueueExpiryNotificationsInput) ([]schema.Notification, error) {
			// Only active power-ups are listed
			if !active[staleID] {
				return nil, nil
			}
			listed = append(listed, staleID)
			return []schema.Notification{{ID: "n1", UserID: "user-1"}}, nil
		})
	mocks.store.EXPECT().
		ExpirePowerUps(gomock.Any(), now).
		DoAndReturn(func(_ context.Context, _ time.Time) ([]schema.PowerUp, error) {
			active[staleID] = false
			return []schema.PowerUp{{ID: staleID, CreatorID: "creator-a"}}, nil
		})

	result, err := mocks.sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sweeper.SweepResult{Expired: 1, Queued: 1}, result)
	assert.Equal(t, []string{staleID}, listed)
	assert.False(t, active[staleID])
}

func TestExpirySweeper_Sweep_QueueErrorStillExpires(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	now := time.Now()
	mocks.clock.EXPECT().Now().Return(now).AnyTimes()
	mocks.store.EXPECT().
		QueueExpiryNotifications(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("deadlock detected"))
	mocks.store.EXPECT().
		ExpirePowerUps(gomock.Any(), now).
		Return([]schema.PowerUp{{ID: "p1", CreatorID: "creator-a"}}, nil)
	mocks.publisher.EXPECT().PublishLifecycleEvent(gomock.Any(), gomock.Any()).Return(nil)

	result, err := mocks.sweeper.Sweep(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to queue expiry notifications")
	assert.Equal(t, 1, result.Expired)
}

func TestExpirySweeper_Sweep_ExpireError(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	now := time.Now()
	mocks.clock.EXPECT().Now().Return(now).AnyTimes()
	mocks.store.EXPECT().QueueExpiryNotifications(gomock.Any(), gomock.Any()).Return(nil, nil)
	mocks.store.EXPECT().ExpirePowerUps(gomock.Any(), now).Return(nil, errors.New("connection reset"))

	_, err := mocks.sweeper.Sweep(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to expire power-ups")
}

func TestExpirySweeper_Start_RunsCycles(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	ctx := context.Background()
	now := time.Now()
	mocks.clock.EXPECT().Now().Return(now).AnyTimes()
	mocks.clock.EXPECT().Since(now).Return(time.Second).AnyTimes()
	mocks.clock.EXPECT().After(sweeper.SWEEP_CYCLE_INTERVAL).DoAndReturn(delayedAfter).AnyTimes()

	mocks.store.EXPECT().ExpirePowerUps(gomock.Any(), now).Return(nil, nil).MinTimes(1)
	mocks.store.EXPECT().QueueExpiryNotifications(gomock.Any(), gomock.Any()).Return(nil, nil).MinTimes(1)

	stopped := stopAfter(ctx, mocks.sweeper, 200*time.Millisecond)

	err := mocks.sweeper.Start(ctx)
	require.NoError(t, err)
	<-stopped
}

func TestExpirySweeper_Start_ErrorDoesNotStopLoop(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	ctx := context.Background()
	now := time.Now()
	mocks.clock.EXPECT().Now().Return(now).AnyTimes()
	mocks.clock.EXPECT().Since(now).Return(time.Second).AnyTimes()
	mocks.clock.EXPECT().After(gomock.Any()).DoAndReturn(delayedAfter).AnyTimes()

	gomock.InOrder(
		mocks.store.EXPECT().
			ExpirePowerUps(gomock.Any(), now).
			Return(nil, errors.New("connection refused")).
			Times(1),
		mocks.store.EXPECT().
			ExpirePowerUps(gomock.Any(), now).
			Return(nil, nil).
			MinTimes(1),
	)
	mocks.store.EXPECT().QueueExpiryNotifications(gomock.Any(), gomock.Any()).Return(nil, nil).MinTimes(1)

	stopped := stopAfter(ctx, mocks.sweeper, 200*time.Millisecond)

	err := mocks.sweeper.Start(ctx)
	require.NoError(t, err)
	<-stopped
}

func TestExpirySweeper_Start_ContextCanceled(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := mocks.sweeper.Start(ctx)
	require.NoError(t, err)
}

func TestExpirySweeper_StopBeforeStart(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	err := mocks.sweeper.Stop(context.Background())
	require.NoError(t, err)
}

func TestExpirySweeper_DoubleStart(t *testing.T) {
	mocks := setupTestSweeper(t)
	defer tearDownTestSweeper(mocks)

	ctx := context.Background()
	mocks.clock.EXPECT().Now().Return(time.Now()).AnyTimes()
	mocks.clock.EXPECT().Since(gomock.Any()).Return(time.Second).AnyTimes()
	mocks.clock.EXPECT().After(gomock.Any()).DoAndReturn(delayedAfter).AnyTimes()
	mocks.store.EXPECT().ExpirePowerUps(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	mocks.store.EXPECT().QueueExpiryNotifications(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	errChan := make(chan error, 1)
	go func() {
		errChan <- mocks.sweeper.Start(ctx)
	}()

	// Give first start time to begin
	time.Sleep(50 * time.Millisecond)

	err := mocks.sweeper.Start(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")

	_ = mocks.sweeper.Stop(ctx)
	<-errChan
}
