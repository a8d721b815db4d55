package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/toklytics/toklytics-live/internal/domain"
	"github.com/toklytics/toklytics-live/internal/store/schema"
)

// =============================================================================
// Test Data Builders
// =============================================================================

// seedCreator creates an owning account and its creator profile
func seedCreator(t *testing.T, db *gorm.DB, displayName string) *schema.Creator {
	t.Helper()

	handle := "creator_" + uuid.NewString()[:8]
	user := schema.User{
		ID:     uuid.NewString(),
		Email:  handle + "@example.com",
		Handle: &handle,
		Role:   schema.RoleCreator,
	}
	require.NoError(t, db.Create(&user).Error)

	creator := schema.Creator{
		ID:     uuid.NewString(),
		UserID: user.ID,
	}
	if displayName != "" {
		creator.DisplayName = &displayName
	}
	require.NoError(t, db.Omit("User").Create(&creator).Error)

	return &creator
}

// buildTestGrants creates a grants input for a gift awarded at awardedAt
func buildTestGrants(creatorID, handle string, puType domain.PowerUpType, units int, awardedAt time.Time) CreatePowerUpGrantsInput {
	battleID := "battle_1700000000000"
	return CreatePowerUpGrantsInput{
		Handle:            handle,
		ProfilePictureURL: "https://p16.tiktokcdn.com/" + handle + ".jpg",
		CreatorID:         creatorID,
		Type:              puType,
		Units:             units,
		AwardedAt:         awardedAt,
		ExpiryAt:          puType.ExpiryAt(awardedAt),
		Source:            domain.LiveSource("7291234567890"),
		Meta: schema.PowerUpCreatedMeta{
			TikTokUsername: handle,
			GiftName:       "Magic Mist",
			RoomID:         "7291234567890",
			BattleID:       &battleID,
			GiftID:         5655,
			DiamondCount:   1,
		},
	}
}

func testNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// =============================================================================
// Tests
// =============================================================================

func testPing(t *testing.T, store Store, _ *gorm.DB) {
	require.NoError(t, store.Ping(context.Background()))
}

func testGetCreatorByUserID(t *testing.T, store Store, db *gorm.DB) {
	ctx := context.Background()

	t.Run("by owning account", func(t *testing.T) {
		seeded := seedCreator(t, db, "")

		creator, err := store.GetCreatorByUserID(ctx, seeded.UserID)
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, creator.ID)
		assert.Nil(t, creator.DisplayName)
		assert.Equal(t, seeded.UserID, creator.User.ID)
		require.NotNil(t, creator.User.Handle)
		assert.Contains(t, *creator.User.Handle, "creator_")
	})

	t.Run("display name is loaded", func(t *testing.T) {
		seeded := seedCreator(t, db, "Alice Live")

		creator, err := store.GetCreatorByUserID(ctx, seeded.UserID)
		require.NoError(t, err)
		require.NotNil(t, creator.DisplayName)
		assert.Equal(t, "Alice Live", *creator.DisplayName)
	})

	t.Run("account without creator profile", func(t *testing.T) {
		_, err := store.GetCreatorByUserID(ctx, uuid.NewString())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrCreatorNotFound)
	})
}

func testEnsureViewer(t *testing.T, store Store, db *gorm.DB) {
	ctx := context.Background()

	t.Run("creates placeholder account and viewer on first sight", func(t *testing.T) {
		viewer, err := store.EnsureViewer(ctx, "gifter_one", "https://cdn.example.com/a.jpg")
		require.NoError(t, err)
		require.NotNil(t, viewer)
		require.NotNil(t, viewer.TikTokHandle)
		assert.Equal(t, "gifter_one", *viewer.TikTokHandle)
		assert.Equal(t, "gifter_one", viewer.DisplayName)
		require.NotNil(t, viewer.ProfilePictureURL)
		assert.Equal(t, "https://cdn.example.com/a.jpg", *viewer.ProfilePictureURL)

		var user schema.User
		require.NoError(t, db.Where("id = ?", viewer.UserID).First(&user).Error)
		assert.Equal(t, "gifter_one@tiktok-viewer.placeholder", user.Email)
		assert.Equal(t, schema.RoleViewer, user.Role)
	})

	t.Run("repeated calls return the same viewer", func(t *testing.T) {
		first, err := store.EnsureViewer(ctx, "gifter_two", "")
		require.NoError(t, err)

		second, err := store.EnsureViewer(ctx, "gifter_two", "https://cdn.example.com/b.jpg")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.UserID, second.UserID)
		require.NotNil(t, second.ProfilePictureURL)
		assert.Equal(t, "https://cdn.example.com/b.jpg", *second.ProfilePictureURL)

		var count int64
		require.NoError(t, db.Model(&schema.Viewer{}).Where("tiktok_handle = ?", "gifter_two").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("reuses an existing account with the same handle", func(t *testing.T) {
		handle := "already_registered"
		user := schema.User{
			ID:     uuid.NewString(),
			Email:  "real@example.com",
			Handle: &handle,
			Role:   schema.RoleViewer,
		}
		require.NoError(t, db.Create(&user).Error)

		viewer, err := store.EnsureViewer(ctx, handle, "")
		require.NoError(t, err)
		assert.Equal(t, user.ID, viewer.UserID)
	})

	t.Run("empty handle", func(t *testing.T) {
		_, err := store.EnsureViewer(ctx, "  ", "")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidUsername)
	})
}

func testCreatePowerUpGrants(t *testing.T, store Store, db *gorm.DB) {
	ctx := context.Background()
	creator := seedCreator(t, db, "Grant Creator")

	t.Run("creates one power-up and one CREATED event per unit", func(t *testing.T) {
		awardedAt := testNow()
		input := buildTestGrants(creator.ID, "streak_gifter", domain.PowerUpTypeMagicMist, 3, awardedAt)

		result, err := store.CreatePowerUpGrants(ctx, input)
		require.NoError(t, err)
		require.Len(t, result.PowerUps, 3)
		require.NotNil(t, result.Viewer.TikTokHandle)
		assert.Equal(t, "streak_gifter", *result.Viewer.TikTokHandle)

		var powerUps []schema.PowerUp
		require.NoError(t, db.Where("creator_id = ?", creator.ID).Find(&powerUps).Error)
		require.Len(t, powerUps, 3)
		for _, p := range powerUps {
			assert.Equal(t, domain.PowerUpTypeMagicMist, p.Type)
			assert.Equal(t, result.Viewer.ID, p.HolderViewerID)
			assert.True(t, p.Active)
			assert.Equal(t, "tiktok_live_7291234567890", p.Source)
			assert.True(t, p.AwardedAt.Equal(awardedAt))
			assert.True(t, p.ExpiryAt.Equal(awardedAt.Add(48*time.Hour)))

			events, err := store.GetPowerUpEvents(ctx, p.ID)
			require.NoError(t, err)
			require.Len(t, events, 1)
			assert.Equal(t, schema.PowerUpEventKindCreated, events[0].Kind)
			assert.True(t, events[0].At.Equal(awardedAt))

			var meta map[string]interface{}
			require.NoError(t, json.Unmarshal(events[0].Meta, &meta))
			assert.Equal(t, "streak_gifter", meta["tiktok_username"])
			assert.Equal(t, "Magic Mist", meta["gift_name"])
			assert.Equal(t, "7291234567890", meta["room_id"])
			assert.Equal(t, "battle_1700000000000", meta["battle_id"])
			assert.Equal(t, float64(5655), meta["gift_id"])
			assert.Equal(t, float64(1), meta["diamond_count"])
		}
	})

	t.Run("null battle id is recorded", func(t *testing.T) {
		input := buildTestGrants(creator.ID, "solo_gifter", domain.PowerUpTypeGlove, 1, testNow())
		input.Meta.BattleID = nil

		result, err := store.CreatePowerUpGrants(ctx, input)
		require.NoError(t, err)
		require.Len(t, result.PowerUps, 1)

		events, err := store.GetPowerUpEvents(ctx, result.PowerUps[0].ID)
		require.NoError(t, err)
		require.Len(t, events, 1)

		var meta map[string]interface{}
		require.NoError(t, json.Unmarshal(events[0].Meta, &meta))
		v, ok := meta["battle_id"]
		assert.True(t, ok)
		assert.Nil(t, v)
	})

	t.Run("invalid inputs write nothing", func(t *testing.T) {
		now := testNow()

		zeroUnits := buildTestGrants(creator.ID, "bad_gifter", domain.PowerUpTypeGlove, 0, now)
		_, err := store.CreatePowerUpGrants(ctx, zeroUnits)
		require.Error(t, err)

		badExpiry := buildTestGrants(creator.ID, "bad_gifter", domain.PowerUpTypeGlove, 1, now)
		badExpiry.ExpiryAt = now
		_, err = store.CreatePowerUpGrants(ctx, badExpiry)
		require.Error(t, err)

		badType := buildTestGrants(creator.ID, "bad_gifter", domain.PowerUpType("ROSE"), 1, now)
		_, err = store.CreatePowerUpGrants(ctx, badType)
		require.Error(t, err)

		var count int64
		require.NoError(t, db.Model(&schema.Viewer{}).Where("tiktok_handle = ?", "bad_gifter").Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})

	t.Run("unknown creator rolls back the viewer", func(t *testing.T) {
		input := buildTestGrants(uuid.NewString(), "orphan_gifter", domain.PowerUpTypeGlove, 1, testNow())

		_, err := store.CreatePowerUpGrants(ctx, input)
		require.Error(t, err)

		var count int64
		require.NoError(t, db.Model(&schema.Viewer{}).Where("tiktok_handle = ?", "orphan_gifter").Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})
}

func testExpirePowerUps(t *testing.T, store Store, db *gorm.DB) {
	ctx := context.Background()
	creator := seedCreator(t, db, "Expiry Creator")
	now := testNow()

	// Awarded 50h ago: 24h types are stale, 72h types are not
	stale, err := store.CreatePowerUpGrants(ctx,
		buildTestGrants(creator.ID, "old_gifter", domain.PowerUpTypeNo2Booster, 2, now.Add(-50*time.Hour)))
	require.NoError(t, err)
	fresh, err := store.CreatePowerUpGrants(ctx,
		buildTestGrants(creator.ID, "old_gifter", domain.PowerUpTypeStunHammer, 1, now.Add(-50*time.Hour)))
	require.NoError(t, err)

	t.Run("flips stale power-ups and records EXPIRED events", func(t *testing.T) {
		expired, err := store.ExpirePowerUps(ctx, now)
		require.NoError(t, err)
		require.Len(t, expired, 2)

		for _, p := range stale.PowerUps {
			var got schema.PowerUp
			require.NoError(t, db.Where("id = ?", p.ID).First(&got).Error)
			assert.False(t, got.Active)

			events, err := store.GetPowerUpEvents(ctx, p.ID)
			require.NoError(t, err)
			require.Len(t, events, 2)
			assert.Equal(t, schema.PowerUpEventKindCreated, events[0].Kind)
			assert.Equal(t, schema.PowerUpEventKindExpired, events[1].Kind)
			assert.True(t, events[1].At.Equal(now))
		}

		var got schema.PowerUp
		require.NoError(t, db.Where("id = ?", fresh.PowerUps[0].ID).First(&got).Error)
		assert.True(t, got.Active)
	})

	t.Run("second run finds nothing", func(t *testing.T) {
		expired, err := store.ExpirePowerUps(ctx, now)
		require.NoError(t, err)
		assert.Empty(t, expired)

		for _, p := range stale.PowerUps {
			events, err := store.GetPowerUpEvents(ctx, p.ID)
			require.NoError(t, err)
			assert.Len(t, events, 2)
		}
	})

	t.Run("expiry exactly at now counts as stale", func(t *testing.T) {
		edge, err := store.CreatePowerUpGrants(ctx,
			buildTestGrants(creator.ID, "edge_gifter", domain.PowerUpTypeTimeMaker, 1, now.Add(-24*time.Hour)))
		require.NoError(t, err)

		expired, err := store.ExpirePowerUps(ctx, now)
		require.NoError(t, err)
		require.Len(t, expired, 1)
		assert.Equal(t, edge.PowerUps[0].ID, expired[0].ID)
		assert.False(t, expired[0].Active)
	})

	t.Run("inactive power-ups cannot be reactivated", func(t *testing.T) {
		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Model(&schema.PowerUp{}).
				Where("id = ?", stale.PowerUps[0].ID).
				Update("active", true).Error
		})
		require.Error(t, err)
	})
}

func testQueueExpiryNotifications(t *testing.T, store Store, db *gorm.DB) {
	ctx := context.Background()
	now := testNow()
	input := QueueExpiryNotificationsInput{
		Now:          now,
		Lookahead:    domain.EXPIRY_NOTIFICATION_LOOKAHEAD,
		DedupeWindow: domain.EXPIRY_NOTIFICATION_DEDUPE,
	}

	alice := seedCreator(t, db, "Alice")
	bob := seedCreator(t, db, "")
	carol := seedCreator(t, db, "Carol")

	// Alice: TIME_MAKER awarded 20h ago expires in 4h, NO2 awarded 10h ago expires in 14h,
	// STUN_HAMMER expires in 72h and is outside the lookahead
	later, err := store.CreatePowerUpGrants(ctx,
		buildTestGrants(alice.ID, "fan_a", domain.PowerUpTypeNo2Booster, 1, now.Add(-10*time.Hour)))
	require.NoError(t, err)
	sooner, err := store.CreatePowerUpGrants(ctx,
		buildTestGrants(alice.ID, "fan_b", domain.PowerUpTypeTimeMaker, 1, now.Add(-20*time.Hour)))
	require.NoError(t, err)
	_, err = store.CreatePowerUpGrants(ctx,
		buildTestGrants(alice.ID, "fan_a", domain.PowerUpTypeStunHammer, 1, now))
	require.NoError(t, err)

	// Bob: one power-up in the window and no display name
	bobs, err := store.CreatePowerUpGrants(ctx,
		buildTestGrants(bob.ID, "fan_c", domain.PowerUpTypeGlove, 1, now.Add(-30*time.Hour)))
	require.NoError(t, err)

	// Carol: in the window but already notified 1h ago
	_, err = store.CreatePowerUpGrants(ctx,
		buildTestGrants(carol.ID, "fan_d", domain.PowerUpTypeGlove, 1, now.Add(-30*time.Hour)))
	require.NoError(t, err)
	recent := schema.Notification{
		ID:      uuid.NewString(),
		UserID:  carol.UserID,
		Channel: schema.NotificationChannelInApp,
		Kind:    schema.NotificationKindPowerUpExpiring,
		Payload: []byte(`{}`),
		SendAt:  now.Add(-1 * time.Hour),
		Status:  schema.NotificationStatusPending,
	}
	require.NoError(t, db.Omit("User").Create(&recent).Error)

	t.Run("queues one digest per owning account", func(t *testing.T) {
		queued, err := store.QueueExpiryNotifications(ctx, input)
		require.NoError(t, err)
		require.Len(t, queued, 2)

		byUser := make(map[string]schema.Notification)
		for _, n := range queued {
			byUser[n.UserID] = n
			assert.Equal(t, schema.NotificationChannelInApp, n.Channel)
			assert.Equal(t, schema.NotificationKindPowerUpExpiring, n.Kind)
			assert.Equal(t, schema.NotificationStatusPending, n.Status)
			assert.True(t, n.SendAt.Equal(now))
		}
		require.Contains(t, byUser, alice.UserID)
		require.Contains(t, byUser, bob.UserID)
		assert.NotContains(t, byUser, carol.UserID)

		var payload schema.PowerUpExpiringPayload
		require.NoError(t, json.Unmarshal(byUser[alice.UserID].Payload, &payload))
		assert.Equal(t, alice.ID, payload.CreatorID)
		assert.Equal(t, "Alice", payload.CreatorName)
		assert.Equal(t, now.Add(24*time.Hour).UTC().Format(time.RFC3339Nano), payload.ExpiresBefore)
		require.Len(t, payload.ExpiringPowerUps, 2)
		assert.Equal(t, sooner.PowerUps[0].ID, payload.ExpiringPowerUps[0].ID)
		assert.Equal(t, "TIME_MAKER", payload.ExpiringPowerUps[0].Type)
		assert.Equal(t, later.PowerUps[0].ID, payload.ExpiringPowerUps[1].ID)

		var bobPayload schema.PowerUpExpiringPayload
		require.NoError(t, json.Unmarshal(byUser[bob.UserID].Payload, &bobPayload))
		assert.Equal(t, bob.ID, bobPayload.CreatorName)
		require.Len(t, bobPayload.ExpiringPowerUps, 1)
		assert.Equal(t, bobs.PowerUps[0].ID, bobPayload.ExpiringPowerUps[0].ID)
	})

	t.Run("does not double-queue within the dedupe window", func(t *testing.T) {
		queued, err := store.QueueExpiryNotifications(ctx, input)
		require.NoError(t, err)
		assert.Empty(t, queued)
	})

	t.Run("requeues once the dedupe window has passed", func(t *testing.T) {
		later := input
		later.Now = now.Add(5 * time.Hour)

		queued, err := store.QueueExpiryNotifications(ctx, later)
		require.NoError(t, err)
		// Carol's notification is now 6h old; Alice and Bob were queued 5h ago
		assert.Len(t, queued, 3)
	})

	t.Run("nothing expiring", func(t *testing.T) {
		quiet := input
		quiet.Now = now.Add(-72 * time.Hour)

		queued, err := store.QueueExpiryNotifications(ctx, quiet)
		require.NoError(t, err)
		assert.Empty(t, queued)
	})
}

// testSweepStalePowerUp runs a sweep pass in the order the sweeper uses: queue, then expire
func testSweepStalePowerUp(t *testing.T, store Store, db *gorm.DB) {
	ctx := context.Background()
	now := testNow()
	creator := seedCreator(t, db, "Stale Creator")

	// TIME_MAKER awarded 24h1m ago expired one minute ago
	grant, err := store.CreatePowerUpGrants(ctx,
		buildTestGrants(creator.ID, "late_gifter", domain.PowerUpTypeTimeMaker, 1, now.Add(-24*time.Hour-time.Minute)))
	require.NoError(t, err)
	powerUpID := grant.PowerUps[0].ID

	sweep := func() ([]schema.Notification, []schema.PowerUp) {
		queued, err := store.QueueExpiryNotifications(ctx, QueueExpiryNotificationsInput{
			Now:          now,
			Lookahead:    domain.EXPIRY_NOTIFICATION_LOOKAHEAD,
			DedupeWindow: domain.EXPIRY_NOTIFICATION_DEDUPE,
		})
		require.NoError(t, err)
		expired, err := store.ExpirePowerUps(ctx, now)
		require.NoError(t, err)
		return queued, expired
	}

	queued, expired := sweep()

	require.Len(t, expired, 1)
	assert.Equal(t, powerUpID, expired[0].ID)

	var got schema.PowerUp
	require.NoError(t, db.Where("id = ?", powerUpID).First(&got).Error)
	assert.False(t, got.Active)

	var expiredEvents int64
	require.NoError(t, db.Model(&schema.PowerUpEvent{}).
		Where("powerup_id = ? AND kind = ?", powerUpID, schema.PowerUpEventKindExpired).
		Count(&expiredEvents).Error)
	assert.Equal(t, int64(1), expiredEvents)

	require.Len(t, queued, 1)
	assert.Equal(t, creator.UserID, queued[0].UserID)
	assert.Equal(t, schema.NotificationStatusPending, queued[0].Status)

	var payload schema.PowerUpExpiringPayload
	require.NoError(t, json.Unmarshal(queued[0].Payload, &payload))
	require.Len(t, payload.ExpiringPowerUps, 1)
	assert.Equal(t, powerUpID, payload.ExpiringPowerUps[0].ID)

	var pending int64
	require.NoError(t, db.Model(&schema.Notification{}).
		Where("user_id = ? AND status = ?", creator.UserID, schema.NotificationStatusPending).
		Count(&pending).Error)
	assert.Equal(t, int64(1), pending)

	// The next pass finds nothing to do
	queued, expired = sweep()
	assert.Empty(t, queued)
	assert.Empty(t, expired)
}

// testLargeGrant writes and expires more rows than fit in one statement's parameters
func testLargeGrant(t *testing.T, store Store, db *gorm.DB) {
	ctx := context.Background()
	now := testNow()
	creator := seedCreator(t, db, "Whale Creator")

	const units = 7000
	result, err := store.CreatePowerUpGrants(ctx,
		buildTestGrants(creator.ID, "whale_gifter", domain.PowerUpTypeGlove, units, now.Add(-49*time.Hour)))
	require.NoError(t, err)
	require.Len(t, result.PowerUps, units)

	var created int64
	require.NoError(t, db.Model(&schema.PowerUpEvent{}).
		Joins("JOIN powerups ON powerups.id = powerup_events.powerup_id").
		Where("powerups.creator_id = ? AND powerup_events.kind = ?", creator.ID, schema.PowerUpEventKindCreated).
		Count(&created).Error)
	assert.Equal(t, int64(units), created)

	expired, err := store.ExpirePowerUps(ctx, now)
	require.NoError(t, err)
	assert.Len(t, expired, units)

	var stillActive int64
	require.NoError(t, db.Model(&schema.PowerUp{}).
		Where("creator_id = ? AND active = ?", creator.ID, true).
		Count(&stillActive).Error)
	assert.Equal(t, int64(0), stillActive)
}

// RunStoreTests runs all store tests against an implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) (Store, *gorm.DB)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store, *gorm.DB)
	}{
		{"Ping", testPing},
		{"GetCreatorByUserID", testGetCreatorByUserID},
		{"EnsureViewer", testEnsureViewer},
		{"CreatePowerUpGrants", testCreatePowerUpGrants},
		{"ExpirePowerUps", testExpirePowerUps},
		{"QueueExpiryNotifications", testQueueExpiryNotifications},
		{"SweepStalePowerUp", testSweepStalePowerUp},
		{"LargeGrant", testLargeGrant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, db := initDB(t)
			tt.fn(t, store, db)
		})
	}
}

func TestChunkIDs(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}

	tests := []struct {
		name string
		size int
		want [][]string
	}{
		{"exact fit", 5, [][]string{{"a", "b", "c", "d", "e"}}},
		{"uneven tail", 2, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}},
		{"larger than input", 10, [][]string{{"a", "b", "c", "d", "e"}}},
		{"zero size falls back to one", 0, [][]string{{"a"}, {"b"}, {"c"}, {"d"}, {"e"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chunkIDs(ids, tt.size))
		})
	}

	assert.Empty(t, chunkIDs(nil, 3))
}

func TestCalculateSafeBatchSize(t *testing.T) {
	// 7000 power-ups at 10 parameters each must be split
	batch := calculateSafeBatchSize(7000, powerUpFields)
	assert.Less(t, batch, 7000)
	assert.LessOrEqual(t, batch*powerUpFields, 65535)

	assert.Equal(t, 3, calculateSafeBatchSize(3, powerUpFields))
	assert.Equal(t, 1, calculateSafeBatchSize(0, powerUpFields))
}
