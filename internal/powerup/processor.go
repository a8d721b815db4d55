package powerup

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/toklytics/toklytics-live/internal/adapter"
	"github.com/toklytics/toklytics-live/internal/domain"
	"github.com/toklytics/toklytics-live/internal/logger"
	"github.com/toklytics/toklytics-live/internal/messaging"
	"github.com/toklytics/toklytics-live/internal/store"
	"github.com/toklytics/toklytics-live/internal/store/schema"
)

// Processor classifies live events and persists the resulting power-ups
//
//go:generate mockgen -source=processor.go -destination=../mocks/processor.go -package=mocks -mock_names=Processor=MockProcessor
type Processor interface {
	// HandleGift classifies a gift event and persists one power-up per unit.
	// Returns a nil result without error for streak updates and untracked gifts.
	HandleGift(ctx context.Context, live domain.LiveContext, gift domain.GiftEvent) (*GiftResult, error)

	// HandleBattle returns the identifier of the battle that just started
	HandleBattle(ctx context.Context, live domain.LiveContext, battle domain.BattleEvent) string
}

// GiftResult describes the power-ups created for a gift
type GiftResult struct {
	Type       domain.PowerUpType
	ViewerID   string
	PowerUpIDs []string
}

type processor struct {
	store     store.Store
	publisher messaging.Publisher
	clock     adapter.Clock
	gifts     *domain.GiftTable
}

// NewProcessor creates a new power-up processor
func NewProcessor(st store.Store, publisher messaging.Publisher, clock adapter.Clock) Processor {
	return &processor{
		store:     st,
		publisher: publisher,
		clock:     clock,
		gifts:     domain.NewGiftTable(),
	}
}

// HandleGift classifies a gift event and persists one power-up per unit
func (p *processor) HandleGift(ctx context.Context, live domain.LiveContext, gift domain.GiftEvent) (*GiftResult, error) {
	handle := strings.TrimSpace(gift.UniqueID)

	logger.DebugCtx(ctx, "Gift received",
		zap.String("creatorID", live.CreatorID),
		zap.String("handle", handle),
		zap.String("gift", gift.GiftName),
		zap.Int("repeatCount", gift.RepeatCount),
		zap.Bool("repeatEnd", gift.RepeatEnd))

	// Streaks are only counted once, on the terminal event
	if !gift.RepeatEnd {
		return nil, nil
	}

	powerUpType, ok := p.gifts.Lookup(gift.GiftName)
	if !ok {
		logger.DebugCtx(ctx, "Gift is not a tracked power-up", zap.String("gift", gift.GiftName))
		return nil, nil
	}

	if handle == "" {
		return nil, fmt.Errorf("%w: gift %s has no sender", domain.ErrInvalidUsername, gift.GiftName)
	}

	units := gift.Units()
	awardedAt := p.clock.Now()
	expiryAt := powerUpType.ExpiryAt(awardedAt)

	result, err := p.store.CreatePowerUpGrants(ctx, store.CreatePowerUpGrantsInput{
		Handle:            handle,
		ProfilePictureURL: gift.ProfilePictureURL,
		CreatorID:         live.CreatorID,
		Type:              powerUpType,
		Units:             units,
		AwardedAt:         awardedAt,
		ExpiryAt:          expiryAt,
		Source:            domain.LiveSource(live.RoomID),
		Meta: schema.PowerUpCreatedMeta{
			TikTokUsername: handle,
			GiftName:       gift.GiftName,
			RoomID:         live.RoomID,
			BattleID:       live.BattleID,
			GiftID:         gift.GiftID,
			DiamondCount:   gift.DiamondCount,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create power-ups for gift %s from %s: %w", gift.GiftName, handle, err)
	}

	ids := make([]string, 0, len(result.PowerUps))
	for _, pu := range result.PowerUps {
		ids = append(ids, pu.ID)
	}

	logger.InfoCtx(ctx, "Created power-ups",
		zap.String("creatorID", live.CreatorID),
		zap.String("handle", handle),
		zap.String("type", string(powerUpType)),
		zap.Int("units", units))

	event := messaging.NewLifecycleEvent(domain.PowerUpLifecycleCreated, awardedAt)
	event.CreatorID = live.CreatorID
	event.PowerUpIDs = ids
	event.Type = powerUpType
	event.Holder = handle
	event.RoomID = live.RoomID
	if err := p.publisher.PublishLifecycleEvent(ctx, event); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to publish power-up created event"))
	}

	return &GiftResult{
		Type:       powerUpType,
		ViewerID:   result.Viewer.ID,
		PowerUpIDs: ids,
	}, nil
}

// HandleBattle returns a fresh battle identifier and logs the participants
func (p *processor) HandleBattle(ctx context.Context, live domain.LiveContext, battle domain.BattleEvent) string {
	battleID := fmt.Sprintf("battle_%d", p.clock.Now().UnixMilli())

	participants := make([]string, 0, len(battle.BattleUsers))
	for _, u := range battle.BattleUsers {
		participants = append(participants, u.UniqueID)
	}

	logger.InfoCtx(ctx, "Battle started",
		zap.String("creatorID", live.CreatorID),
		zap.String("battleID", battleID),
		zap.String("participants", strings.Join(participants, " VS ")))

	return battleID
}
