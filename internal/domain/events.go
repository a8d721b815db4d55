package domain

import (
	"encoding/json"
	"time"
)

// LiveEventType identifies an inbound live stream event
type LiveEventType string

const (
	LiveEventTypeGift   LiveEventType = "gift"
	LiveEventTypeBattle LiveEventType = "battle"
	LiveEventTypeChat   LiveEventType = "chat"
	LiveEventTypeMember LiveEventType = "member"
)

// GiftEvent is a gift notification from a live room
type GiftEvent struct {
	GiftName          string `json:"giftName"`
	UniqueID          string `json:"uniqueId"`
	RepeatCount       int    `json:"repeatCount"`
	RepeatEnd         bool   `json:"repeatEnd"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
	GiftID            int64  `json:"giftId"`
	DiamondCount      int64  `json:"diamondCount"`
}

// UnmarshalJSON decodes a gift event. A missing repeatEnd marks a single, non-streak gift
// and is treated as terminal.
func (e *GiftEvent) UnmarshalJSON(data []byte) error {
	type wire GiftEvent
	aux := struct {
		*wire
		RepeatEnd *bool `json:"repeatEnd"`
	}{wire: (*wire)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.RepeatEnd = aux.RepeatEnd == nil || *aux.RepeatEnd
	return nil
}

// Units returns the number of power-ups a terminal gift event awards
func (e GiftEvent) Units() int {
	if e.RepeatCount < 1 {
		return 1
	}
	return e.RepeatCount
}

// BattleUser is a participant of a link-mic battle
type BattleUser struct {
	UniqueID string `json:"uniqueId"`
	Nickname string `json:"nickname,omitempty"`
}

// BattleEvent signals that a link-mic battle started in a live room
type BattleEvent struct {
	BattleUsers []BattleUser `json:"battleUsers"`
}

// ChatEvent is a chat comment in a live room
type ChatEvent struct {
	UniqueID string `json:"uniqueId"`
	Comment  string `json:"comment"`
}

// MemberEvent signals that a viewer joined a live room
type MemberEvent struct {
	UniqueID string `json:"uniqueId"`
}

// LiveEvent is a single inbound event queued for a live session.
// Exactly one of the payload fields is set, matching Type.
type LiveEvent struct {
	Type   LiveEventType
	Gift   *GiftEvent
	Battle *BattleEvent
	Chat   *ChatEvent
	Member *MemberEvent
}

// LiveContext is the live room state attached to power-ups created from a gift
type LiveContext struct {
	CreatorID string
	RoomID    string
	BattleID  *string
}

// PowerUpLifecycleEventType is the subject suffix of a published lifecycle event
type PowerUpLifecycleEventType string

const (
	PowerUpLifecycleCreated            PowerUpLifecycleEventType = "powerups.created"
	PowerUpLifecycleExpired            PowerUpLifecycleEventType = "powerups.expired"
	PowerUpLifecycleNotificationQueued PowerUpLifecycleEventType = "notifications.queued"
)

// PowerUpLifecycleEvent is published after power-up state changes are committed
type PowerUpLifecycleEvent struct {
	EventID    string                    `json:"event_id"`
	EventType  PowerUpLifecycleEventType `json:"event_type"`
	CreatorID  string                    `json:"creator_id,omitempty"`
	UserIDs    []string                  `json:"user_ids,omitempty"`
	PowerUpIDs []string                  `json:"powerup_ids,omitempty"`
	Type       PowerUpType               `json:"type,omitempty"`
	Holder     string                    `json:"holder,omitempty"`
	RoomID     string                    `json:"room_id,omitempty"`
	Timestamp  time.Time                 `json:"timestamp"`
}
