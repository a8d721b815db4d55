package schema

import (
	"time"

	"gorm.io/datatypes"
)

// PowerUpEventKind is the kind of a power-up audit event
type PowerUpEventKind string

const (
	// PowerUpEventKindCreated is written once when the power-up is granted
	PowerUpEventKindCreated PowerUpEventKind = "CREATED"
	// PowerUpEventKindActivated is written when the holder uses the power-up in a battle
	PowerUpEventKindActivated PowerUpEventKind = "ACTIVATED"
	// PowerUpEventKindExpired is written once when the sweep deactivates the power-up
	PowerUpEventKindExpired PowerUpEventKind = "EXPIRED"
	// PowerUpEventKindConsumed is written when the power-up is used up
	PowerUpEventKindConsumed PowerUpEventKind = "CONSUMED"
)

// PowerUpEvent represents the powerup_events table - append-only audit log of power-up lifecycle
type PowerUpEvent struct {
	// ID is an auto-incrementing sequence number
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// PowerUpID references the power-up this event belongs to
	PowerUpID string `gorm:"column:powerup_id;not null;type:uuid;uniqueIndex:idx_powerup_events_powerup_kind,priority:1"`
	// Kind is the lifecycle step, unique per power-up
	Kind PowerUpEventKind `gorm:"column:kind;not null;type:text;uniqueIndex:idx_powerup_events_powerup_kind,priority:2"`
	// At is when the lifecycle step happened
	At time.Time `gorm:"column:at;not null;type:timestamptz"`
	// Meta holds the raw event context (gift name, room id, battle id, diamond count)
	Meta      datatypes.JSON `gorm:"column:meta;type:jsonb"`
	CreatedAt time.Time      `gorm:"column:created_at;not null;default:now();type:timestamptz"`

	// Associations
	PowerUp PowerUp `gorm:"foreignKey:PowerUpID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the PowerUpEvent model
func (PowerUpEvent) TableName() string {
	return "powerup_events"
}

// PowerUpCreatedMeta is the meta recorded on a CREATED event captured from a live gift
type PowerUpCreatedMeta struct {
	TikTokUsername string  `json:"tiktok_username"`
	GiftName       string  `json:"gift_name"`
	RoomID         string  `json:"room_id,omitempty"`
	BattleID       *string `json:"battle_id"`
	GiftID         int64   `json:"gift_id"`
	DiamondCount   int64   `json:"diamond_count"`
}
