package schema

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationChannel is the delivery channel of a notification
type NotificationChannel string

const (
	NotificationChannelInApp NotificationChannel = "IN_APP"
	NotificationChannelEmail NotificationChannel = "EMAIL"
)

// NotificationKind is the kind of a notification
type NotificationKind string

const (
	// NotificationKindPowerUpExpiring is the digest of a creator's power-ups expiring soon
	NotificationKindPowerUpExpiring NotificationKind = "POWERUP_EXPIRING"
)

// NotificationStatus is the delivery status of a notification
type NotificationStatus string

const (
	NotificationStatusPending  NotificationStatus = "PENDING"
	NotificationStatusSent     NotificationStatus = "SENT"
	NotificationStatusFailed   NotificationStatus = "FAILED"
	NotificationStatusCanceled NotificationStatus = "CANCELED"
)

// Notification represents the notifications table - queued notifications addressed to an account
type Notification struct {
	ID        string              `gorm:"column:id;primaryKey;type:uuid"`
	UserID    string              `gorm:"column:user_id;not null;type:uuid;index:idx_notifications_dedupe,priority:1"`
	Channel   NotificationChannel `gorm:"column:channel;not null;type:text"`
	Kind      NotificationKind    `gorm:"column:kind;not null;type:text;index:idx_notifications_dedupe,priority:2"`
	Payload   datatypes.JSON      `gorm:"column:payload;not null;type:jsonb"`
	SendAt    time.Time           `gorm:"column:send_at;not null;type:timestamptz;index:idx_notifications_dedupe,priority:4"`
	Status    NotificationStatus  `gorm:"column:status;not null;default:PENDING;type:text;index:idx_notifications_dedupe,priority:3"`
	CreatedAt time.Time           `gorm:"column:created_at;not null;default:now();type:timestamptz"`

	// Associations
	User User `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}

// ExpiringPowerUp is one entry of a PowerUpExpiringPayload
type ExpiringPowerUp struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	ExpiresAt string `json:"expiresAt"`
}

// PowerUpExpiringPayload is the payload of a POWERUP_EXPIRING notification
type PowerUpExpiringPayload struct {
	CreatorID        string            `json:"creatorId"`
	CreatorName      string            `json:"creatorName"`
	ExpiringPowerUps []ExpiringPowerUp `json:"expiringPowerups"`
	ExpiresBefore    string            `json:"expiresBefore"`
}
