package schema

import (
	"time"

	"github.com/toklytics/toklytics-live/internal/domain"
)

// PowerUp represents the powerups table - a timed advantage held by a viewer on behalf of a creator
type PowerUp struct {
	// ID is the power-up identifier (uuid)
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// Type is the power-up kind
	Type domain.PowerUpType `gorm:"column:type;not null;type:text"`
	// HolderViewerID references the viewer holding the power-up
	HolderViewerID string `gorm:"column:holder_viewer_id;not null;type:uuid"`
	// CreatorID references the creator the power-up was awarded for
	CreatorID string `gorm:"column:creator_id;not null;type:uuid"`
	// AwardedAt is when the power-up was granted
	AwardedAt time.Time `gorm:"column:awarded_at;not null;type:timestamptz"`
	// ExpiryAt is when the power-up stops being valid, always after AwardedAt
	ExpiryAt time.Time `gorm:"column:expiry_at;not null;type:timestamptz;index:idx_powerups_active_expiry,priority:2"`
	// Source is the free-text provenance (e.g., tiktok_live_<room id>)
	Source string `gorm:"column:source;not null;type:text"`
	// Active is flipped to false exactly once, by the expiry sweep or an admin
	Active    bool      `gorm:"column:active;not null;default:true;index:idx_powerups_active_expiry,priority:1"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Holder  Viewer  `gorm:"foreignKey:HolderViewerID"`
	Creator Creator `gorm:"foreignKey:CreatorID"`
}

// TableName specifies the table name for the PowerUp model
func (PowerUp) TableName() string {
	return "powerups"
}
