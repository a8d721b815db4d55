package schema

import "time"

// Viewer represents the viewers table - a supporter identity linked 1:1 to an account
type Viewer struct {
	// ID is the viewer identifier (uuid)
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// UserID references the underlying account
	UserID string `gorm:"column:user_id;not null;uniqueIndex;type:uuid"`
	// DisplayName is shown on dashboards, the handle for viewers captured from live gifts
	DisplayName string `gorm:"column:display_name;not null;type:text"`
	// TikTokHandle is the platform handle the viewer is keyed by
	TikTokHandle *string `gorm:"column:tiktok_handle;uniqueIndex;type:text"`
	// ProfilePictureURL is the last known avatar of the viewer
	ProfilePictureURL *string   `gorm:"column:profile_picture_url;type:text"`
	CreatedAt         time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt         time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	User User `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the Viewer model
func (Viewer) TableName() string {
	return "viewers"
}
