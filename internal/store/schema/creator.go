package schema

import "time"

// Creator represents the creators table - a creator profile owned by one account
type Creator struct {
	ID          string    `gorm:"column:id;primaryKey;type:uuid"`
	UserID      string    `gorm:"column:user_id;not null;uniqueIndex;type:uuid"`
	DisplayName *string   `gorm:"column:display_name;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	User User `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the Creator model
func (Creator) TableName() string {
	return "creators"
}
