package schema

import "time"

// Role is the access role of an account
type Role string

const (
	RoleViewer  Role = "VIEWER"
	RoleCreator Role = "CREATOR"
	RoleAgency  Role = "AGENCY"
	RoleAdmin   Role = "ADMIN"
)

// User represents the users table - the underlying account behind creators and viewers
type User struct {
	// ID is the account identifier (uuid)
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// Email is the contact address, a placeholder for viewers captured from live gifts
	Email string `gorm:"column:email;not null;uniqueIndex;type:text"`
	// Handle is the platform handle, unique when present
	Handle *string `gorm:"column:handle;uniqueIndex;type:text"`
	// Role is the access role of the account
	Role Role `gorm:"column:role;not null;type:text"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
