package store

import (
	"context"
	"time"

	"github.com/toklytics/toklytics-live/internal/domain"
	"github.com/toklytics/toklytics-live/internal/store/schema"
)

//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore

// Store defines the interface for database operations
type Store interface {
	// Ping checks the database connection
	Ping(ctx context.Context) error

	// GetCreatorByUserID retrieves the creator profile owned by an account, with the account preloaded
	GetCreatorByUserID(ctx context.Context, userID string) (*schema.Creator, error)

	// EnsureViewer returns the viewer keyed by the given TikTok handle, creating the placeholder
	// account and viewer on first sight. Safe to call concurrently for the same handle.
	// CreatePowerUpGrants runs the same resolution inside its own transaction.
	EnsureViewer(ctx context.Context, handle string, profilePictureURL string) (*schema.Viewer, error)

	// CreatePowerUpGrants resolves the viewer and creates one power-up with its CREATED event per unit,
	// all in a single transaction
	CreatePowerUpGrants(ctx context.Context, input CreatePowerUpGrantsInput) (*CreatePowerUpGrantsResult, error)

	// GetPowerUpEvents retrieves the audit events of a power-up ordered by time.
	// Read-only audit access; the ingestion and sweep paths never read events back.
	GetPowerUpEvents(ctx context.Context, powerUpID string) ([]schema.PowerUpEvent, error)

	// ExpirePowerUps deactivates every active power-up whose expiry is at or before now and records
	// an EXPIRED event for each. Returns the power-ups actually flipped by this call.
	ExpirePowerUps(ctx context.Context, now time.Time) ([]schema.PowerUp, error)

	// QueueExpiryNotifications enqueues one PENDING expiring-soon notification per owning account
	// that has active power-ups expiring within the lookahead and no recent pending notification.
	QueueExpiryNotifications(ctx context.Context, input QueueExpiryNotificationsInput) ([]schema.Notification, error)
}

// CreatePowerUpGrantsInput represents the input for persisting the power-ups of a classified gift
type CreatePowerUpGrantsInput struct {
	// Handle is the TikTok handle of the gifting viewer
	Handle string
	// ProfilePictureURL is the viewer avatar reported with the gift, optional
	ProfilePictureURL string
	CreatorID         string
	Type              domain.PowerUpType
	// Units is the number of power-ups to create, at least 1
	Units     int
	AwardedAt time.Time
	ExpiryAt  time.Time
	Source    string
	Meta      schema.PowerUpCreatedMeta
}

// CreatePowerUpGrantsResult represents the rows written for a gift
type CreatePowerUpGrantsResult struct {
	Viewer   schema.Viewer
	PowerUps []schema.PowerUp
}

// QueueExpiryNotificationsInput represents the input for queueing expiring-soon notifications
type QueueExpiryNotificationsInput struct {
	Now time.Time
	// Lookahead is how far ahead of Now an expiry counts as "soon"
	Lookahead time.Duration
	// DedupeWindow skips users with a PENDING notification sent within this window before Now
	DedupeWindow time.Duration
}
