package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/toklytics/toklytics-live/internal/domain"
	"github.com/toklytics/toklytics-live/internal/logger"
	"github.com/toklytics/toklytics-live/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
// database/sql treats MaxOpenConns=0 as "unlimited", so zero always means "use the default" here.
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns <= 0 {
		maxOpenConns = 20
	}
	if maxIdleConns <= 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime <= 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime <= 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// Bound parameters per row for bulk statements
const (
	powerUpFields      = 10
	powerUpEventFields = 5
	notificationFields = 8
)

// calculateSafeBatchSize computes the batch size for bulk inserts that stays below
// PostgreSQL's limit of 65535 parameters per statement.
func calculateSafeBatchSize(totalRecords int, fieldsPerRecord int) int {
	const maxParams = 65535
	const totalHeadroom = 1000

	availableParams := maxParams - totalHeadroom
	safeBatchSize := max(availableParams/fieldsPerRecord, 1)

	if safeBatchSize > totalRecords {
		return max(totalRecords, 1)
	}

	return safeBatchSize
}

// chunkIDs splits ids into consecutive chunks of at most size elements
func chunkIDs(ids []string, size int) [][]string {
	if size < 1 {
		size = 1
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		chunks = append(chunks, ids[start:min(start+size, len(ids))])
	}
	return chunks
}

// Ping checks the database connection
func (s *pgStore) Ping(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// GetCreatorByUserID retrieves the creator profile of an account, with the account loaded
func (s *pgStore) GetCreatorByUserID(ctx context.Context, userID string) (*schema.Creator, error) {
	var creator schema.Creator
	err := s.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&creator).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no creator profile for user %s", domain.ErrCreatorNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get creator by user: %w", err)
	}
	return &creator, nil
}

// EnsureViewer returns the viewer keyed by the given TikTok handle, creating it when missing
func (s *pgStore) EnsureViewer(ctx context.Context, handle string, profilePictureURL string) (*schema.Viewer, error) {
	var viewer *schema.Viewer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := ensureViewer(tx, handle, profilePictureURL)
		if err != nil {
			return err
		}
		viewer = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return viewer, nil
}

// ensureViewer upserts the placeholder account and the viewer within the given transaction.
// Both inserts skip on conflict and re-read, so concurrent callers for the same handle
// converge on a single row.
func ensureViewer(tx *gorm.DB, handle string, profilePictureURL string) (*schema.Viewer, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, fmt.Errorf("%w: empty viewer handle", domain.ErrInvalidUsername)
	}

	var existing schema.Viewer
	err := tx.Where("tiktok_handle = ?", handle).First(&existing).Error
	if err == nil {
		if err := refreshProfilePicture(tx, &existing, profilePictureURL); err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get viewer: %w", err)
	}

	// 1. Create or get the placeholder account
	email := domain.ViewerPlaceholderEmail(handle)
	user := schema.User{
		ID:     uuid.NewString(),
		Email:  email,
		Handle: &handle,
		Role:   schema.RoleViewer,
	}
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Clauses(clause.Returning{Columns: []clause.Column{}}).
		Create(&user)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to create viewer account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Fresh destination: First adds the primary key of a populated struct as a condition
		var existingUser schema.User
		if err := tx.Where("handle = ?", handle).Or("email = ?", email).First(&existingUser).Error; err != nil {
			return nil, fmt.Errorf("failed to get existing viewer account: %w", err)
		}
		user = existingUser
	}

	// 2. Create or get the viewer linked to the account
	viewer := schema.Viewer{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		DisplayName:  handle,
		TikTokHandle: &handle,
	}
	if profilePictureURL != "" {
		viewer.ProfilePictureURL = &profilePictureURL
	}
	result = tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Clauses(clause.Returning{Columns: []clause.Column{}}).
		Create(&viewer)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to create viewer: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		logger.Info("Created new viewer", zap.String("handle", handle), zap.String("viewerID", viewer.ID))
		return &viewer, nil
	}

	var existingViewer schema.Viewer
	if err := tx.Where("tiktok_handle = ?", handle).Or("user_id = ?", user.ID).First(&existingViewer).Error; err != nil {
		return nil, fmt.Errorf("failed to get existing viewer: %w", err)
	}
	viewer = existingViewer

	// The account existed with a viewer that was never linked to a handle
	if viewer.TikTokHandle == nil {
		if err := tx.Model(&viewer).Update("tiktok_handle", handle).Error; err != nil {
			return nil, fmt.Errorf("failed to link viewer handle: %w", err)
		}
		viewer.TikTokHandle = &handle
	}

	if err := refreshProfilePicture(tx, &viewer, profilePictureURL); err != nil {
		return nil, err
	}

	return &viewer, nil
}

func refreshProfilePicture(tx *gorm.DB, viewer *schema.Viewer, profilePictureURL string) error {
	if profilePictureURL == "" {
		return nil
	}
	if viewer.ProfilePictureURL != nil && *viewer.ProfilePictureURL == profilePictureURL {
		return nil
	}
	if err := tx.Model(viewer).Update("profile_picture_url", profilePictureURL).Error; err != nil {
		return fmt.Errorf("failed to update viewer profile picture: %w", err)
	}
	viewer.ProfilePictureURL = &profilePictureURL
	return nil
}

// CreatePowerUpGrants resolves the viewer and writes one power-up plus one CREATED event per unit
func (s *pgStore) CreatePowerUpGrants(ctx context.Context, input CreatePowerUpGrantsInput) (*CreatePowerUpGrantsResult, error) {
	if !input.Type.Valid() {
		return nil, fmt.Errorf("invalid power-up type: %s", input.Type)
	}
	if input.Units < 1 {
		return nil, fmt.Errorf("invalid power-up units: %d", input.Units)
	}
	if !input.ExpiryAt.After(input.AwardedAt) {
		return nil, fmt.Errorf("expiry must be after award time: awarded=%s expiry=%s",
			input.AwardedAt.Format(time.RFC3339), input.ExpiryAt.Format(time.RFC3339))
	}

	metaJSON, err := json.Marshal(input.Meta)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal power-up event meta: %w", err)
	}

	var result CreatePowerUpGrantsResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Resolve the holder
		viewer, err := ensureViewer(tx, input.Handle, input.ProfilePictureURL)
		if err != nil {
			return err
		}
		result.Viewer = *viewer

		// 2. Create the power-ups
		powerUps := make([]schema.PowerUp, 0, input.Units)
		for range input.Units {
			powerUps = append(powerUps, schema.PowerUp{
				ID:             uuid.NewString(),
				Type:           input.Type,
				HolderViewerID: viewer.ID,
				CreatorID:      input.CreatorID,
				AwardedAt:      input.AwardedAt,
				ExpiryAt:       input.ExpiryAt,
				Source:         input.Source,
				Active:         true,
			})
		}
		if err := tx.Omit(clause.Associations).
			CreateInBatches(&powerUps, calculateSafeBatchSize(len(powerUps), powerUpFields)).Error; err != nil {
			return fmt.Errorf("failed to create power-ups: %w", err)
		}

		// 3. Create the CREATED events
		events := make([]schema.PowerUpEvent, 0, len(powerUps))
		for _, p := range powerUps {
			events = append(events, schema.PowerUpEvent{
				PowerUpID: p.ID,
				Kind:      schema.PowerUpEventKindCreated,
				At:        input.AwardedAt,
				Meta:      metaJSON,
			})
		}
		if err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "powerup_id"}, {Name: "kind"}},
				DoNothing: true,
			}).
			CreateInBatches(&events, calculateSafeBatchSize(len(events), powerUpEventFields)).Error; err != nil {
			return fmt.Errorf("failed to create power-up events: %w", err)
		}

		result.PowerUps = powerUps
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetPowerUpEvents retrieves the audit events of a power-up ordered by time
func (s *pgStore) GetPowerUpEvents(ctx context.Context, powerUpID string) ([]schema.PowerUpEvent, error) {
	var events []schema.PowerUpEvent
	err := s.db.WithContext(ctx).
		Where("powerup_id = ?", powerUpID).
		Order("at ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get power-up events: %w", err)
	}
	return events, nil
}

// ExpirePowerUps deactivates stale power-ups and records their EXPIRED events.
// Rows locked by a concurrent sweep are skipped and left to that sweep.
func (s *pgStore) ExpirePowerUps(ctx context.Context, now time.Time) ([]schema.PowerUp, error) {
	var expired []schema.PowerUp
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the stale power-ups
		var stale []schema.PowerUp
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("active = ? AND expiry_at <= ?", true, now).
			Order("expiry_at ASC").
			Find(&stale).Error; err != nil {
			return fmt.Errorf("failed to get stale power-ups: %w", err)
		}
		if len(stale) == 0 {
			return nil
		}

		ids := make([]string, 0, len(stale))
		for _, p := range stale {
			ids = append(ids, p.ID)
		}

		// 2. Flip them inactive, only ever from active
		var deactivated int64
		for _, chunk := range chunkIDs(ids, calculateSafeBatchSize(len(ids), 1)) {
			update := tx.Model(&schema.PowerUp{}).
				Where("id IN ? AND active = ?", chunk, true).
				Updates(map[string]interface{}{
					"active":     false,
					"updated_at": now,
				})
			if update.Error != nil {
				return fmt.Errorf("failed to deactivate power-ups: %w", update.Error)
			}
			deactivated += update.RowsAffected
		}
		if int(deactivated) != len(stale) {
			logger.Warn("Deactivated fewer power-ups than locked",
				zap.Int("locked", len(stale)),
				zap.Int64("deactivated", deactivated))
		}

		// 3. Record the EXPIRED events, skipping any already written
		events := make([]schema.PowerUpEvent, 0, len(stale))
		for _, p := range stale {
			events = append(events, schema.PowerUpEvent{
				PowerUpID: p.ID,
				Kind:      schema.PowerUpEventKindExpired,
				At:        now,
			})
		}
		batchSize := calculateSafeBatchSize(len(events), powerUpEventFields)
		if err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "powerup_id"}, {Name: "kind"}},
				DoNothing: true,
			}).
			CreateInBatches(&events, batchSize).Error; err != nil {
			return fmt.Errorf("failed to create expired events: %w", err)
		}

		for i := range stale {
			stale[i].Active = false
		}
		expired = stale
		return nil
	})
	if err != nil {
		return nil, err
	}

	return expired, nil
}

// expiringPowerUpRow is a power-up joined with its creator's owning account
type expiringPowerUpRow struct {
	ID          string
	Type        domain.PowerUpType
	ExpiryAt    time.Time
	CreatorID   string
	UserID      string
	DisplayName *string
}

// expiryDigest is the set of expiring power-ups addressed to one account
type expiryDigest struct {
	userID      string
	creatorID   string
	creatorName string
	powerUps    []expiringPowerUpRow
}

// QueueExpiryNotifications enqueues deduplicated expiring-soon notifications per owning account
func (s *pgStore) QueueExpiryNotifications(ctx context.Context, input QueueExpiryNotificationsInput) ([]schema.Notification, error) {
	threshold := input.Now.Add(input.Lookahead)
	dedupeSince := input.Now.Add(-input.DedupeWindow)

	// 1. Collect expiring power-ups with their owning account
	var rows []expiringPowerUpRow
	err := s.db.WithContext(ctx).
		Table("powerups").
		Select("powerups.id, powerups.type, powerups.expiry_at, powerups.creator_id, creators.user_id, creators.display_name").
		Joins("JOIN creators ON creators.id = powerups.creator_id").
		Where("powerups.active = ? AND powerups.expiry_at <= ?", true, threshold).
		Order("powerups.expiry_at ASC, powerups.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get expiring power-ups: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// 2. Group by account; rows are already sorted by soonest expiry
	digests := make(map[string]*expiryDigest)
	for _, row := range rows {
		d, ok := digests[row.UserID]
		if !ok {
			name := row.CreatorID
			if row.DisplayName != nil && *row.DisplayName != "" {
				name = *row.DisplayName
			}
			d = &expiryDigest{
				userID:      row.UserID,
				creatorID:   row.CreatorID,
				creatorName: name,
			}
			digests[row.UserID] = d
		}
		d.powerUps = append(d.powerUps, row)
	}

	userIDs := make([]string, 0, len(digests))
	for userID := range digests {
		userIDs = append(userIDs, userID)
	}
	// Fixed lock order across sweeps
	sort.Strings(userIDs)

	var queued []schema.Notification
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 3. Serialize with overlapping sweeps per account
		for _, userID := range userIDs {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "powerup_expiring:"+userID).Error; err != nil {
				return fmt.Errorf("failed to acquire notification lock: %w", err)
			}
		}

		// 4. Skip accounts notified recently
		skip := make(map[string]struct{})
		for _, chunk := range chunkIDs(userIDs, calculateSafeBatchSize(len(userIDs), 1)) {
			var notified []string
			if err := tx.Model(&schema.Notification{}).
				Where("user_id IN ? AND kind = ? AND status = ? AND send_at >= ?",
					chunk, schema.NotificationKindPowerUpExpiring, schema.NotificationStatusPending, dedupeSince).
				Distinct().
				Pluck("user_id", &notified).Error; err != nil {
				return fmt.Errorf("failed to get recent notifications: %w", err)
			}
			for _, userID := range notified {
				skip[userID] = struct{}{}
			}
		}

		// 5. Build and insert the notifications
		notifications := make([]schema.Notification, 0, len(userIDs))
		for _, userID := range userIDs {
			if _, ok := skip[userID]; ok {
				continue
			}
			d := digests[userID]

			payload := schema.PowerUpExpiringPayload{
				CreatorID:        d.creatorID,
				CreatorName:      d.creatorName,
				ExpiringPowerUps: make([]schema.ExpiringPowerUp, 0, len(d.powerUps)),
				ExpiresBefore:    threshold.UTC().Format(time.RFC3339Nano),
			}
			for _, p := range d.powerUps {
				payload.ExpiringPowerUps = append(payload.ExpiringPowerUps, schema.ExpiringPowerUp{
					ID:        p.ID,
					Type:      string(p.Type),
					ExpiresAt: p.ExpiryAt.UTC().Format(time.RFC3339Nano),
				})
			}
			payloadJSON, err := json.Marshal(payload)
			if err != nil {
				return fmt.Errorf("failed to marshal notification payload: %w", err)
			}

			notifications = append(notifications, schema.Notification{
				ID:      uuid.NewString(),
				UserID:  userID,
				Channel: schema.NotificationChannelInApp,
				Kind:    schema.NotificationKindPowerUpExpiring,
				Payload: payloadJSON,
				SendAt:  input.Now,
				Status:  schema.NotificationStatusPending,
			})
		}
		if len(notifications) == 0 {
			return nil
		}

		if err := tx.Omit(clause.Associations).
			CreateInBatches(&notifications, calculateSafeBatchSize(len(notifications), notificationFields)).Error; err != nil {
			return fmt.Errorf("failed to create notifications: %w", err)
		}

		queued = notifications
		return nil
	})
	if err != nil {
		return nil, err
	}

	return queued, nil
}
