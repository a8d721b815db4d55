package domain

import "time"

const (
	// Notification constants
	EXPIRY_NOTIFICATION_LOOKAHEAD = 24 * time.Hour
	EXPIRY_NOTIFICATION_DEDUPE    = 4 * time.Hour

	// Viewer placeholder email domain for viewers created from live gifts
	VIEWER_PLACEHOLDER_EMAIL_DOMAIN = "tiktok-viewer.placeholder"

	// Source tag prefix for power-ups captured from a live room
	LIVE_SOURCE_PREFIX = "tiktok_live_"
	UNKNOWN_ROOM_ID    = "unknown"
)
