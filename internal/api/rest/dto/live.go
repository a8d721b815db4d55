package dto

import "github.com/toklytics/toklytics-live/internal/live"

// StartLiveTrackingRequest is the body of POST /api/v1/live/start
type StartLiveTrackingRequest struct {
	// TikTokUsername overrides the handle of the creator's account
	TikTokUsername string `json:"tiktokUsername"`
}

// StartLiveTrackingResponse is returned once the room handshake succeeded
type StartLiveTrackingResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Status  live.Status `json:"status"`
}

// StopLiveTrackingResponse is returned by POST /api/v1/live/stop
type StopLiveTrackingResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LiveTrackingStatusResponse is returned by GET /api/v1/live/status
type LiveTrackingStatusResponse struct {
	IsTracking bool   `json:"isTracking"`
	Username   string `json:"username,omitempty"`
	RoomID     string `json:"roomId,omitempty"`
	Message    string `json:"message,omitempty"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
}
