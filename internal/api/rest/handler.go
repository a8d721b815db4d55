package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/toklytics/toklytics-live/internal/api/middleware"
	"github.com/toklytics/toklytics-live/internal/api/rest/dto"
	"github.com/toklytics/toklytics-live/internal/domain"
	"github.com/toklytics/toklytics-live/internal/live"
	"github.com/toklytics/toklytics-live/internal/logger"
	"github.com/toklytics/toklytics-live/internal/store"
	"github.com/toklytics/toklytics-live/internal/store/schema"
)

// LiveTracker starts and stops live sessions; implemented by live.Manager
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api.go -package=mocks -mock_names=LiveTracker=MockLiveTracker,Handler=MockAPIHandler
type LiveTracker interface {
	StartTracking(ctx context.Context, username string, creatorID string, callbacks live.Callbacks) (live.Status, error)
	StopTracking(ctx context.Context, creatorID string) bool
	GetSession(creatorID string) (live.Status, bool)
}

// Handler defines the interface for REST API handlers
type Handler interface {
	// StartLiveTracking starts tracking the authenticated creator's live room
	// POST /api/v1/live/start
	StartLiveTracking(c *gin.Context)

	// StopLiveTracking stops tracking the authenticated creator's live room
	// POST /api/v1/live/stop
	StopLiveTracking(c *gin.Context)

	// GetLiveTrackingStatus returns the authenticated creator's tracking status
	// GET /api/v1/live/status
	GetLiveTrackingStatus(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

type handler struct {
	store   store.Store
	tracker LiveTracker
}

// NewHandler creates a new REST API handler
func NewHandler(st store.Store, tracker LiveTracker) Handler {
	return &handler{
		store:   st,
		tracker: tracker,
	}
}

// StartLiveTracking starts tracking the creator's room, replacing any running session
func (h *handler) StartLiveTracking(c *gin.Context) {
	creator, ok := h.authorizeCreator(c, "start")
	if !ok {
		return
	}

	var req dto.StartLiveTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	username := strings.TrimSpace(req.TikTokUsername)
	if username == "" && creator.User.Handle != nil {
		username = *creator.User.Handle
	}
	if strings.TrimPrefix(strings.TrimSpace(username), "@") == "" {
		respondBadRequest(c, "TikTok username is required")
		return
	}

	ctx := logger.WithFields(context.Background(),
		zap.String("creatorID", creator.ID),
		zap.String("username", username))

	status, err := h.tracker.StartTracking(c.Request.Context(), username, creator.ID, live.Callbacks{
		OnConnected: func(status live.Status) {
			logger.InfoCtx(ctx, "LIVE tracking started", zap.String("roomID", status.RoomID))
		},
		OnDisconnected: func() {
			logger.InfoCtx(ctx, "LIVE tracking stopped")
		},
		OnError: func(err error) {
			logger.ErrorCtx(ctx, err, zap.String("message", "LIVE tracking error"))
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidUsername):
			respondBadRequest(c, "TikTok username is required", err.Error())
		case errors.Is(err, domain.ErrLiveNotConfigured):
			respondServiceUnavailable(c, "LIVE tracking is not available", err.Error())
		case errors.Is(err, domain.ErrHandshakeFailed):
			respondBadGateway(c, "Failed to connect to the LIVE room", err.Error())
		default:
			respondInternalError(c, err, "Failed to start LIVE tracking", zap.String("creatorID", creator.ID))
		}
		return
	}

	c.JSON(http.StatusOK, dto.StartLiveTrackingResponse{
		Success: true,
		Message: "TikTok LIVE tracking started",
		Status:  status,
	})
}

// StopLiveTracking stops the creator's session; stopping an idle creator succeeds
func (h *handler) StopLiveTracking(c *gin.Context) {
	creator, ok := h.authorizeCreator(c, "stop")
	if !ok {
		return
	}

	h.tracker.StopTracking(c.Request.Context(), creator.ID)

	c.JSON(http.StatusOK, dto.StopLiveTrackingResponse{
		Success: true,
		Message: "TikTok LIVE tracking stopped",
	})
}

// GetLiveTrackingStatus returns the creator's session status
func (h *handler) GetLiveTrackingStatus(c *gin.Context) {
	creator, ok := h.authorizeCreator(c, "check")
	if !ok {
		return
	}

	status, found := h.tracker.GetSession(creator.ID)
	if !found {
		c.JSON(http.StatusOK, dto.LiveTrackingStatusResponse{
			IsTracking: false,
			Message:    "Not currently tracking",
		})
		return
	}

	c.JSON(http.StatusOK, dto.LiveTrackingStatusResponse{
		IsTracking: status.IsTracking,
		Username:   status.Username,
		RoomID:     status.RoomID,
	})
}

// HealthCheck reports the service and database health
func (h *handler) HealthCheck(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		logger.WarnCtx(c.Request.Context(), "Database ping failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{
			Status:   "unhealthy",
			Service:  "toklytics-live-tracker",
			Database: "unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:   "ok",
		Service:  "toklytics-live-tracker",
		Database: "ok",
	})
}

// authorizeCreator resolves the creator profile of the authenticated account.
// Writes the error response and returns false when the caller is not a creator.
func (h *handler) authorizeCreator(c *gin.Context, action string) (*schema.Creator, bool) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		respondUnauthorized(c, "Authentication required")
		return nil, false
	}

	if schema.Role(claims.Role) != schema.RoleCreator {
		respondForbidden(c, "Only creators can "+action+" LIVE tracking")
		return nil, false
	}

	creator, err := h.store.GetCreatorByUserID(c.Request.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrCreatorNotFound) {
			respondNotFound(c, "Creator profile not found")
			return nil, false
		}
		respondInternalError(c, err, "Failed to load creator profile", zap.String("userID", claims.Subject))
		return nil, false
	}

	return creator, true
}
