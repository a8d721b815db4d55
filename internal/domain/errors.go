package domain

import "errors"

var (
	// ErrLiveNotConfigured is returned when the live relay is not configured for this deployment
	ErrLiveNotConfigured = errors.New("live tracking not configured")

	// ErrHandshakeFailed is returned when the live stream connection handshake is rejected or times out
	ErrHandshakeFailed = errors.New("live stream handshake failed")

	// ErrInvalidUsername is returned when a tracking request carries no usable username
	ErrInvalidUsername = errors.New("invalid tiktok username")

	// ErrInvalidCreatorID is returned when a tracking request carries no creator id
	ErrInvalidCreatorID = errors.New("invalid creator id")

	// ErrCreatorNotFound is returned when a creator profile does not exist
	ErrCreatorNotFound = errors.New("creator not found")
)
