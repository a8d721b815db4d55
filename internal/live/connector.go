package live

import (
	"context"

	"github.com/toklytics/toklytics-live/internal/domain"
)

// Connector opens live event stream connections to a creator's room.
// Implementations return errors wrapping domain.ErrLiveNotConfigured when no stream source is
// configured and domain.ErrHandshakeFailed when the room cannot be joined before ctx is done.
//
//go:generate mockgen -source=connector.go -destination=../mocks/live.go -package=mocks -mock_names=Connector=MockConnector,Connection=MockConnection,EventHandler=MockEventHandler
type Connector interface {
	Connect(ctx context.Context, username string, handler EventHandler) (Connection, error)
}

// Connection is an open event stream for one live room
type Connection interface {
	// RoomID returns the room joined during the handshake
	RoomID() string
	// Close closes the stream. No handler callbacks are delivered after Close returns.
	Close() error
}

// EventHandler receives what a connection observes
type EventHandler interface {
	// OnEvent delivers an inbound room event
	OnEvent(event domain.LiveEvent)
	// OnDisconnected reports that the stream ended without Close being called
	OnDisconnected(reason string)
	// OnError reports a stream error; the stream stays open
	OnError(err error)
}
