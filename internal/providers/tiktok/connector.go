package tiktok

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/philippseith/signalr"
	"go.uber.org/zap"

	"github.com/toklytics/toklytics-live/internal/adapter"
	"github.com/toklytics/toklytics-live/internal/domain"
	"github.com/toklytics/toklytics-live/internal/live"
	"github.com/toklytics/toklytics-live/internal/logger"
)

const (
	// Relay hub methods
	METHOD_TRACK_ROOM   = "TrackRoom"
	METHOD_UNTRACK_ROOM = "UntrackRoom"
)

// Config holds the configuration for the TikTok LIVE relay
type Config struct {
	// RelayURL is the SignalR hub of the webcast relay, empty when live tracking is disabled
	RelayURL string
}

// RoomState is the room joined by TrackRoom
type RoomState struct {
	RoomID string `json:"roomId"`
}

type connector struct {
	config  Config
	signalR adapter.SignalR
	json    adapter.JSON
}

// NewConnector creates a live connector backed by the webcast relay hub
func NewConnector(cfg Config, signalR adapter.SignalR, jsonAdapter adapter.JSON) live.Connector {
	return &connector{
		config:  cfg,
		signalR: signalR,
		json:    jsonAdapter,
	}
}

// Connect opens a relay connection and asks the relay to join the username's live room.
// The handshake is bounded by ctx; the connection itself outlives it.
func (c *connector) Connect(ctx context.Context, username string, handler live.EventHandler) (live.Connection, error) {
	if c.config.RelayURL == "" {
		return nil, domain.ErrLiveNotConfigured
	}

	clientCtx, cancel := context.WithCancel(context.Background())
	rcv := &receiver{
		ctx:      logger.WithFields(clientCtx, zap.String("username", username)),
		username: username,
		handler:  handler,
		json:     c.json,
	}

	client, err := c.signalR.NewClient(clientCtx, c.config.RelayURL, rcv)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: failed to create relay client: %w", domain.ErrHandshakeFailed, err)
	}

	fail := func(err error) (live.Connection, error) {
		rcv.closed.Store(true)
		client.Stop()
		cancel()
		return nil, err
	}

	// Connect to the relay hub
	client.Start()
	if err := <-client.WaitForState(ctx, signalr.ClientConnected); err != nil {
		return fail(fmt.Errorf("%w: relay not reachable: %w", domain.ErrHandshakeFailed, err))
	}

	// Join the room
	var result signalr.InvokeResult
	select {
	case result = <-client.Invoke(METHOD_TRACK_ROOM, username):
	case <-ctx.Done():
		return fail(fmt.Errorf("%w: timeout joining room of @%s: %w", domain.ErrHandshakeFailed, username, ctx.Err()))
	}
	if result.Error != nil {
		return fail(fmt.Errorf("%w: relay rejected @%s: %w", domain.ErrHandshakeFailed, username, result.Error))
	}

	var state RoomState
	if result.Value != nil {
		if err := c.decode(result.Value, &state); err != nil {
			return fail(fmt.Errorf("%w: invalid room state: %w", domain.ErrHandshakeFailed, err))
		}
	}

	conn := &connection{
		client:   client,
		cancel:   cancel,
		receiver: rcv,
		username: username,
		roomID:   state.RoomID,
	}

	// Report the relay connection itself going away
	go conn.watch(clientCtx)

	logger.InfoCtx(rcv.ctx, "Joined live room", zap.String("roomID", state.RoomID))

	return conn, nil
}

func (c *connector) decode(value interface{}, v interface{}) error {
	data, err := c.json.Marshal(value)
	if err != nil {
		return err
	}
	return c.json.Unmarshal(data, v)
}

type connection struct {
	client   adapter.SignalRClient
	cancel   context.CancelFunc
	receiver *receiver
	username string
	roomID   string
	once     sync.Once
}

// RoomID returns the room joined during the handshake
func (c *connection) RoomID() string {
	return c.roomID
}

// Close leaves the room and closes the relay connection
func (c *connection) Close() error {
	c.once.Do(func() {
		c.receiver.closed.Store(true)
		// Best effort: the relay also drops the room when the connection closes
		c.client.Send(METHOD_UNTRACK_ROOM, c.username)
		c.client.Stop()
		c.cancel()
	})
	return nil
}

func (c *connection) watch(ctx context.Context) {
	err := <-c.client.WaitForState(ctx, signalr.ClientClosed)
	if err != nil || c.receiver.closed.Load() {
		// Context canceled by Close
		return
	}
	c.receiver.disconnected("relay connection closed")
}

// receiver handles the relay hub targets.
// Method names must match the SignalR target names (connected, disconnected, error, gift, battle, chat, member).
type receiver struct {
	ctx      context.Context
	username string
	handler  live.EventHandler
	json     adapter.JSON
	closed   atomic.Bool
	lost     atomic.Bool
}

// DisconnectInfo is the payload of the disconnected target
type DisconnectInfo struct {
	Code   int    `json:"code"`
	Reason string `json:"reason"`
}

// ErrorInfo is the payload of the error target
type ErrorInfo struct {
	Message string `json:"message"`
}

func (r *receiver) decode(target string, data interface{}, v interface{}) bool {
	jsonData, err := r.json.Marshal(data)
	if err != nil {
		logger.ErrorCtx(r.ctx, fmt.Errorf("error marshaling %s data: %w", target, err))
		return false
	}
	if err := r.json.Unmarshal(jsonData, v); err != nil {
		logger.ErrorCtx(r.ctx, fmt.Errorf("error unmarshaling %s data: %w", target, err))
		return false
	}
	return true
}

func (r *receiver) deliver(event domain.LiveEvent) {
	if r.closed.Load() || r.lost.Load() {
		return
	}
	r.handler.OnEvent(event)
}

func (r *receiver) disconnected(reason string) {
	if r.closed.Load() || !r.lost.CompareAndSwap(false, true) {
		return
	}
	r.handler.OnDisconnected(reason)
}

// Connected handles the relay confirming the room websocket is up
func (r *receiver) Connected(data interface{}) {
	var state RoomState
	if r.decode("connected", data, &state) {
		logger.DebugCtx(r.ctx, "Relay connected to room", zap.String("roomID", state.RoomID))
	}
}

// Disconnected handles the room stream ending, e.g. the LIVE ended
func (r *receiver) Disconnected(data interface{}) {
	var info DisconnectInfo
	r.decode("disconnected", data, &info)
	r.disconnected(fmt.Sprintf("%s (code: %d)", info.Reason, info.Code))
}

// Error handles a stream error reported by the relay
func (r *receiver) Error(data interface{}) {
	if r.closed.Load() || r.lost.Load() {
		return
	}
	var info ErrorInfo
	if !r.decode("error", data, &info) || info.Message == "" {
		info.Message = "unknown relay error"
	}
	r.handler.OnError(errors.New(info.Message))
}

// Gift handles gift events
func (r *receiver) Gift(data interface{}) {
	var gift domain.GiftEvent
	if !r.decode("gift", data, &gift) {
		return
	}
	r.deliver(domain.LiveEvent{Type: domain.LiveEventTypeGift, Gift: &gift})
}

// Battle handles link-mic battle events
func (r *receiver) Battle(data interface{}) {
	var battle domain.BattleEvent
	if !r.decode("battle", data, &battle) {
		return
	}
	r.deliver(domain.LiveEvent{Type: domain.LiveEventTypeBattle, Battle: &battle})
}

// Chat handles chat comments
func (r *receiver) Chat(data interface{}) {
	var chat domain.ChatEvent
	if !r.decode("chat", data, &chat) {
		return
	}
	r.deliver(domain.LiveEvent{Type: domain.LiveEventTypeChat, Chat: &chat})
}

// Member handles viewers joining the room
func (r *receiver) Member(data interface{}) {
	var member domain.MemberEvent
	if !r.decode("member", data, &member) {
		return
	}
	r.deliver(domain.LiveEvent{Type: domain.LiveEventTypeMember, Member: &member})
}
