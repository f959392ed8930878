package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/anonto42/socialnet/backend/internal/metrics"
	"github.com/anonto42/socialnet/backend/pkg/logger"
	"go.uber.org/zap"
)

const presenceTimeout = 2 * time.Second

// PresenceTracker is told when a room gains its first or loses its last
// connection on this instance
type PresenceTracker interface {
	SetOnline(ctx context.Context, room string, online bool) error
}

// Presence answers whether a room currently has a live connection
type Presence interface {
	IsOnline(ctx context.Context, room string) (bool, error)
}

// Hub keeps the connections of this instance grouped by room and delivers
// events to them. It implements Publisher for local delivery.
type Hub struct {
	rooms map[string]map[*Client]struct{}

	// joins and leaves share a channel so a leave never overtakes its join
	membership chan membershipChange
	deliver    chan delivery

	mu sync.RWMutex

	metrics  *Metrics
	presence PresenceTracker
	// applied in order by a single worker so a leave never lands before its join
	presenceUpdates chan presenceUpdate

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

type membershipChange struct {
	client *Client
	join   bool
}

type presenceUpdate struct {
	room   string
	online bool
}

type delivery struct {
	room string
	data []byte
}

// Metrics tracks websocket statistics
type Metrics struct {
	TotalConnections   atomic.Int64
	ActiveConnections  atomic.Int64
	MessagesSent       atomic.Int64
	ConnectionsDropped atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of Metrics
type MetricsSnapshot struct {
	TotalConnections   int64 `json:"total_connections"`
	ActiveConnections  int64 `json:"active_connections"`
	MessagesSent       int64 `json:"messages_sent"`
	ConnectionsDropped int64 `json:"connections_dropped"`
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		membership: make(chan membershipChange, 256),
		deliver:    make(chan delivery, 1024),

		presenceUpdates: make(chan presenceUpdate, 256),
		metrics:    &Metrics{},
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

// SetPresenceTracker must be called before Run
func (h *Hub) SetPresenceTracker(p PresenceTracker) {
	h.presence = p
}

// Run is the hub's event loop; it returns after Shutdown
func (h *Hub) Run() {
	defer close(h.done)
	logger.Log.Info("WebSocket hub started")

	presenceDone := make(chan struct{})
	go h.runPresence(presenceDone)

	for {
		select {
		case <-h.ctx.Done():
			h.closeAll()
			close(h.presenceUpdates)
			<-presenceDone
			logger.Log.Info("WebSocket hub stopped")
			return
		case m := <-h.membership:
			if m.join {
				h.registerClient(m.client)
			} else {
				h.unregisterClient(m.client)
			}
		case d := <-h.deliver:
			h.deliverToRoom(d)
		}
	}
}

// Publish queues an event for every local connection in room
func (h *Hub) Publish(ctx context.Context, room string, event Event) error {
	if h.ctx.Err() != nil {
		return errors.New("hub is shut down")
	}
	data, err := json.Marshal(Envelope{Type: EventNotification, Payload: event})
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	select {
	case h.deliver <- delivery{room: room, data: data}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.ctx.Done():
		return errors.New("hub is shut down")
	}
}

// Register reports false once the hub is shut down
func (h *Hub) Register(c *Client) bool {
	if h.ctx.Err() != nil {
		return false
	}
	select {
	case h.membership <- membershipChange{client: c, join: true}:
		return true
	case <-h.ctx.Done():
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.membership <- membershipChange{client: c}:
	case <-h.ctx.Done():
	}
}

func (h *Hub) registerClient(c *Client) {
	h.mu.Lock()
	clients, ok := h.rooms[c.Room]
	if !ok {
		clients = make(map[*Client]struct{})
		h.rooms[c.Room] = clients
	}
	clients[c] = struct{}{}
	h.mu.Unlock()

	h.metrics.TotalConnections.Add(1)
	h.metrics.ActiveConnections.Add(1)
	metrics.WebsocketConnections.Inc()
	if !ok {
		h.notifyPresence(c.Room, true)
	}
	logger.Log.Debug("Client connected", zap.String("room", c.Room), zap.Int64("active", h.metrics.ActiveConnections.Load()))
}

func (h *Hub) unregisterClient(c *Client) {
	h.mu.Lock()
	clients, ok := h.rooms[c.Room]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, member := clients[c]; !member {
		h.mu.Unlock()
		return
	}
	delete(clients, c)
	emptied := len(clients) == 0
	if emptied {
		delete(h.rooms, c.Room)
	}
	close(c.send)
	h.mu.Unlock()

	h.metrics.ActiveConnections.Add(-1)
	metrics.WebsocketConnections.Dec()
	if emptied {
		h.notifyPresence(c.Room, false)
	}
	logger.Log.Debug("Client disconnected", zap.String("room", c.Room), zap.Int64("active", h.metrics.ActiveConnections.Load()))
}

func (h *Hub) deliverToRoom(d delivery) {
	var slow []*Client

	h.mu.RLock()
	for c := range h.rooms[d.room] {
		select {
		case c.send <- d.data:
			h.metrics.MessagesSent.Add(1)
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.metrics.ConnectionsDropped.Add(1)
		h.unregisterClient(c)
	}
}

// notifyPresence is only called from the event loop
func (h *Hub) notifyPresence(room string, online bool) {
	if h.presence == nil {
		return
	}
	h.presenceUpdates <- presenceUpdate{room: room, online: online}
}

func (h *Hub) runPresence(done chan<- struct{}) {
	defer close(done)
	for u := range h.presenceUpdates {
		ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
		err := h.presence.SetOnline(ctx, u.room, u.online)
		cancel()
		if err != nil {
			logger.Log.Warn("Presence update failed", zap.String("room", u.room), zap.Error(err))
		}
	}
}

// IsOnline reports whether room has a connection on this instance
func (h *Hub) IsOnline(_ context.Context, room string) (bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room]) > 0, nil
}

func (h *Hub) Metrics() MetricsSnapshot {
	return MetricsSnapshot{
		TotalConnections:   h.metrics.TotalConnections.Load(),
		ActiveConnections:  h.metrics.ActiveConnections.Load(),
		MessagesSent:       h.metrics.MessagesSent.Load(),
		ConnectionsDropped: h.metrics.ConnectionsDropped.Load(),
	}
}

// Shutdown stops the event loop and closes every connection
func (h *Hub) Shutdown(ctx context.Context) error {
	h.cancel()
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("hub shutdown: %w", ctx.Err())
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room, clients := range h.rooms {
		for c := range clients {
			close(c.send)
			h.metrics.ActiveConnections.Add(-1)
			metrics.WebsocketConnections.Dec()
		}
		delete(h.rooms, room)
		h.notifyPresence(room, false)
	}
}
