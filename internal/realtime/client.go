package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/anonto42/socialnet/backend/pkg/logger"
	"github.com/coder/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4 * 1024
	sendBufferSize = 256
)

// Client is one websocket connection. Connections are receive-only;
// inbound frames are read and dropped so control frames keep flowing.
type Client struct {
	Room        string
	ConnectedAt time.Time

	conn *websocket.Conn
	hub  *Hub
	send chan []byte

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, room string) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		Room:        room,
		ConnectedAt: time.Now(),
		conn:        conn,
		hub:         hub,
		send:        make(chan []byte, sendBufferSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// ReadPump blocks until the peer goes away
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	for {
		if _, _, err := c.conn.Read(c.ctx); err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && c.ctx.Err() == nil {
				logger.Log.Debug("Websocket read ended", zap.String("room", c.Room), zap.Error(err))
			}
			return
		}
	}
}

// WritePump forwards hub deliveries to the connection and keeps it alive
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.Close(websocket.StatusNormalClosure, "closing")
				return
			}
			ctx, cancel := context.WithTimeout(c.ctx, writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				logger.Log.Warn("Websocket write failed", zap.String("room", c.Room), zap.Error(err))
				return
			}
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(c.ctx, writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				logger.Log.Debug("Websocket ping failed", zap.String("room", c.Room), zap.Error(err))
				return
			}
		}
	}
}

// Close tears the connection down; safe to call more than once
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		_ = c.conn.Close(websocket.StatusGoingAway, "")
	})
}
