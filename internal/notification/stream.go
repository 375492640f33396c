package notification

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// StreamHub pushes freshly created notifications to connected websocket
// clients. Broadcast filters by recipient so a targeted notification only
// reaches its addressee.
type StreamHub struct {
	clients    map[*StreamClient]bool
	register   chan *StreamClient
	unregister chan *StreamClient
	outbound   chan *Notification
	stop       chan struct{}
	logger     *slog.Logger
	mu         sync.RWMutex
}

func NewStreamHub(logger *slog.Logger) *StreamHub {
	return &StreamHub{
		clients:    make(map[*StreamClient]bool),
		register:   make(chan *StreamClient),
		unregister: make(chan *StreamClient),
		outbound:   make(chan *Notification, 64),
		stop:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *StreamHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("notification stream client connected", "user_id", client.userID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("notification stream client disconnected", "user_id", client.userID)

		case n := <-h.outbound:
			data, err := json.Marshal(n)
			if err != nil {
				h.logger.Error("notification stream marshal failed", "error", err)
				continue
			}

			h.mu.RLock()
			for client := range h.clients {
				if !n.VisibleTo(client.userID) {
					continue
				}
				select {
				case client.send <- data:
				default:
					// Slow consumer, drop the message rather than block the hub.
					h.logger.Warn("notification stream client too slow, dropping message", "user_id", client.userID)
				}
			}
			h.mu.RUnlock()

		case <-h.stop:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *StreamHub) Stop() {
	close(h.stop)
}

// Broadcast implements Streamer.
func (h *StreamHub) Broadcast(n *Notification) {
	select {
	case h.outbound <- n:
	default:
		h.logger.Warn("notification stream backlog full, dropping message", "notification_id", n.ID)
	}
}

func (h *StreamHub) Register(client *StreamClient) {
	select {
	case h.register <- client:
	case <-h.stop:
		close(client.send)
	}
}

// unregisterClient hands the client back to the hub. After Stop the loop is
// gone, so the send selects against the closed stop channel instead of
// blocking forever.
func (h *StreamHub) unregisterClient(client *StreamClient) {
	select {
	case h.unregister <- client:
	case <-h.stop:
	}
}

// StreamClient is one websocket subscriber.
type StreamClient struct {
	hub    *StreamHub
	conn   *websocket.Conn
	send   chan []byte
	userID int64
}

func NewStreamClient(hub *StreamHub, conn *websocket.Conn, userID int64) *StreamClient {
	return &StreamClient{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 64),
		userID: userID,
	}
}

// ReadPump drains client frames. The stream is one-way; reads only serve to
// detect disconnects and answer pings.
func (c *StreamClient) ReadPump() {
	defer func() {
		c.hub.unregisterClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *StreamClient) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
