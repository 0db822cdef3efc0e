package websocket

import (
	"context"
	"time"

	"github.com/agribid/auction-engine/internal/shared/logger"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Hub keeps the registry of live-feed subscribers grouped by lot id and
// broadcasts lot events to them. The feed is one-way: clients subscribe,
// the engine publishes.
type Hub struct {
	clients    map[string]map[*Client]bool
	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
}

// Client is one websocket subscription to a lot's feed.
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	// Buffered channel of outbound messages.
	Send  chan []byte
	LotID string
	ID    string
}

type Message struct {
	LotID string
	Data  []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run owns the client registry; it must be the only goroutine touching it.
func (h *Hub) Run(ctx context.Context) {
	log.Info("websocket hub started")
	for {
		select {
		case <-ctx.Done():
			log.Info("websocket hub shutting down")
			return

		case client := <-h.register:
			if _, ok := h.clients[client.LotID]; !ok {
				h.clients[client.LotID] = make(map[*Client]bool)
			}
			h.clients[client.LotID][client] = true
			log.Debug("client registered",
				zap.String("clientID", client.ID),
				zap.String("lotID", client.LotID),
			)

		case client := <-h.unregister:
			if clients, ok := h.clients[client.LotID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.Send)
					if len(clients) == 0 {
						delete(h.clients, client.LotID)
					}
					log.Debug("client unregistered",
						zap.String("clientID", client.ID),
						zap.String("lotID", client.LotID),
					)
				}
			}

		case message := <-h.broadcast:
			for client := range h.clients[message.LotID] {
				select {
				case client.Send <- message.Data:
				default:
					// client not draining, drop it
					close(client.Send)
					delete(h.clients[message.LotID], client)
					log.Warn("slow websocket client dropped",
						zap.String("clientID", client.ID),
						zap.String("lotID", client.LotID),
					)
				}
			}
		}
	}
}

// RegisterClient queues a client for registration.
func (h *Hub) RegisterClient(client *Client) {
	h.register <- client
}

// UnregisterClient queues a client for removal.
func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	default:
	}
}

// BroadcastToLot sends data to every subscriber of a lot. Non-blocking;
// drops the message when the hub is saturated.
func (h *Hub) BroadcastToLot(lotID string, data []byte) {
	select {
	case h.broadcast <- &Message{LotID: lotID, Data: data}:
	default:
		log.Warn("broadcast channel full, message dropped", zap.String("lotID", lotID))
	}
}

// ReadPump drains the connection until it closes, keeping pong handling
// alive. Inbound payloads are ignored; the feed is publish-only.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.UnregisterClient(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read error",
					zap.String("clientID", c.ID),
					zap.String("lotID", c.LotID),
					zap.Error(err),
				)
			}
			return
		}
	}
}

// WritePump pumps hub messages to the connection and keeps it alive with
// pings. One WritePump goroutine per connection is the only writer.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Hub.UnregisterClient(c)
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
