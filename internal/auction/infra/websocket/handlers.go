package websocket

import (
	sharedws "github.com/agribid/auction-engine/internal/shared/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// RegisterRoutes mounts the live lot feed at /ws/lots/:id.
func RegisterRoutes(app *fiber.App, hub *sharedws.Hub) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/lots/:id", websocket.New(func(conn *websocket.Conn) {
		client := &sharedws.Client{
			Hub:   hub,
			Conn:  conn,
			Send:  make(chan []byte, 16),
			LotID: conn.Params("id"),
			ID:    uuid.NewString(),
		}
		hub.RegisterClient(client)

		go client.WritePump()
		// blocks until the peer disconnects; the handler must not return
		// earlier or fiber closes the connection
		client.ReadPump()
	}))
}
