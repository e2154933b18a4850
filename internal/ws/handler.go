package ws

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/state"
)

type SnapshotReader interface {
	Get() state.Snapshot
}

// Handler upgrades the connection, greets the client with the current
// emotion and then streams updates from the hub.
func Handler(hub *Hub, current SnapshotReader) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		client := &Client{
			id:   uuid.NewString(),
			hub:  hub,
			conn: c,
			send: make(chan []byte, 256),
		}

		if current != nil {
			greeting, err := json.Marshal(Event{
				ID:        uuid.NewString(),
				Type:      EventConnected,
				Data:      NewEmotionPayload(current.Get()),
				Timestamp: time.Now(),
			})
			if err == nil {
				client.send <- greeting
			}
		}

		hub.register <- client

		go client.WritePump()
		client.ReadPump()
	})
}

func UpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}
