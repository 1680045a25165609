// internal/realtime/websocket.go
package realtime

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/utils"
)

// WebSocketConn keeps the websocket dependency out of hub.go.
type WebSocketConn struct {
	Conn *websocket.Conn
}

func NewWebSocketConn(c *websocket.Conn) *WebSocketConn {
	return &WebSocketConn{Conn: c}
}

// UserFinder resolves a token subject to a stored account.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (models.User, error)
}

// Upgrade authenticates the socket with ?token=<jwt> before the protocol
// switch; browsers cannot set an Authorization header on websockets. The
// subject must still exist, the same as on the REST routes.
func Upgrade(secret string, users UserFinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		claims, err := utils.ParseJWT(secret, c.Query("token"))
		if err != nil {
			return fiber.ErrUnauthorized
		}
		uid, err := uuid.Parse(claims.Subject)
		if err != nil {
			return fiber.ErrUnauthorized
		}
		user, err := users.FindByID(c.UserContext(), uid)
		if err != nil {
			return fiber.ErrUnauthorized
		}
		c.Locals("userId", user.ID)
		return c.Next()
	}
}

// Handler streams hub messages for the authenticated user until the client
// goes away.
func Handler(hub *Hub) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		userID, ok := c.Locals("userId").(uuid.UUID)
		if !ok {
			_ = c.Close()
			return
		}

		client := &Client{
			ID:     uuid.NewString(),
			UserID: userID,
			Conn:   NewWebSocketConn(c),
			Send:   make(chan []byte, 256),
		}
		hub.RegisterClient(client)
		defer hub.UnregisterClient(client)

		go func() {
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					slog.Debug("websocket write", "user", userID, "err", err)
					return
				}
			}
		}()

		// reads only keep the connection alive and notice disconnects
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	})
}
