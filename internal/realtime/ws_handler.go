package realtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/blockconnect/backend/internal/config"
	"github.com/blockconnect/backend/internal/dto"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// UpgradeGuard authenticates the websocket handshake. Browsers cannot
// set an Authorization header on WS connections, so the access token
// arrives as a query param.
func UpgradeGuard(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		raw := c.Query("token")
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Missing token",
			})
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid or expired token",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid claims",
			})
		}

		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid subject",
			})
		}

		blockRaw, _ := claims["block_space_id"].(string)
		blockSpaceID, err := uuid.Parse(blockRaw)
		if err != nil || blockSpaceID == uuid.Nil {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Block space membership required",
			})
		}

		c.Locals("ws_user_id", userID)
		c.Locals("ws_block_space_id", blockSpaceID)
		return c.Next()
	}
}

// Handler runs one websocket session: registers the client with the
// hub, marks presence, pumps hub events to the socket and drains reads
// until the peer goes away. Clients only receive; mutations go over REST.
func Handler(broker *Broker) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("ws_user_id").(uuid.UUID)
		blockSpaceID, _ := conn.Locals("ws_block_space_id").(uuid.UUID)

		client := NewClient(userID, blockSpaceID)
		hub := broker.Hub()
		hub.Register(client)
		broker.SetOnline(context.Background(), blockSpaceID, userID)

		defer func() {
			hub.Unregister(client)
			broker.SetOffline(context.Background(), blockSpaceID, userID)
			conn.Close()
		}()

		go writePump(conn, client)

		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err,
					websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					slog.Info("websocket closed unexpectedly", "user_id", userID, "error", err)
				}
				return
			}
		}
	})
}

func writePump(conn *websocket.Conn, client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case payload, ok := <-client.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
