package handler

import (
	"go-retail-pos/internal/middleware"
	"go-retail-pos/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type WSHandler struct {
	hub  *ws.Hub
	auth middleware.Authenticator
}

func NewWSHandler(hub *ws.Hub, auth middleware.Authenticator) *WSHandler {
	return &WSHandler{hub: hub, auth: auth}
}

// Upgrade authenticates the connection before the websocket handshake.
// Browsers cannot set headers on websocket requests, so the token comes from ?token=.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.SendStatus(fiber.StatusUpgradeRequired)
	}

	token := c.Query("token")
	if token == "" {
		var err error
		if token, err = middleware.BearerToken(c); err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}
	}
	claims, err := h.auth.Authenticate(token)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}
	middleware.SetClaims(c, claims)
	return c.Next()
}

// Serve registers the connection with the hub and keeps it open until the peer leaves.
func (h *WSHandler) Serve() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		companyID, ok := c.Locals("company_id").(uuid.UUID)
		if !ok {
			c.Close()
			return
		}
		subjectID, _ := c.Locals("user_id").(string)

		client := &ws.Client{Conn: c, CompanyID: companyID.String(), SubjectID: subjectID}
		if !h.hub.Join(client) {
			return
		}
		defer h.hub.Leave(client)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}
