package ws

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/fixitlocal/fixit-app/middleware"
	"github.com/fixitlocal/fixit-app/models"
	"github.com/fixitlocal/fixit-app/services"
	"github.com/fixitlocal/fixit-app/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"
)

// Chat event envelopes
type incomingEvent struct {
	Type    string `json:"type"` // join_chat | send_message
	JobID   uint   `json:"job_id"`
	Content string `json:"content"`
}

type outgoingMessage struct {
	Type    string          `json:"type"`
	Message *models.Message `json:"message"`
}

type outgoingError struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Handler owns the websocket side of the chat relay: room membership,
// persist-then-broadcast, and error events back to the sender.
type Handler struct {
	hub *Hub
	db  *gorm.DB
}

func NewHandler(hub *Hub, db *gorm.DB) *Handler {
	return &Handler{hub: hub, db: db}
}

// Upgrade gates the HTTP→websocket upgrade. The token rides in the query
// string because browsers cannot set headers on websocket dials.
func (h *Handler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	userID, role, err := middleware.ParseToken(c.Query("token"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"code":    "UNAUTHORIZED",
			"message": "Invalid or missing token",
		})
	}
	c.Locals("userID", userID)
	c.Locals("role", role)
	return c.Next()
}

// Serve runs the read loop for one connected session.
func (h *Handler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("userID").(uint)
		chat := services.NewChatService(h.db)

		defer func() {
			h.hub.Leave(conn)
			_ = conn.Close()
		}()

		for {
			mt, raw, err := conn.ReadMessage()
			if err != nil {
				log.Printf("client %d disconnected: %v", userID, err)
				return
			}
			if mt != websocket.TextMessage {
				continue
			}

			var event incomingEvent
			if err := json.Unmarshal(raw, &event); err != nil {
				h.sendError(conn, utils.Validation("Invalid event payload"))
				continue
			}

			switch event.Type {
			case "join_chat":
				if event.JobID == 0 {
					h.sendError(conn, utils.Validation("job_id is required"))
					continue
				}
				h.hub.Join(event.JobID, conn)
			case "send_message":
				message, err := chat.Send(event.JobID, userID, event.Content)
				if err != nil {
					// Persistence failures go back to the sender; nothing
					// is dropped silently.
					h.sendError(conn, err)
					continue
				}
				payload, err := json.Marshal(outgoingMessage{Type: "receive_message", Message: message})
				if err != nil {
					h.sendError(conn, err)
					continue
				}
				h.hub.Broadcast(event.JobID, payload)
			default:
				h.sendError(conn, utils.Validation("Unknown event type"))
			}
		}
	})
}

func (h *Handler) sendError(conn *websocket.Conn, err error) {
	out := outgoingError{Type: "error", Code: utils.CodeInternal, Message: "Something went wrong"}
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		out.Code = appErr.Code
		out.Message = appErr.Message
	} else {
		log.Printf("websocket internal error: %v", err)
	}
	payload, marshalErr := json.Marshal(out)
	if marshalErr != nil {
		return
	}
	// Routed through the hub so the write is serialized against broadcasts
	// targeting the same connection.
	if writeErr := h.hub.SendTo(conn, payload); writeErr != nil {
		log.Printf("failed to deliver error event: %v", writeErr)
	}
}
