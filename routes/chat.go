package routes

import (
	"github.com/fixitlocal/fixit-app/controllers"
	"github.com/fixitlocal/fixit-app/db"
	"github.com/fixitlocal/fixit-app/middleware"
	"github.com/fixitlocal/fixit-app/ws"
	"github.com/gofiber/fiber/v2"
)

// SetupChatRoutes configures chat history, the HTTP send fallback and the
// websocket relay endpoint
func SetupChatRoutes(app *fiber.App, hub *ws.Hub) {
	chat := app.Group("/chat")
	chat.Get("/:jobId", middleware.Protected(), controllers.GetChatHistory)
	chat.Post("/", middleware.Protected(), controllers.SendChatMessage)

	handler := ws.NewHandler(hub, db.DB)
	app.Use("/ws/chat", handler.Upgrade)
	app.Get("/ws/chat", handler.Serve())
}
