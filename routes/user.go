package routes

import (
	"github.com/fixitlocal/fixit-app/controllers"
	"github.com/fixitlocal/fixit-app/middleware"
	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes configures profile routes
func SetupUserRoutes(app *fiber.App) {
	users := app.Group("/users", middleware.Protected())

	users.Get("/profile", controllers.GetUserProfile)
	users.Put("/profile", controllers.UpdateProfile)
	users.Post("/profile/avatar", controllers.UpdateAvatar)
}

// SetupLLMRoutes configures the description enhancer and assistant routes
func SetupLLMRoutes(app *fiber.App) {
	llm := app.Group("/llm", middleware.Protected())

	llm.Post("/enhance-job", controllers.EnhanceJobDescription)
	llm.Post("/chat", controllers.ChatWithAssistant)
}
