package routes

import (
	"github.com/fixitlocal/fixit-app/controllers"
	"github.com/fixitlocal/fixit-app/middleware"
	"github.com/fixitlocal/fixit-app/models"
	"github.com/gofiber/fiber/v2"
)

// SetupRatingRoutes configures the rating ledger routes
func SetupRatingRoutes(app *fiber.App) {
	ratings := app.Group("/ratings")

	ratings.Get("/fixer/:fixerId", controllers.GetFixerRatingSummary)
	ratings.Post("/", middleware.Protected(), middleware.RequireRole(models.RoleHomeowner), controllers.CreateRating)
}
