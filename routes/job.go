package routes

import (
	"github.com/fixitlocal/fixit-app/controllers"
	"github.com/fixitlocal/fixit-app/middleware"
	"github.com/fixitlocal/fixit-app/models"
	"github.com/gofiber/fiber/v2"
)

// SetupJobRoutes configures all job lifecycle routes
func SetupJobRoutes(app *fiber.App) {
	jobs := app.Group("/jobs")

	jobs.Get("/", controllers.GetOpenJobs)
	jobs.Get("/homeowner/:id", controllers.GetHomeownerJobs)
	jobs.Get("/fixer/:id", controllers.GetFixerJobs)
	jobs.Get("/:id", controllers.GetJob)

	jobs.Post("/", middleware.Protected(), middleware.RequireRole(models.RoleHomeowner), controllers.CreateJob)
	jobs.Post("/:id/apply", middleware.Protected(), middleware.RequireRole(models.RoleFixer), controllers.ApplyToJob)
	jobs.Post("/:id/accept", middleware.Protected(), middleware.RequireRole(models.RoleHomeowner), controllers.AcceptApplication)
	jobs.Post("/:id/reject", middleware.Protected(), middleware.RequireRole(models.RoleHomeowner), controllers.RejectApplication)
	jobs.Post("/:id/complete", middleware.Protected(), middleware.RequireRole(models.RoleHomeowner), controllers.CompleteJob)
	jobs.Post("/:id/cancel", middleware.Protected(), middleware.RequireRole(models.RoleHomeowner), controllers.CancelJob)
}
