package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/fixitlocal/fixit-app/cron"
	"github.com/fixitlocal/fixit-app/db"
	"github.com/fixitlocal/fixit-app/redis"
	"github.com/fixitlocal/fixit-app/routes"
	"github.com/fixitlocal/fixit-app/ws"
)

func main() {
	app := fiber.New()
	if os.Getenv("AUTO_MIGRATE") == "true" {
		db.Migrate()
	} else {
		db.Init()
	}
	redis.InitRedis()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	hub := ws.NewHub()

	routes.SetupAuthRoutes(app)
	routes.SetupUserRoutes(app)
	routes.SetupJobRoutes(app)
	routes.SetupRatingRoutes(app)
	routes.SetupChatRoutes(app, hub)
	routes.SetupLLMRoutes(app)

	cron.StartCronJobs()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Fatal(app.Listen(":" + port))
}
