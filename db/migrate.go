package db

import (
	"fmt"
	"log"

	"github.com/fixitlocal/fixit-app/models"
)

func Migrate() {
	// Initialize DB connection
	Init()

	// Run AutoMigrate only when explicitly called
	err := DB.AutoMigrate(
		&models.User{},
		&models.Job{},
		&models.Application{},
		&models.Rating{},
		&models.Message{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	fmt.Println("✅ Migrations applied successfully!")
}
