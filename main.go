package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/dinehall/reservation-app/config"
	"github.com/dinehall/reservation-app/database"
	"github.com/dinehall/reservation-app/middlewares"
	"github.com/dinehall/reservation-app/models"
	"github.com/dinehall/reservation-app/router"
	"github.com/dinehall/reservation-app/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	store := config.InitCache()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := store.Ping(ctx); err != nil {
		// Availability data self-heals via TTL; a dead cache only costs
		// recomputation, so start anyway.
		utils.ErrorLogger.Printf("Redis not reachable, availability caching degraded: %v", err)
	}
	cancel()

	r := router.SetupRouter(db, store, middlewares.NewRateLimiter(50, 50))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Restaurant{},
		&models.Table{},
		&models.Reservation{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	if err := database.EnsureIndexes(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to create indexes: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
