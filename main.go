package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BeastofOne/soggy-potatoes/models"
	"github.com/BeastofOne/soggy-potatoes/routes"
)

func main() {
	log.Println("✅ Starting Soggy Potatoes API...")

	// Load environment variables
	_ = godotenv.Load()

	// Init DB
	db := initDatabase()

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.GuestSession{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Wishlist{},
		&models.Review{},
		&models.Order{},
		&models.OrderItem{},
		&models.ForumCategory{},
		&models.Thread{},
		&models.Post{},
		&models.Reaction{},
		&models.Conversation{},
		&models.Message{},
		&models.BlockedWord{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY", "X-Session-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Serve uploaded images
	uploadsDir := os.Getenv("UPLOAD_DIR")
	if uploadsDir == "" {
		uploadsDir = "./uploads"
	}
	r.Static("/uploads", uploadsDir)

	// Setup routes
	routes.SetupRoutes(r, db)

	// Expire stale guest sessions once a day
	go expireGuestSessions(db, 24*time.Hour)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Server running on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase() *gorm.DB {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("❌ DB connection failed: %v", err)
		}
		return db
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Failed to connect DB: %v", err)
	}
	return db
}

// expireGuestSessions deletes expired guest sessions and their carts.
func expireGuestSessions(db *gorm.DB, interval time.Duration) {
	for {
		var expired []models.GuestSession
		if err := db.Where("expires_at < ?", time.Now()).Find(&expired).Error; err == nil {
			for _, session := range expired {
				key := session.Key
				var cart models.Cart
				if err := db.Where("session_key = ?", key).First(&cart).Error; err == nil {
					db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{})
					db.Delete(&cart)
				}
				db.Delete(&session)
			}
			if len(expired) > 0 {
				log.Printf("🗑️ Removed %d expired guest sessions", len(expired))
			}
		}
		time.Sleep(interval)
	}
}
