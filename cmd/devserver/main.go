package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/minuteserv/minuteserv-go/internal/database"
	"github.com/minuteserv/minuteserv-go/internal/devserver"
	"github.com/minuteserv/minuteserv-go/internal/devserver/handlers"
	"github.com/minuteserv/minuteserv-go/internal/devserver/otpstore"
	"github.com/minuteserv/minuteserv-go/internal/devserver/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment")
	}

	// Pick the persistent store when Postgres is configured, otherwise run
	// fully in memory.
	var db store.Store
	if os.Getenv("DB_HOST") != "" {
		gormDB, err := database.InitDB()
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			log.Fatalf("Failed to get database instance: %v", err)
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		db = store.NewGormStore(gormDB)
	} else {
		log.Printf("DB_HOST not set, using in-memory store")
		db = store.NewMemoryStore()
	}

	var otps otpstore.OTPStore
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisStore, err := otpstore.NewRedisStore(redisURL)
		if err != nil {
			log.Fatalf("Failed to initialize Redis: %v", err)
		}
		otps = redisStore
	} else {
		log.Printf("REDIS_URL not set, keeping OTP challenges in memory")
		otps = otpstore.NewMemoryStore()
	}

	if err := db.SeedServices(handlers.DefaultCatalog()); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	r := devserver.NewRouter(devserver.Config{Store: db, OTPs: otps})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
