package main

import (
	"context"                         // context package is needed for Redis and Mongo operations
	"log"                             // log package is needed for logging
	"room_finder/internal/api"        // Custom package for API handlers
	"room_finder/internal/config"     // Custom package for configuration
	"room_finder/internal/middleware" // Custom package for middleware
	"room_finder/internal/storage"    // Custom package for image storage

	"github.com/gin-gonic/gin"                   // Gin web framework
	"github.com/redis/go-redis/v9"               // Redis client
	"github.com/sirupsen/logrus"                 // Logrus for structured logging
	"go.mongodb.org/mongo-driver/mongo"          // Mongo client for GridFS image storage
	"go.mongodb.org/mongo-driver/mongo/options"  // Mongo client options
	"go.mongodb.org/mongo-driver/mongo/readpref" // Mongo ping readpref
	"gorm.io/driver/mysql"                       // MySQL driver for GORM
	"gorm.io/gorm"                               // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database.
	// clientFoundRows makes UPDATE counts report matched rows, not changed
	// rows, so a no-change edit is not mistaken for a missing listing.
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true&clientFoundRows=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Setup image storage: GridFS when Mongo is configured, in-memory otherwise
	var store storage.Store
	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			logrus.Fatalf("failed to connect to Mongo: %v", err)
		}
		// Test Mongo connection
		if err := mongoClient.Ping(context.Background(), readpref.Primary()); err != nil {
			logrus.Fatalf("failed to connect to Mongo: %v", err)
		}
		store, err = storage.NewGridFS(mongoClient.Database(cfg.MongoDB), cfg.MediaBaseURL)
		if err != nil {
			logrus.Fatalf("failed to open image bucket: %v", err)
		}
	} else {
		logrus.Warn("MONGO_URI not set, images are stored in memory") // Dev fallback, blobs vanish on restart
		store = storage.NewMemory(cfg.MediaBaseURL)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Auth routes
	r.POST("/api/auth/signup", api.SignupHandler(db))                                                                    // Signup endpoint
	r.POST("/api/auth/login", api.LoginHandler(db, cfg.JWTSecret))                                                       // Login endpoint
	r.POST("/api/auth/logout", middleware.JWTAuthMiddleware(cfg.JWTSecret, redisClient), api.LogoutHandler(redisClient)) // Sign-out endpoint
	r.GET("/api/auth/session", api.SessionHandler(db, redisClient, cfg.JWTSecret))                                       // Live session check for role-aware rendering

	// Public listing routes
	r.GET("/api/rooms", api.SearchRoomsHandler(db, redisClient)) // Search with filters endpoint
	r.GET("/api/rooms/:id", api.RoomDetailHandler(db))           // Listing detail endpoint
	r.GET("/media/*path", api.MediaHandler(store))               // Stored image serving endpoint

	// Owner routes (protected by JWT, owner role only)
	ownerGroup := r.Group("/api/owner")
	// Protect owner routes with JWT and OwnerOnly middleware
	ownerGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret, redisClient), middleware.OwnerOnlyMiddleware(db))
	ownerGroup.GET("/rooms", api.OwnerRoomsHandler(db, redisClient))         // Owner dashboard endpoint
	ownerGroup.POST("/rooms", api.CreateRoomHandler(db, redisClient, store)) // Create listing endpoint
	ownerGroup.GET("/rooms/:id", api.GetOwnedRoomHandler(db))                // Edit pre-population endpoint
	ownerGroup.PUT("/rooms/:id", api.UpdateRoomHandler(db, redisClient))     // Edit listing endpoint
	ownerGroup.DELETE("/rooms/:id", api.DeleteRoomHandler(db, redisClient))  // Delete listing endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
