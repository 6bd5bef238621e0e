package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "stockgame/docs" // Import generated docs
	"stockgame/internal/config"
	"stockgame/internal/dao/rooms"
	"stockgame/internal/database"
	"stockgame/internal/handlers"
	"stockgame/internal/handlers/websocket"
	"stockgame/internal/scheduler"
	"stockgame/internal/services"
	"stockgame/internal/services/market"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Stock Game API
// @version 1.0
// @description Multiplayer stock trading game API with synchronized classroom rooms
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.email support@stockgame.dev
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8080
// @BasePath /api/v1
// @schemes http

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to database
	if err := database.Connect(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run database migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// CORS middleware for development
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	db := database.GetDB()

	// Initialize data access and services
	roomDAO := rooms.NewRoomDAO(db)
	playerDAO := rooms.NewPlayerDAO(db)
	bundleService := market.NewBundleService(db)

	wsHandler := websocket.NewWebSocketHandler()
	hub := wsHandler.GetHub()

	roomService := services.NewRoomService(db, roomDAO, playerDAO, bundleService)
	playerService := services.NewPlayerService(db, roomDAO, playerDAO, bundleService, hub)
	coordinator := services.NewAdvanceCoordinator(db, roomDAO, playerDAO, hub)

	// Start the auto-advance scheduler for sync_auto rooms
	advancer := scheduler.NewAutoAdvancer(roomDAO, coordinator, time.Duration(cfg.SchedulerIntervalSeconds)*time.Second)
	if err := advancer.Start(); err != nil {
		log.Fatalf("Failed to start auto advancer: %v", err)
	}
	defer advancer.Stop()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(advancer)
	roomHandler := handlers.NewRoomHandler(roomService, playerService)
	gameHandler := handlers.NewGameHandler(coordinator, playerService)
	playerHandler := handlers.NewPlayerHandler(playerService)

	// Health check endpoint
	r.GET("/health", healthHandler.Health)

	// Swagger endpoint
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// WebSocket endpoint
	r.GET("/ws", wsHandler.HandleWebSocket)

	// API routes group
	api := r.Group("/api/v1")
	{
		api.GET("/health", healthHandler.Health)

		handlers.RegisterRoomRoutes(api, roomHandler)
		handlers.RegisterGameRoutes(api, gameHandler)
		handlers.RegisterPlayerRoutes(api, playerHandler)
	}

	// Stop the scheduler cleanly on SIGINT/SIGTERM
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		advancer.Stop()
		os.Exit(0)
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
