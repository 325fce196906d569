package main

import (
	"log"
	"time"

	"github.com/agnar3901/sign-manufacturing-app/config"
	"github.com/agnar3901/sign-manufacturing-app/internal/handler"
	"github.com/agnar3901/sign-manufacturing-app/internal/invoice"
	"github.com/agnar3901/sign-manufacturing-app/internal/notify"
	"github.com/agnar3901/sign-manufacturing-app/internal/pipeline"
	"github.com/agnar3901/sign-manufacturing-app/internal/store"
	"github.com/agnar3901/sign-manufacturing-app/pkg/database"
	"github.com/agnar3901/sign-manufacturing-app/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.Server.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// 2. Connect to Database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// 3. Migrate
	orderStore := store.New(db, zlog)
	if err := orderStore.AutoMigrate(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// 4. Wire components
	renderer := invoice.NewRenderer(cfg.Company)
	dispatcher := notify.NewDispatcher(cfg.Notify, cfg.Company, zlog)
	orderPipeline := pipeline.New(orderStore, renderer, dispatcher, pipeline.Options{
		BasePath:          cfg.Storage.BasePath,
		ResendOnDuplicate: cfg.Notify.ResendOnDuplicate,
	}, zlog)

	// 5. Initialize Router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 6. Setup Routes
	orderHandler := &handler.OrderHandler{
		Pipeline: orderPipeline,
		Store:    orderStore,
		Renderer: renderer,
		BasePath: cfg.Storage.BasePath,
	}
	statsHandler := &handler.StatsHandler{Store: orderStore}

	orderRoutes := r.Group("/api/v1/orders")
	{
		orderRoutes.POST("", orderHandler.ProcessOrder)
		orderRoutes.GET("", orderHandler.ListOrders)
		orderRoutes.GET("/:invoiceId", orderHandler.GetOrder)
		orderRoutes.PUT("/:invoiceId/status", orderHandler.UpdateOrderStatus)
		orderRoutes.DELETE("/:invoiceId", orderHandler.DeleteOrder)
		orderRoutes.GET("/:invoiceId/print", orderHandler.PrintInvoice)
	}

	r.GET("/api/v1/stats/monthly", statsHandler.GetMonthlyStats)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 7. Start Server
	port := cfg.Server.Port
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
