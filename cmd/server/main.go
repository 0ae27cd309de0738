package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/aircart/api/internal/codec"
	"github.com/aircart/api/internal/config"
	"github.com/aircart/api/internal/handler"
	"github.com/aircart/api/internal/middleware"
	"github.com/aircart/api/internal/pipeline"
	"github.com/aircart/api/internal/service"
	"github.com/aircart/api/internal/storage"
	"github.com/aircart/api/internal/store"
	"github.com/aircart/api/internal/worker"
	"github.com/aircart/api/internal/ws"
)

// @title          Aircart API
// @version        1.0
// @description    Backend API for Aircart — radio-automation cart library.
// @host           localhost:8000
// @BasePath       /
// @schemes        http https
// @securityDefinitions.apikey BearerAuth
// @in             header
// @name           Authorization
// @description    Enter your bearer token in the format **Bearer &lt;token&gt;**
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test Redis connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not available: %v", err)
	}

	// Initialize Asynq client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	// Initialize validator
	validate := validator.New()

	// Open the cart database
	cartStore, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open cart database: %v", err)
	}

	// Initialize blob store (falls back to in-process storage if not configured)
	var blobs storage.BlobStore
	if cfg.Storage.AccessKeyID != "" && cfg.Storage.SecretAccessKey != "" {
		s3Store, err := storage.NewS3Store(&cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize blob store: %v", err)
		}
		blobs = s3Store
	} else {
		log.Println("Info: blob storage not configured, using in-process store")
		blobs = storage.NewMemoryStore()
	}

	// Initialize WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// External transcoding engine
	transcoder := codec.NewFFmpeg(cfg.Engine.FFmpegPath, time.Duration(cfg.Engine.Timeout)*time.Second)

	// Initialize services
	jobService := service.NewJobService(redisClient, asynqClient)
	cartService := service.NewCartService(cartStore, blobs)
	uploadService := service.NewUploadService(jobService, cartStore, blobs)

	// The pipeline gets every collaborator injected; nothing is shared
	// through package state.
	ingestPipeline := pipeline.New(jobService, cartStore, blobs, transcoder, jobService, hub, cfg.Engine.MP3Quality)

	// Initialize handlers
	cartHandler := handler.NewCartHandler(cartService, validate)
	uploadHandler := handler.NewUploadHandler(uploadService)
	jobHandler := handler.NewJobHandler(jobService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    110 * 1024 * 1024, // headroom over the 100MB upload cap
	})

	// Global middleware
	app.Use(recover.New())
	isDebug := strings.EqualFold(cfg.Server.LogLevel, "debug")
	logFormat := "[${time}] ${status} - ${latency} ${method} ${path}\n"
	if isDebug {
		logFormat = "[${time}] ${status} - ${latency} ${method} ${path} ${queryParams} ${reqHeaders}\n"
		log.Println("Debug logging enabled")
	}
	app.Use(logger.New(logger.Config{
		Format: logFormat,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"redis":   redisClient.Ping(c.Context()).Err() == nil,
				"storage": cfg.Storage.AccessKeyID != "",
				"engine":  cfg.Engine.FFmpegPath,
			},
		})
	})

	// API routes
	api := app.Group("/api", authMiddleware.Authenticate())

	carts := api.Group("/carts")
	carts.Post("/", cartHandler.Create)
	carts.Get("/:cartId", cartHandler.Get)
	carts.Delete("/:cartId", cartHandler.Delete)
	carts.Post("/:cartId/audio", rateLimiter.UploadLimit(cfg.RateLimit.UploadPerHour), uploadHandler.Audio)

	api.Get("/jobs/:jobId", jobHandler.Status)

	// WebSocket routes
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/jobs/:jobId", websocket.New(func(c *websocket.Conn) {
		jobID := c.Params("jobId")
		hub.HandleConnection(c, jobID)
	}))

	// Start Asynq worker server
	go startWorkerServer(cfg, ingestPipeline)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func startWorkerServer(cfg *config.Config, p *pipeline.Pipeline) {
	asynqLogLevel := asynq.InfoLevel
	if strings.EqualFold(cfg.Server.LogLevel, "debug") {
		asynqLogLevel = asynq.DebugLevel
	} else if strings.EqualFold(cfg.Server.LogLevel, "warn") {
		asynqLogLevel = asynq.WarnLevel
	} else if strings.EqualFold(cfg.Server.LogLevel, "error") {
		asynqLogLevel = asynq.ErrorLevel
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				service.QueueIngest: 10,
			},
			LogLevel: asynqLogLevel,
		},
	)

	mux := asynq.NewServeMux()
	worker.NewIngestWorker(p).Register(mux)

	if err := srv.Run(mux); err != nil {
		log.Printf("Asynq worker error: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "SERVICE_ERROR",
			"message": message,
		},
	})
}
