package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/cache"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/client"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/config"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/console"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/events"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/handlers"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories/postgres"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/services"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/session"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/utils"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/validator"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Audit trail database (optional)
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if db == nil {
		logger.Warn("DATABASE_URL not set, admin activities will not be persisted")
	}

	// Redis holds sessions and the response cache
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}
	cacheManager := cache.NewCacheManager(redisClient)

	api := client.New(client.Config{
		BaseURL: cfg.EdubotAPIURL,
		Timeout: cfg.EdubotAPITimeout,
	}, slogLogger)

	// Initialize repositories
	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
		Cache:       cacheManager,
		API:         api,
	})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	// Activity events go to Kafka when brokers are configured
	var publisher events.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = events.NewKafkaEventPublisher(cfg.KafkaBrokers, cfg.KafkaActivityTopic, slogLogger)
		if err != nil {
			log.Fatalf("Failed to initialize Kafka publisher: %v", err)
		}
	} else {
		publisher, _ = events.NewInProcessEventPublisher(cfg.KafkaActivityTopic, slogLogger)
	}

	// Initialize validator
	validator := validator.New()

	// Initialize services
	serviceManager := services.NewServiceManager(services.ServiceManagerConfig{
		Repository:        repoManager.GetRepository(),
		RepositoryManager: repoManager,
		Cache:             cacheManager,
		Publisher:         publisher,
		Logger:            slogLogger,
		Validator:         validator,
	})
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	sessions := session.NewManager(repoManager.GetRepository().Auth(), session.NewRedisStore(redisClient), cfg.Session.TTL, slogLogger)
	registry := console.NewRegistry(console.ServicesFrom(serviceManager), console.Options{
		PageSize:      cfg.Console.DefaultPageSize,
		Debounce:      cfg.Console.SearchDebounce,
		DirectorySize: cfg.Console.DirectoryBatchSize,
		Validator:     validator,
		Logger:        slogLogger,
	})
	gate := handlers.NewSessionGate(sessions, registry, cfg.Session, logger)

	// Sessions that expire in redis leave their workspace behind; sweep those.
	// A store error keeps the workspace until the next tick.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go registry.Sweep(sweepCtx, cfg.Console.WorkspaceSweep, func(ctx context.Context, id string) bool {
		_, err := sessions.Authenticate(ctx, id)
		return !errors.Is(err, session.ErrNotAuthenticated)
	})

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, sessions, registry, gate, validator, logger, cacheManager)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment, "edubot_api", cfg.EdubotAPIURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Pending debounced searches and in-flight fetches belong to the workspaces
	stopSweep()
	registry.CloseAll()

	if err := serviceManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown services: %v", err)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Failed to close Redis: %v", err)
	}

	logger.Info("Server exited")
}
