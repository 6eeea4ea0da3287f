package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"admin-console/internal/clients"
	"admin-console/internal/config"
	"admin-console/internal/console"
	"admin-console/internal/events"
	"admin-console/internal/handlers"
	"admin-console/internal/middleware"
	"admin-console/internal/secrets"
	"admin-console/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Admin Console API
// @version 1.0.0
// @description Back-office console for the store: categories, products, variations, orders, inventory, banners and bulk import

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name admin_session

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	// Secret Manager supplies the session secret and API token when configured
	if cfg.GCPProjectID != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		secretManager, err := secrets.NewGCPSecretManager(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Printf("WARNING: Failed to initialize GCP Secret Manager: %v (using environment secrets)", err)
		} else {
			if err := cfg.ResolveSecrets(ctx, secretManager); err != nil {
				log.Printf("WARNING: Failed to resolve secrets: %v (using environment secrets)", err)
			} else {
				log.Println("✓ Secrets resolved from GCP Secret Manager")
			}
			secretManager.Close()
		}
		cancel()
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	logger := cfg.NewLogger()

	// Redis backs the session revocation list; without it revocations stay in memory
	var redisClient *redis.Client
	var revocations session.Revocations = session.NewMemoryRevocations()
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("WARNING: Failed to parse Redis URL: %v (revocations kept in memory)", err)
		} else {
			redisClient = redis.NewClient(redisOpts)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				log.Printf("WARNING: Failed to connect to Redis: %v (revocations kept in memory)", err)
				redisClient.Close()
				redisClient = nil
			} else {
				revocations = session.NewRedisRevocations(redisClient, logger)
				log.Println("✓ Redis connected successfully")
			}
			cancel()
		}
	}

	// Audit events
	publisher, err := events.NewPublisher(cfg.NATSURL, cfg.NATSSubject, logger)
	if err != nil {
		log.Printf("WARNING: Failed to initialize events publisher: %v (events won't be published)", err)
		publisher = nil
	} else if publisher.Enabled() {
		log.Println("✓ NATS events publisher initialized")
	}

	api := clients.NewAPIClient(clients.Options{
		BaseURL:   cfg.APIBaseURL,
		Timeout:   cfg.APITimeout,
		RateLimit: cfg.APIRateLimit,
		RateBurst: cfg.APIRateBurst,
		Token:     cfg.APIToken,
		Logger:    logger,
	})
	log.Printf("✓ Backend client targeting %s", api.BaseURL())

	var authenticator session.Authenticator
	switch cfg.AuthMode {
	case "local":
		local, err := session.ParseAccounts(cfg.AdminAccounts)
		if err != nil {
			log.Fatal("Invalid ADMIN_ACCOUNTS: ", err)
		}
		authenticator = local
	default:
		authenticator = session.NewBackendAuthenticator(clients.NewAuthClient(api))
	}
	log.Printf("✓ Authentication mode: %s", cfg.AuthMode)

	sessions := session.NewManager(session.Options{
		Secret:      cfg.SessionSecret,
		CookieName:  cfg.SessionCookie,
		TTL:         cfg.SessionTTL,
		Secure:      cfg.IsProduction(),
		Revocations: revocations,
	})

	workspaces := console.NewWorkspaces(console.WorkspaceOptions{
		Backend:           console.NewBackend(api),
		Notifier:          console.NewLogNotifier(logger),
		Validator:         console.NewFormValidator(),
		InventoryPageSize: cfg.InventoryPageSize,
		AutoCloseDelay:    cfg.AutoCloseDelay,
		StoreName:         cfg.StoreName,
	}, cfg.SessionTTL, logger)

	runCtx, stopSweeper := context.WithCancel(context.Background())
	go workspaces.Run(runCtx, time.Minute)

	handler := handlers.NewHandler(workspaces, sessions, authenticator, publisher, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.SetupCORS(cfg.AllowedOrigins))
	router.Use(middleware.ErrorHandler(logger))

	// Health check endpoints (no auth required)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.Readiness{Redis: redisClient, Events: publisher}.ReadinessCheck)

	handler.RegisterRoutes(router.Group("/api/v1"), sessions)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Admin console starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down admin console...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("WARNING: Server forced to shutdown: %v", err)
	}

	stopSweeper()
	if publisher != nil {
		publisher.Close()
		log.Println("✓ Events publisher closed")
	}
	if redisClient != nil {
		redisClient.Close()
	}

	log.Println("Admin console stopped")
}
