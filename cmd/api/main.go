package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"nivesh/internal/cache"
	"nivesh/internal/config"
	"nivesh/internal/database"
	_ "nivesh/internal/docs" // Import swagger docs
	"nivesh/internal/handlers"
	"nivesh/internal/logger"
	"nivesh/internal/middleware"
	"nivesh/internal/services"
	"nivesh/internal/validator"
)

const (
	shutdownTimeout   = 10 * time.Second
	limiterSweepEvery = time.Minute
)

// @title           Nivesh API
// @version         1.0
// @description     Nivesh records client investments across ten instrument types for advisors and serves portfolio views over them.

// @host      localhost:8000
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig(appConfig)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	clientService := services.NewClientService(db)
	avenueService := services.NewAvenueService(db)
	investmentService := services.NewInvestmentService(db)
	portfolioService := services.NewPortfolioService(investmentService)

	seeded, err := avenueService.SeedDefaults()
	if err != nil {
		return fmt.Errorf("failed to seed investment avenues: %w", err)
	}
	if seeded > 0 {
		log.Infow("Seeded default investment avenues", "count", seeded)
	}

	// Optional Redis for the idempotency guard
	var rdb *redis.Client
	checks := map[string]handlers.Pinger{"database": dbManager}
	if appConfig.RedisAddr != "" {
		rdb, err = cache.Open(appConfig.RedisAddr, appConfig.RedisDB)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer rdb.Close()
		checks["redis"] = cache.NewChecker(rdb)
	} else {
		log.Warn("REDIS_ADDR not set, idempotency guard disabled")
	}

	limiter := middleware.NewIPRateLimiter(appConfig.RateLimitRPS, appConfig.RateLimitBurst)
	go limiter.Run(ctx, limiterSweepEvery)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	clientHandler := handlers.NewClientHandler(clientService, auditService)
	avenueHandler := handlers.NewAvenueHandler(avenueService, auditService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService, auditService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	healthHandler := handlers.NewHealthHandler(checks)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Idempotency-Key, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Idempotent-Replayed, Retry-After")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	api.Use(middleware.RateLimit(limiter))

	// Health check endpoint
	api.GET("/health", healthHandler.Health)

	// Public routes
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Avenues are public so the form can load them before login
	api.GET("/investment-avenues/", avenueHandler.ListAvenues)
	api.GET("/investment-avenues/:id/", avenueHandler.GetAvenue)

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/auth/me", authHandler.Me)

	// Client master routes
	clients := protected.Group("/clients")
	clients.GET("/", clientHandler.ListClients)
	clients.POST("/", clientHandler.CreateClient)
	clients.GET("/:code/", clientHandler.GetClient)
	clients.PUT("/:code/", clientHandler.UpdateClient)
	clients.DELETE("/:code/", clientHandler.DeleteClient)

	// Avenue maintenance routes
	avenues := protected.Group("/investment-avenues")
	avenues.POST("/", avenueHandler.CreateAvenue)
	avenues.PUT("/:id/", avenueHandler.UpdateAvenue)
	avenues.DELETE("/:id/", avenueHandler.DeleteAvenue)

	// Investment routes
	investments := protected.Group("/investments")
	investments.GET("/", investmentHandler.ListInvestments)
	investments.POST("/", middleware.Idempotency(rdb, appConfig.IdempotencyTTL), investmentHandler.CreateInvestment)
	investments.GET("/:id/", investmentHandler.GetInvestment)
	investments.PUT("/:id/", investmentHandler.UpdateInvestment)
	investments.DELETE("/:id/", investmentHandler.DeleteInvestment)
	investments.GET("/:id/history/", investmentHandler.InvestmentHistory)

	// Portfolio and report routes
	protected.GET("/portfolio/summary/", portfolioHandler.Summary)
	protected.GET("/portfolio/holdings/", portfolioHandler.Holdings)
	protected.GET("/dashboard/maturities/", portfolioHandler.Maturities)
	protected.GET("/reports/holdings.csv", portfolioHandler.HoldingsCSV)

	// Service-to-service routes
	pipeline := api.Group("/pipeline")
	pipeline.Use(middleware.ServiceKeyMiddleware(appConfig.ServiceAPIKey))
	pipeline.GET("/reports/holdings.csv", portfolioHandler.HoldingsCSV)

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting Nivesh backend server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
