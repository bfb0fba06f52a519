package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/induso/cobranzas-api/internal/config"
	"github.com/induso/cobranzas-api/internal/database"
	"github.com/induso/cobranzas-api/internal/handlers"
	"github.com/induso/cobranzas-api/internal/jobs"
	"github.com/induso/cobranzas-api/internal/middleware"
	"github.com/induso/cobranzas-api/internal/repository"
	"github.com/induso/cobranzas-api/internal/services"
	"github.com/induso/cobranzas-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Cobranzas API
// @version 1.0
// @description REST API for client payment collection and current-account management

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY or FROM_EMAIL not set")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, cfg, db)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs, cfg)

	// Initialize handlers
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				// Configuration catalogs
				admin.POST("/rules", h.Rule.Create)
				admin.PUT("/rules/:id", h.Rule.Update)
				admin.DELETE("/rules/:id", h.Rule.Destroy)
				admin.POST("/payment-methods", h.Rule.CreateMethod)
				admin.POST("/banks", h.Treasury.CreateBank)
				admin.POST("/accounts", h.Treasury.CreateAccount)
				admin.POST("/cash-registers", h.Treasury.CreateCashRegister)

				// Administrative corrections
				admin.PUT("/sales/:id", h.Sale.Update)
				admin.POST("/clients/:id/movements", h.Client.AddMovement)
				admin.DELETE("/clients/:id", h.Client.Destroy)

				// Audit trail and operations
				admin.GET("/audit-logs", h.Audit.Index)
				admin.GET("/jobs/status", h.Job.Status)
			}

			// Cashier + admin routes (registering collections)
			cashier := protected.Group("")
			cashier.Use(middleware.RequireRole("admin", "cajero"))
			{
				cashier.POST("/clients", h.Client.Create)
				cashier.PUT("/clients/:id", h.Client.Update)

				cashier.POST("/sales", h.Sale.Create)

				cashier.POST("/payments", h.Payment.Create)

				cashier.POST("/cheques", h.Cheque.Create)
				cashier.PUT("/cheques/:id", h.Cheque.Update)
				cashier.POST("/cheques/:id/deliver", h.Cheque.Deliver)
				cashier.POST("/cheques/:id/reject", h.Cheque.Reject)
				cashier.POST("/cheques/:id/cash", h.Cheque.Cash)
				cashier.POST("/cheques/:id/void", h.Cheque.Void)
			}

			// Read-only routes (any authenticated role)
			protected.GET("/clients", h.Client.Index)
			protected.GET("/clients/:id", h.Client.Show)
			protected.GET("/clients/:id/pending-sales", h.Client.PendingSales)
			protected.GET("/clients/:id/movements", h.Client.Movements)
			protected.GET("/clients/:id/summary", h.Client.Summary)
			protected.GET("/clients/:id/statement.pdf", h.Client.StatementPDF)
			protected.GET("/clients/:id/movements.xlsx", h.Client.MovementsXLSX)

			protected.GET("/sales", h.Sale.Index)
			protected.GET("/sales/:id", h.Sale.Show)

			protected.GET("/payments", h.Payment.Index)
			protected.GET("/payments/:id", h.Payment.Show)
			protected.GET("/payments/:id/movements", h.Payment.Movements)

			protected.GET("/cheques", h.Cheque.Index)
			protected.GET("/cheques/:id", h.Cheque.Show)

			protected.GET("/rules", h.Rule.Index)
			protected.GET("/rules/resolve", h.Rule.Resolve)
			protected.GET("/payment-methods", h.Rule.IndexMethods)
			protected.GET("/banks", h.Treasury.IndexBanks)
			protected.GET("/accounts", h.Treasury.IndexAccounts)
			protected.GET("/cash-registers", h.Treasury.IndexCashRegisters)
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, cfg *config.Config) {
	// Warn about cheques approaching their due date once a day
	dueSoonWindow := time.Duration(cfg.ChequeDueSoonHours) * time.Hour
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Checking cheques due soon...")
		return svcs.Cheque.NotifyDueSoon(ctx, dueSoonWindow)
	})

	// Recompute ledger projections and report drift every 6 hours. Runs once
	// at startup so a fresh deploy surfaces drift right away.
	worker.ScheduleEveryImmediate(6*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Verifying ledger consistency...")
		return svcs.Client.VerifyAllLedgers(ctx)
	})

	// Purge expired refresh tokens daily
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Cleaning up expired refresh tokens...")
		return svcs.Auth.CleanupExpiredTokens(ctx)
	})
}
