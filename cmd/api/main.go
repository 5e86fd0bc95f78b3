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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/azizjun/kvartal-api/docs" // Swagger docs
	"github.com/azizjun/kvartal-api/internal/config"
	"github.com/azizjun/kvartal-api/internal/database"
	"github.com/azizjun/kvartal-api/internal/handlers"
	"github.com/azizjun/kvartal-api/internal/jobs"
	"github.com/azizjun/kvartal-api/internal/middleware"
	"github.com/azizjun/kvartal-api/internal/repository"
	"github.com/azizjun/kvartal-api/internal/services"
	"github.com/azizjun/kvartal-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Kvartal API
// @version 1.0
// @description REST API for Kvartal real estate sales and construction tracking

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

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

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, cfg, db)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs)

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
			protected.POST("/auth/change_password", h.Auth.ChangePassword)
			protected.GET("/users/me", h.User.Me)

			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				// User management (admin only)
				admin.GET("/users", h.User.Index)
				admin.POST("/users", h.User.Create)
				admin.DELETE("/users/:id", h.User.Destroy)
				admin.POST("/users/:id/restore", h.User.Restore)

				// Destructive complex/block/apartment operations
				admin.DELETE("/complexes/:id", h.Complex.Destroy)
				admin.DELETE("/blocks/:id", h.Complex.DestroyBlock)
				admin.DELETE("/apartments/:id", h.Apartment.Destroy)

				// Contract lifecycle transitions (admin only)
				admin.DELETE("/contracts/:id", h.Contract.Destroy)
				admin.POST("/contracts/:id/complete", h.Contract.Complete)
				admin.POST("/contracts/:id/cancel", h.Contract.Cancel)

				// Payment corrections (admin only)
				admin.POST("/payments/:id/revert", h.Payment.Revert)
				admin.DELETE("/payments/:id", h.Payment.Destroy)

				// Audit trail
				admin.GET("/audit_logs", h.Audit.Index)
			}

			// Profile access: admin or the user themselves
			protected.GET("/users/:id", middleware.RequireAdminOrOwner(), h.User.Show)
			protected.PUT("/users/:id", middleware.RequireAdminOrOwner(), h.User.Update)

			// Manager + admin routes (day-to-day sales operations)
			staff := protected.Group("")
			staff.Use(middleware.RequireRole("admin", "manager"))
			{
				// Complexes and blocks
				staff.GET("/complexes", h.Complex.Index)
				staff.GET("/complexes/:id", h.Complex.Show)
				staff.POST("/complexes", h.Complex.Create)
				staff.PUT("/complexes/:id", h.Complex.Update)
				staff.GET("/blocks", h.Complex.IndexBlocks)
				staff.GET("/blocks/:id", h.Complex.ShowBlock)
				staff.POST("/blocks", h.Complex.CreateBlock)
				staff.PUT("/blocks/:id", h.Complex.UpdateBlock)
				staff.POST("/blocks/:id/generate_apartments", h.Complex.GenerateApartments)

				// Apartments and layouts
				staff.GET("/apartments", h.Apartment.Index)
				staff.GET("/apartments/:id", h.Apartment.Show)
				staff.POST("/apartments", h.Apartment.Create)
				staff.PUT("/apartments/:id", h.Apartment.Update)
				staff.POST("/apartments/:id/reserve", h.Apartment.Reserve)
				staff.POST("/apartments/:id/release", h.Apartment.Release)
				staff.GET("/apartments/:id/layout", h.Layout.ShowForApartment)
				staff.PUT("/apartments/:id/layout", h.Layout.UpdateApproval)
				staff.GET("/layouts", h.Layout.Index)

				// Clients
				staff.GET("/clients", h.Client.Index)
				staff.GET("/clients/:id", h.Client.Show)
				staff.POST("/clients", h.Client.Create)
				staff.PUT("/clients/:id", h.Client.Update)
				staff.DELETE("/clients/:id", h.Client.Destroy)

				// Contracts
				staff.GET("/contracts", h.Contract.Index)
				staff.GET("/contracts/stats", h.Contract.GetStats)
				staff.GET("/contracts/export", h.Contract.Export)
				staff.GET("/contracts/:id", h.Contract.Show)
				staff.GET("/contracts/:id/statement", h.Contract.Statement)
				staff.POST("/contracts", h.Contract.Create)
				staff.PUT("/contracts/:id", h.Contract.Update)
				staff.POST("/contracts/:id/activate", h.Contract.Activate)

				// Payments
				staff.GET("/payments", h.Payment.Index)
				staff.GET("/payments/export", h.Payment.Export)
				staff.GET("/payments/:id", h.Payment.Show)
				staff.POST("/payments", h.Payment.Create)
				staff.POST("/payments/:id/complete", h.Payment.Complete)

				// Tech passports
				staff.GET("/tech_passports", h.TechPassport.Index)
				staff.GET("/tech_passports/:id", h.TechPassport.Show)
				staff.POST("/tech_passports", h.TechPassport.Create)
				staff.PUT("/tech_passports/:id", h.TechPassport.Update)
				staff.DELETE("/tech_passports/:id", h.TechPassport.Destroy)

				// Dashboard and reports
				dashboard := staff.Group("/dashboard")
				{
					dashboard.GET("", h.Dashboard.Index)
					dashboard.GET("/summary", h.Dashboard.Summary)
					dashboard.GET("/occupancy", h.Dashboard.Occupancy)
					dashboard.GET("/export", h.Dashboard.Export)
					dashboard.GET("/overdue_report", h.Dashboard.OverdueReport)
				}
				staff.GET("/jobs/status", h.Dashboard.JobStatus)
			}

			// Notifications (users can manage their own notifications)
			// Static route first so "read_all" is not matched as :id
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.POST("/read_all", h.Notification.MarkAllAsRead)
				notifications.POST("/:id/read", h.Notification.MarkAsRead)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Flag overdue payments daily
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Checking overdue payments...")
		count, err := svcs.Payment.NotifyOverdue(ctx)
		if err != nil {
			return err
		}
		logger.Info("[Job] Overdue payments flagged", "count", count)
		return nil
	})

	// Sweep fully paid active contracts every hour
	worker.ScheduleEvery(1*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Sweeping fully paid contracts...")
		count, err := svcs.Contract.CompleteFullyPaid(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			logger.Info("[Job] Contracts marked fully paid", "count", count)
		}
		return nil
	})

	// Purge expired refresh tokens every 6 hours
	worker.ScheduleEvery(6*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Cleaning up expired refresh tokens...")
		_, err := svcs.Auth.CleanupExpiredTokens(ctx)
		return err
	})

	// Trim old read notifications and audit entries daily
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Cleaning up old notifications and audit logs...")
		if _, err := svcs.Notification.Cleanup(ctx, 90); err != nil {
			return err
		}
		_, err := svcs.Audit.Cleanup(ctx, 365)
		return err
	})

	logger.Info("Scheduled recurring jobs")
}
