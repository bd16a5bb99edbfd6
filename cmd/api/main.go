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

	"github.com/tigearis/finsight/internal/config"
	"github.com/tigearis/finsight/internal/database"
	"github.com/tigearis/finsight/internal/handlers"
	"github.com/tigearis/finsight/internal/jobs"
	"github.com/tigearis/finsight/internal/middleware"
	"github.com/tigearis/finsight/internal/repository"
	"github.com/tigearis/finsight/internal/services"
	"github.com/tigearis/finsight/pkg/logger"

	"github.com/gin-gonic/gin"
)

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
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg)
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
	svcs := services.NewServices(repos, worker)

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

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Everything else is scoped to the acting user
		scoped := v1.Group("")
		scoped.Use(middleware.RequireUser())
		{
			// Loans and amortization
			loans := scoped.Group("/loans")
			{
				loans.GET("", h.Loan.Index)
				loans.POST("", h.Loan.Create)
				loans.GET("/strategy", h.Loan.Strategy)
				loans.GET("/:id", h.Loan.Show)
				loans.POST("/:id/close", h.Loan.Close)
				loans.GET("/:id/schedule", h.Loan.Schedule)
				loans.GET("/:id/schedule/export", h.Loan.ExportSchedule)
				loans.POST("/:id/compare", h.Loan.Compare)
			}

			// Ledger transactions
			transactions := scoped.Group("/transactions")
			{
				transactions.GET("", h.Transaction.Index)
				transactions.POST("", h.Transaction.Create)
				transactions.POST("/import", h.Transaction.Import)
			}

			// Scheduled payment events
			events := scoped.Group("/events")
			{
				events.GET("", h.Event.Index)
				events.POST("", h.Event.Create)
				events.POST("/:id/pay", h.Event.MarkPaid)
				events.POST("/:id/cancel", h.Event.Cancel)
			}

			// Recurring-pattern detection and review
			recurring := scoped.Group("/recurring")
			{
				recurring.GET("", h.Recurring.Index)
				recurring.POST("/scan", h.Recurring.Scan)
				recurring.POST("/:id/accept", h.Recurring.Accept)
				recurring.POST("/:id/reject", h.Recurring.Reject)
			}

			// Anomaly detection
			scoped.POST("/anomalies/scan", h.Anomaly.Scan)

			// Cash-flow projection
			scoped.GET("/cashflow/projection", h.CashFlow.Projection)
			scoped.GET("/cashflow/projection/export", h.CashFlow.Export)

			// Notifications
			// Static route first so "read_all" is not matched as :id
			notifications := scoped.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.POST("/read_all", h.Notification.MarkAllAsRead)
				notifications.POST("/:id/read", h.Notification.MarkAsRead)
			}

			// Background worker status
			scoped.GET("/jobs/status", h.Job.Status)
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, cfg *config.Config) {
	// Flag missed payments and amount drift
	worker.ScheduleEveryImmediate(time.Duration(cfg.AnomalyScanHours)*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Scanning for payment anomalies...")
		return svcs.Anomaly.ScanAll(ctx, time.Now().UTC())
	})

	// Refresh recurring-pattern suggestions
	worker.ScheduleEvery(time.Duration(cfg.RecurringScanHours)*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Refreshing recurring payment detections...")
		return svcs.Recurring.ScanAll(ctx, time.Now().UTC())
	})

	logger.Info("Scheduled recurring jobs")
}
