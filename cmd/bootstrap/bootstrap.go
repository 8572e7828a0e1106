package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cabinet-medical-api/config"
	deliveryHttp "cabinet-medical-api/internal/delivery/http"
	"cabinet-medical-api/internal/delivery/http/handler"
	"cabinet-medical-api/internal/delivery/http/middleware"
	"cabinet-medical-api/internal/infrastructure/cache"
	"cabinet-medical-api/internal/infrastructure/database"
	"cabinet-medical-api/internal/infrastructure/messaging"
	"cabinet-medical-api/internal/repository"
	"cabinet-medical-api/internal/service"
	"cabinet-medical-api/internal/usecase"
	"cabinet-medical-api/pkg/jwt"
	"cabinet-medical-api/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server

	queueUsecase    usecase.QueueUsecase
	reminderService *service.ReminderService
	stopSchedulers  chan struct{}
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{stopSchedulers: make(chan struct{})}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	app.Server = app.initializeServer(cfg, db, redisClient)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	medecinRepo := repository.NewMedecinRepository()
	patientRepo := repository.NewPatientRepository()
	rendezVousRepo := repository.NewRendezVousRepository()
	biologicalRepo := repository.NewBiologicalRequestRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize services
	auditService := service.NewAuditService(db, log, auditLogRepo)
	whatsappClient := messaging.NewTwilioWhatsAppClient(cfg.Twilio)
	app.reminderService = service.NewReminderService(db, log, rendezVousRepo, whatsappClient)

	// Initialize usecases. The broadcast hub sits between the waiting-line
	// usecase (its snapshot source) and the queue usecase (its trigger).
	waitingLineUsecase := usecase.NewWaitingLineUsecase(db, log, rendezVousRepo)
	hub := service.NewBroadcastHub(log, waitingLineUsecase)

	authUsecase := usecase.NewAuthUsecase(db, log, medecinRepo, auditService, jwtService, redisClient)
	patientUsecase := usecase.NewPatientUsecase(db, log, patientRepo, rendezVousRepo, auditService)
	rendezVousUsecase := usecase.NewRendezVousUsecase(db, log, rendezVousRepo, patientRepo, auditService)
	queueUsecase := usecase.NewQueueUsecase(db, log, rendezVousRepo, patientRepo, auditService, hub)
	biologicalUsecase := usecase.NewBiologicalRequestUsecase(db, log, biologicalRepo, patientRepo, auditService)
	app.queueUsecase = queueUsecase

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	patientHandler := handler.NewPatientHandler(patientUsecase, customValidator)
	rendezVousHandler := handler.NewRendezVousHandler(rendezVousUsecase, customValidator)
	queueHandler := handler.NewQueueHandler(queueUsecase, customValidator)
	biologicalHandler := handler.NewBiologicalRequestHandler(biologicalUsecase, customValidator)
	reminderHandler := handler.NewReminderHandler(app.reminderService)
	publicHandler := handler.NewPublicHandler(log, waitingLineUsecase, hub)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		patientHandler,
		rendezVousHandler,
		queueHandler,
		biologicalHandler,
		reminderHandler,
		publicHandler,
		authMiddleware,
		corsMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	app.startSchedulers()

	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// startSchedulers launches the nightly jobs: the sweep that cancels expired
// Scheduled rendez-vous runs just after midnight, the WhatsApp reminder batch
// for tomorrow's appointments runs in the evening. The sweep also runs once
// at startup so a restart never leaves stale rows behind.
func (app *App) startSchedulers() {
	go func() {
		if _, err := app.queueUsecase.SweepExpired(context.Background()); err != nil {
			logrus.Errorf("Startup sweep failed: %v", err)
		}
	}()

	go app.runDaily("sweep", 0, 5, func(ctx context.Context) error {
		_, err := app.queueUsecase.SweepExpired(ctx)
		return err
	})

	go app.runDaily("reminders", 18, 0, func(ctx context.Context) error {
		_, err := app.reminderService.SendTomorrowReminders(ctx)
		if err == messaging.ErrNotConfigured {
			return nil
		}
		return err
	})
}

// runDaily invokes job every day at the given local wall-clock time until
// the schedulers are stopped.
func (app *App) runDaily(name string, hour, minute int, job func(ctx context.Context) error) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-timer.C:
			if err := job(context.Background()); err != nil {
				logrus.Errorf("Scheduled job %s failed: %v", name, err)
			}
		case <-app.stopSchedulers:
			timer.Stop()
			return
		}
	}
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	close(app.stopSchedulers)

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
