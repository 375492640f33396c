package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/centrushr/hr-management/internal"
	"github.com/centrushr/hr-management/internal/attachment"
	attachmentsqlite "github.com/centrushr/hr-management/internal/attachment/sqlite"
	"github.com/centrushr/hr-management/internal/auth"
	authsqlite "github.com/centrushr/hr-management/internal/auth/sqlite"
	"github.com/centrushr/hr-management/internal/core/events"
	"github.com/centrushr/hr-management/internal/employee"
	employeesqlite "github.com/centrushr/hr-management/internal/employee/sqlite"
	"github.com/centrushr/hr-management/internal/notification"
	notificationsqlite "github.com/centrushr/hr-management/internal/notification/sqlite"
	"github.com/centrushr/hr-management/internal/transport/rest"
	"github.com/centrushr/hr-management/internal/travel"
	travelsqlite "github.com/centrushr/hr-management/internal/travel/sqlite"
	"github.com/centrushr/hr-management/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config    *internal.Config
	DB        *gorm.DB
	Router    *chi.Mux
	EventBus  *events.EventBus
	StreamHub *notification.StreamHub
	Logger    *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	go deps.StreamHub.Run()

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := internal.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		deps.StreamHub.Stop()
		if sqlDB, err := deps.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				deps.Logger.Error("database close error", "error", err)
			}
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Level, config.Logging.Format)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	eventBus := events.NewEventBus(lg)
	streamHub := notification.NewStreamHub(lg)

	// Repositories
	authRepo := authsqlite.NewRepository(db)
	employeeRepo := employeesqlite.NewRepository(db)
	travelRepo := travelsqlite.NewRepository(db)
	attachmentRepo := attachmentsqlite.NewRepository(db)
	notificationRepo := notificationsqlite.NewRepository(db)

	// Services
	authService := auth.NewService(authRepo, lg, config.Security.BCryptCost, config.Security.EffectiveSessionTTL())
	employeeService := employee.NewService(employeeRepo, eventBus, lg)
	travelService := travel.NewService(travelRepo, employeeService, eventBus, lg)
	attachmentService := attachment.NewService(attachmentRepo, travelRepo, employeeService, eventBus, lg)
	notificationService := notification.NewService(notificationRepo, lg)
	notificationService.SetStreamer(streamHub)

	// Event subscriptions
	notificationEvents := notification.NewEventHandler(notificationService, authRepo, lg)
	notificationEvents.RegisterSubscriptions(eventBus)

	// Handlers
	authHandler := auth.NewHandler(authService)
	employeeHandler := employee.NewHandler(employeeService)
	travelHandler := travel.NewHandler(travelService)
	attachmentHandler := attachment.NewHandler(attachmentService)
	notificationHandler := notification.NewHandler(notificationService, authService, streamHub)

	router := chi.NewRouter()

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql.DB: %w", err)
	}

	rest.RegisterAllRoutes(router, sqlDB, authHandler, employeeHandler, travelHandler, attachmentHandler, notificationHandler, lg)

	return &Dependencies{
		Config:    config,
		DB:        db,
		Router:    router,
		EventBus:  eventBus,
		StreamHub: streamHub,
		Logger:    lg,
	}, nil
}

// initDB opens the database with the configured GORM dialect. SQLite is the
// default single-binary store; postgres serves shared deployments.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Source)
	default:
		dialector = sqlite.Open(cfg.Source)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
