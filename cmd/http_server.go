package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gastaro/gastaro/internal"
	"github.com/gastaro/gastaro/internal/attachment"
	"github.com/gastaro/gastaro/internal/auth"
	authpg "github.com/gastaro/gastaro/internal/auth/postgres"
	"github.com/gastaro/gastaro/internal/core/events"
	"github.com/gastaro/gastaro/internal/dashboard"
	dashboardpg "github.com/gastaro/gastaro/internal/dashboard/postgres"
	"github.com/gastaro/gastaro/internal/expense"
	expensepg "github.com/gastaro/gastaro/internal/expense/postgres"
	"github.com/gastaro/gastaro/internal/income"
	incomepg "github.com/gastaro/gastaro/internal/income/postgres"
	"github.com/gastaro/gastaro/internal/notification"
	notificationpg "github.com/gastaro/gastaro/internal/notification/postgres"
	"github.com/gastaro/gastaro/internal/pay"
	"github.com/gastaro/gastaro/internal/sharedexpense"
	sharedexpensepg "github.com/gastaro/gastaro/internal/sharedexpense/postgres"
	"github.com/gastaro/gastaro/internal/transport/rest"
	"github.com/gastaro/gastaro/internal/user"
	userpg "github.com/gastaro/gastaro/internal/user/postgres"
	"github.com/gastaro/gastaro/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func startHTTPServer() {
	cfg, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(os.Getenv("APP_ENV"))
	log := logger.L()

	sqlxDB, gormDB, err := initDB(cfg.Database)
	if err != nil {
		log.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	router, err := buildRouter(cfg, sqlxDB, gormDB)
	if err != nil {
		log.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("server shutdown error", "error", err)
		}
		if err := sqlxDB.Close(); err != nil {
			log.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	log.Info("server stopped")
}

func buildRouter(cfg *internal.Config, sqlxDB *sqlx.DB, gormDB *gorm.DB) (http.Handler, error) {
	log := logger.L()

	bus := events.NewEventBus(log)

	notificationSvc := notification.NewService(notificationpg.NewNotificationRepository(gormDB), log)
	notification.NewEventHandler(notificationSvc, log).RegisterHandlers(bus)

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenTTL,
		cfg.Security.RefreshTokenTTL,
	)
	authSvc := auth.NewService(authpg.NewRepository(gormDB), tokens, cfg.Security.BCryptCost, log)
	userSvc := user.NewService(userpg.NewUserRepository(gormDB), cfg.Security.BCryptCost, log)

	expenseSvc := expense.NewService(expensepg.NewExpenseRepository(gormDB), bus, log)
	incomeSvc := income.NewService(incomepg.NewIncomeRepository(gormDB), bus, log)
	sharedSvc := sharedexpense.NewService(sharedexpensepg.NewProposalRepository(gormDB), userSvc, bus, log)
	paySvc := pay.NewService(bus, log)
	dashboardSvc := dashboard.NewService(dashboardpg.NewDashboardRepository(sqlxDB), log)

	storage, err := attachment.NewStorage(cfg.Storage.AttachmentDir, cfg.Storage.MaxUploadSizeByte, log)
	if err != nil {
		return nil, err
	}

	spec, err := os.ReadFile("api/openapi.yml")
	if err != nil {
		log.Warn("openapi spec not found, serving empty document", "error", err)
		spec = []byte{}
	}

	handlers := rest.Handlers{
		Auth:          auth.NewHandler(authSvc, userSvc),
		User:          user.NewHandler(userSvc),
		Expense:       expense.NewHandler(expenseSvc),
		Income:        income.NewHandler(incomeSvc),
		SharedExpense: sharedexpense.NewHandler(sharedSvc),
		Notification:  notification.NewHandler(notificationSvc),
		Pay:           pay.NewHandler(paySvc),
		Dashboard:     dashboard.NewHandler(dashboardSvc),
		Attachment:    attachment.NewHandler(storage),
	}

	return rest.NewRouter(handlers, sqlxDB.DB, spec), nil
}

// initDB opens one pgx connection pool and layers GORM over the same
// *sql.DB, so the domain repositories and the sqlx read side share a pool.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, *gorm.DB, error) {
	sqlxDB, err := sqlx.Connect("pgx", cfg.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlxDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlxDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlxDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlxDB.Ping(); err != nil {
		_ = sqlxDB.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		_ = sqlxDB.Close()
		return nil, nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	return sqlxDB, gormDB, nil
}
