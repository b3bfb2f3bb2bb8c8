package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"

	"github.com/talentbridge/talentbridge/internal/account"
	"github.com/talentbridge/talentbridge/internal/auth"
	"github.com/talentbridge/talentbridge/internal/config"
	"github.com/talentbridge/talentbridge/internal/database"
	"github.com/talentbridge/talentbridge/internal/email"
	httpServer "github.com/talentbridge/talentbridge/internal/http"
	"github.com/talentbridge/talentbridge/internal/logging"
	"github.com/talentbridge/talentbridge/internal/metrics"
)

// @title           TalentBridge Account API
// @version         1.0
// @description     Account registration, authentication, and authorization for the TalentBridge recruitment platform.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"token_backend", cfg.Auth.TokenBackend,
	)

	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	accountRepo := account.NewRepository(db)

	// One-time data migration: promote configured emails to the admin role.
	// Request-time authorization never consults this list.
	if len(cfg.Admin.BootstrapEmails) > 0 {
		promoted, err := accountRepo.PromoteByEmails(context.Background(), cfg.Admin.BootstrapEmails)
		if err != nil {
			return fmt.Errorf("failed to promote bootstrap admins: %w", err)
		}
		if promoted > 0 {
			logger.Info("promoted bootstrap admin accounts", "count", promoted)
		}
	}

	tokenService, err := newTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	emailService := email.NewService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.BaseURL,
	)

	authService := auth.NewService(
		accountRepo,
		tokenService,
		emailService,
		auth.NewPasswordHasher(),
		logger,
		cfg.Auth.SessionTokenDuration,
		cfg.Auth.ResetTokenDuration,
	)

	authHandler := auth.NewHandler(authService)
	accountHandler := account.NewHandler(accountRepo)
	authMiddleware := auth.NewMiddleware(tokenService, accountRepo)

	m := metrics.New("talentbridge")

	router := httpServer.NewRouter(cfg, authHandler, accountHandler, authMiddleware, m, logger)

	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received shutdown signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// newTokenService selects the session token implementation from config
func newTokenService(cfg config.AuthConfig) (auth.TokenService, error) {
	switch cfg.TokenBackend {
	case config.TokenBackendJWT:
		return auth.NewJWTService(cfg.SessionKey)
	default:
		return auth.NewPasetoService(cfg.SessionKey)
	}
}

// initDB initializes the database connection and returns a Bun DB instance
func initDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return database.NewBunDB(sqlDB), nil
}
