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

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Shivanand-hulikatti/event-attendee-api/internal/auth"
	"github.com/Shivanand-hulikatti/event-attendee-api/internal/config"
	"github.com/Shivanand-hulikatti/event-attendee-api/internal/database"
	"github.com/Shivanand-hulikatti/event-attendee-api/internal/handler"
	"github.com/Shivanand-hulikatti/event-attendee-api/internal/repository"
	"github.com/Shivanand-hulikatti/event-attendee-api/internal/service"
)

var (
	serverPort int
	driver     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server. With the postgres driver the connection pool is
opened first (retrying while the database starts) and pending migrations are
applied over it. The admin account from ADMIN_USERNAME / ADMIN_PASSWORD is
written to the user store before requests are accepted.

Examples:
  event-api serve --port 9090
  event-api serve --driver memory --log-level debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (default: $PORT or 8080)")
	serveCmd.Flags().StringVar(&driver, "driver", "", "storage driver: postgres or memory (default: $STORAGE_DRIVER)")
}

// loadConfig reads the environment and applies the global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}
	if driver != "" {
		cfg.Database.Driver = driver
	}
	return cfg, nil
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	logger := config.NewLogger(cfg.Logging)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	router, cleanup, err := newApp(ctx, cfg, logger)
	cancel()
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Str("driver", cfg.Database.Driver).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down server")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

type stores struct {
	events    repository.EventStore
	attendees repository.AttendeeStore
	users     repository.UserStore
}

// newApp opens the configured storage, seeds the admin account and builds
// the router. cleanup releases the storage.
func newApp(ctx context.Context, cfg config.Config, logger zerolog.Logger) (http.Handler, func(), error) {
	st, cleanup, err := openStores(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.Issuer)
	authSvc := service.NewAuthService(st.users, tokens)
	if err := authSvc.EnsureUser(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("seed admin user: %w", err)
	}
	logger.Info().Str("username", cfg.Admin.Username).Msg("admin user ready")

	router := handler.NewRouter(handler.Services{
		Auth:      authSvc,
		Events:    service.NewEventService(st.events),
		Attendees: service.NewAttendeeService(st.attendees),
		Dashboard: service.NewDashboardService(st.events, st.attendees),
	}, tokens, cfg.CORS, logger)

	return router, cleanup, nil
}

func openStores(ctx context.Context, cfg config.Config, logger zerolog.Logger) (stores, func(), error) {
	switch cfg.Database.Driver {
	case config.StorageMemory:
		logger.Warn().Msg("using in-memory storage; data is lost on restart")
		mem := repository.NewMemoryStore()
		return stores{events: mem.Events(), attendees: mem.Attendees(), users: mem.Users()}, func() {}, nil

	case config.StoragePostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return stores{}, nil, fmt.Errorf("database: %w", err)
		}
		if err := database.MigrateUp(pool); err != nil {
			pool.Close()
			return stores{}, nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info().Msg("migrations applied")
		return stores{
			events:    repository.NewEventRepository(pool),
			attendees: repository.NewAttendeeRepository(pool),
			users:     repository.NewUserRepository(pool),
		}, pool.Close, nil

	default:
		return stores{}, nil, fmt.Errorf("unknown storage driver %q", cfg.Database.Driver)
	}
}
