package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/droneflow/droneflow-backend/internal/config"
	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/droneflow/droneflow-backend/internal/handler"
	"github.com/droneflow/droneflow-backend/internal/middleware"
	"github.com/droneflow/droneflow-backend/internal/repository/postgres"
	"github.com/droneflow/droneflow-backend/internal/repository/storage"
	"github.com/droneflow/droneflow-backend/internal/repository/supabase"
	"github.com/droneflow/droneflow-backend/internal/scheduler"
	"github.com/droneflow/droneflow-backend/internal/service"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	store, err := openLedger(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.LedgerBackend).Msg("Failed to open ledger store")
	}
	defer store.close()
	log.Info().Str("backend", cfg.LedgerBackend).Msg("Ledger store ready")

	settings := cfg.Settings()

	// Initialize services
	monthService := service.NewMonthService(store.clients, store.services, store.expenses, store.closedMonths, settings)
	if !cfg.ReopenRestoresRecords {
		monthService.SetReopenPolicy(service.ReopenKeepRecordsClosed)
	}
	if cfg.ArchiveMirrorEnabled() {
		exporter, err := storage.NewS3ArchiveRepository(ctx, cfg.S3())
		if err != nil {
			log.Fatal().Err(err).Str("bucket", cfg.S3Bucket).Msg("Failed to initialize archive mirror")
		}
		monthService.SetArchiveExporter(exporter)
		log.Info().Str("bucket", cfg.S3Bucket).Msg("Archive mirror enabled")
	}
	clientService := service.NewClientService(store.clients, settings.Roster)
	serviceRecordService := service.NewServiceRecordService(store.services, store.clients, store.closedMonths)
	expenseService := service.NewExpenseService(store.expenses, store.closedMonths)
	agendaService := service.NewAgendaService(store.agenda, store.clients, serviceRecordService)
	dashboardService := service.NewDashboardService(monthService)

	// Protected route middleware: auth first so the limiter can key by subject
	var protected []echo.MiddlewareFunc
	if cfg.AuthJWTSecret != "" {
		issuer := cfg.AuthIssuer
		if issuer == "" {
			issuer = strings.TrimSuffix(cfg.SupabaseURL, "/") + "/auth/v1"
		}
		authMiddleware, err := middleware.NewAuthMiddleware(cfg.AuthJWTSecret, issuer, cfg.AuthAudience)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create auth middleware")
		}
		protected = append(protected, authMiddleware.Authenticate())
	} else {
		log.Warn().Msg("AUTH_JWT_SECRET not set, API is unauthenticated")
	}
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()
	protected = append(protected, middleware.RateLimitMiddleware(rateLimiter))

	// Initialize handlers
	clientHandler := handler.NewClientHandler(clientService)
	serviceRecordHandler := handler.NewServiceRecordHandler(serviceRecordService, monthService)
	expenseHandler := handler.NewExpenseHandler(expenseService, monthService)
	agendaHandler := handler.NewAgendaHandler(agendaService, monthService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, monthService)
	closingHandler := handler.NewClosingHandler(monthService)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.RequestID())

	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	e.Use(zerologMiddleware())
	e.Use(echomiddleware.Recover())

	handler.RegisterRoutes(e, protected, clientHandler, serviceRecordHandler, expenseHandler, agendaHandler, dashboardHandler, closingHandler)

	// Closing reminder
	reminder := scheduler.NewScheduler(monthService, cfg.ClosingReminderCron)
	if err := reminder.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	reminder.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// ledger bundles the repositories of the configured backend
type ledger struct {
	clients      domain.ClientRepository
	services     domain.ServiceRecordRepository
	expenses     domain.ExpenseRepository
	agenda       domain.AgendaRepository
	closedMonths domain.ClosedMonthRepository
	close        func()
}

func openLedger(ctx context.Context, cfg *config.Config) (*ledger, error) {
	switch cfg.LedgerBackend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if cfg.DatabaseAutoMigrate {
			if err := postgres.EnsureSchema(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &ledger{
			clients:      postgres.NewClientRepository(pool),
			services:     postgres.NewServiceRecordRepository(pool),
			expenses:     postgres.NewExpenseRepository(pool),
			agenda:       postgres.NewAgendaRepository(pool),
			closedMonths: postgres.NewClosedMonthRepository(pool),
			close:        pool.Close,
		}, nil

	case config.BackendSupabase:
		client := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey)
		return &ledger{
			clients:      supabase.NewClientRepository(client),
			services:     supabase.NewServiceRecordRepository(client),
			expenses:     supabase.NewExpenseRepository(client),
			agenda:       supabase.NewAgendaRepository(client),
			closedMonths: supabase.NewClosedMonthRepository(client),
			close:        func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown ledger backend %q", cfg.LedgerBackend)
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
