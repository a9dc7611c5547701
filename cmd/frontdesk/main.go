package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/folio-desk/frontdesk/internal/app"
	"github.com/folio-desk/frontdesk/internal/auth"
	"github.com/folio-desk/frontdesk/internal/authguard"
	"github.com/folio-desk/frontdesk/internal/backend"
	"github.com/folio-desk/frontdesk/internal/credential"
	"github.com/folio-desk/frontdesk/internal/observability"
	"github.com/folio-desk/frontdesk/internal/platform/cache"
	"github.com/folio-desk/frontdesk/internal/tickets"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr, 5*time.Second)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	tokens := credential.NewStore(redisClient, cfg.TokenCookie, cfg.TokenSecret, cfg.TokenTTL,
		credential.WithLogger(logger),
		credential.WithSecureCookie(cfg.IsProduction()))
	guard := authguard.Guard{
		Store: tokens,
		Routes: authguard.Routes{
			AnonymousLanding:     cfg.AnonymousLanding,
			AuthenticatedLanding: cfg.AuthenticatedLanding,
		},
		Logger: logger,
	}
	backendClient := backend.NewClient(cfg.BackendURL, nil, logger, cfg.BackendTimeout)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		Guard:          guard,
		AuthHandler:    auth.NewHandler(logger, auth.NewService(backendClient, tokens), tokens, guard),
		TicketsHandler: tickets.NewHandler(logger, backendClient, cfg.DefaultPageSize, metrics),
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("http server starting", slog.String("addr", cfg.AppAddr), slog.String("backend", cfg.BackendURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("http server shutting down")
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}
