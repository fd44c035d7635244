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

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/terojleinonen/cms-admin/internal/app"
	"github.com/terojleinonen/cms-admin/internal/audit"
	"github.com/terojleinonen/cms-admin/internal/auth"
	"github.com/terojleinonen/cms-admin/internal/authz"
	"github.com/terojleinonen/cms-admin/internal/observability"
	"github.com/terojleinonen/cms-admin/internal/platform/cache"
	"github.com/terojleinonen/cms-admin/internal/platform/db"
	"github.com/terojleinonen/cms-admin/internal/products"
	"github.com/terojleinonen/cms-admin/internal/shared"
	"github.com/terojleinonen/cms-admin/internal/users"
	"github.com/terojleinonen/cms-admin/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionCookie, cfg.SessionTTL, cfg.IsProduction())

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq close", slog.Any("error", err))
		}
	}()
	enqueuer := jobs.NewEnqueuer(asynqClient, logger)

	metrics := observability.NewMetrics()

	authService := auth.NewService(auth.NewRepository(pool))
	resolver := authz.NewResolver().
		WithComposer(authz.NewComposer(logger, cfg.AuthzDebug))
	gate := authz.Gate{
		Resolver: resolver,
		Identity: app.SessionIdentity{Accounts: authService},
		Logger:   logger,
		Metrics:  metrics,
		OnUnauthorized: func(u *authz.User, pol authz.Policy, reason string) {
			entry := audit.Entry{
				Action: "access.denied",
				Entity: "authorization",
				Meta:   policyMeta(pol, reason),
			}
			if u != nil {
				entry.ActorID = u.ID
			}
			enqueuer.RecordAudit(context.Background(), entry)
		},
	}

	authHandler := auth.NewHandler(logger, authService, sessionManager, gate)
	usersHandler := users.NewHandler(logger, users.NewService(users.NewRepository(pool)), gate)
	productsHandler := products.NewHandler(logger, products.NewService(products.NewRepository(pool)), resolver, gate)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		SessionManager:  sessionManager,
		AuthHandler:     authHandler,
		UsersHandler:    usersHandler,
		ProductsHandler: productsHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func policyMeta(pol authz.Policy, reason string) map[string]any {
	meta := map[string]any{"reason": reason}
	if len(pol.Permissions) > 0 {
		perms := make([]string, 0, len(pol.Permissions))
		for _, p := range pol.Permissions {
			perms = append(perms, p.String())
		}
		meta["permissions"] = perms
	}
	if pol.MinimumRole != "" {
		meta["minimum_role"] = string(pol.MinimumRole)
	}
	return meta
}
