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

	"github.com/maturis/maturis/internal/actors"
	"github.com/maturis/maturis/internal/analyses"
	"github.com/maturis/maturis/internal/app"
	"github.com/maturis/maturis/internal/auth"
	"github.com/maturis/maturis/internal/authz"
	"github.com/maturis/maturis/internal/entreprises"
	"github.com/maturis/maturis/internal/evaluations"
	"github.com/maturis/maturis/internal/formulaires"
	"github.com/maturis/maturis/internal/observability"
	"github.com/maturis/maturis/internal/platform/cache"
	"github.com/maturis/maturis/internal/platform/db"
	"github.com/maturis/maturis/internal/questionnaires"
	"github.com/maturis/maturis/internal/roles"
	"github.com/maturis/maturis/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping server startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
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

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	actorsRepo := actors.NewRepository(pool)
	verifier := &auth.MultiVerifier{
		JWT:    auth.NewJWTVerifier([]byte(cfg.JWTSecret), cfg.JWTIssuer, auth.NewDenylist(redisClient)),
		APIKey: auth.NewAPIKeyVerifier(actorsRepo),
	}

	authzStore := authz.NewPGStore(pool)
	permissions := authz.NewPermissions(authzStore, authzStore, logger)
	middleware := authz.Middleware{
		Verifier:    verifier,
		Actors:      authzStore,
		Permissions: permissions,
		Owners:      authzStore,
		Routes:      app.RouteTable(),
		Logger:      logger,
		Production:  cfg.IsProduction(),
		Observers: []authz.Observer{
			metrics,
			&jobs.DenialRecorder{Client: asynqClient, Logger: logger},
		},
	}

	router := app.NewRouter(app.RouterParams{
		Logger:                logger,
		Config:                cfg,
		ActorsHandler:         actors.NewHandler(logger, actors.NewService(actorsRepo), middleware),
		RolesHandler:          roles.NewHandler(logger, roles.NewService(roles.NewRepository(pool)), middleware),
		EntreprisesHandler:    entreprises.NewHandler(logger, entreprises.NewService(entreprises.NewRepository(pool)), middleware),
		QuestionnairesHandler: questionnaires.NewHandler(logger, questionnaires.NewRepository(pool), middleware),
		EvaluationsHandler:    evaluations.NewHandler(logger, evaluations.NewService(evaluations.NewRepository(pool)), middleware),
		FormulairesHandler:    formulaires.NewHandler(logger, formulaires.NewService(formulaires.NewRepository(pool)), middleware),
		AnalysesHandler:       analyses.NewHandler(logger, analyses.NewService(analyses.NewRepository(pool)), middleware),
		PermissionsHandler:    authz.NewPermissionsHandler(logger, permissions, middleware),
		Metrics:               metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
