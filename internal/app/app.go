package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/siron93/moms-app/internal/adapter/postgres"
	"github.com/siron93/moms-app/internal/adapter/postgres/milestone"
	"github.com/siron93/moms-app/internal/adapter/postgres/record"
	"github.com/siron93/moms-app/internal/adapter/postgres/subject"
	"github.com/siron93/moms-app/internal/config"
	"github.com/siron93/moms-app/internal/service/timeline"
	"github.com/siron93/moms-app/internal/transport/middleware"
	"github.com/siron93/moms-app/internal/transport/rest"
)

// Run is the server entry point. It loads configuration, connects to the
// database, and serves the timeline API until ctx is canceled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	milestones := milestone.New(pool)
	svc := timeline.NewService(
		logger,
		record.New(pool),
		milestones,
		subject.New(pool),
		cfg.Timeline,
	)

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	health := rest.NewHealthHandler(BuildVersion(),
		rest.Check{Name: "database", Ping: pool.Ping},
		rest.Check{Name: "milestones", Ping: func(ctx context.Context) error {
			_, err := milestones.GetAll(ctx)
			return err
		}},
	)

	handler := rest.NewRouter(
		rest.NewTimelineHandler(svc, logger),
		health,
		middleware.Chain(
			middleware.RequestID(),
			middleware.Logger(logger),
			middleware.Recovery(logger),
			middleware.CORS(cfg.CORS),
			limiter.Limit(cfg.Server.RateLimit),
		),
	)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
