package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/pitch-booking/internal/config"
	"github.com/iliyamo/pitch-booking/internal/database"
	"github.com/iliyamo/pitch-booking/internal/handler"
	"github.com/iliyamo/pitch-booking/internal/middleware"
	"github.com/iliyamo/pitch-booking/internal/queue"
	"github.com/iliyamo/pitch-booking/internal/repository"
	"github.com/iliyamo/pitch-booking/internal/roster"
	"github.com/iliyamo/pitch-booking/internal/router"
	"github.com/iliyamo/pitch-booking/internal/schedule"
	"github.com/iliyamo/pitch-booking/internal/service"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var noMigrate, noConsumer bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(ctxOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, !noMigrate, !noConsumer)
		},
	}
	cmd.Flags().BoolVar(&noMigrate, "no-migrate", false, "skip schema creation at startup")
	cmd.Flags().BoolVar(&noConsumer, "no-consumer", false, "do not run the audit log consumer")
	return cmd
}

func serve(ctx context.Context, migrate, consume bool) error {
	cfg, logger := app.cfg, app.logger

	if migrate {
		if err := database.Migrate(ctx, app.db); err != nil {
			return err
		}
	}

	// Redis is optional: without it the cache and rate limiter pass through.
	rdb, err := config.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, caching and rate limiting disabled", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	}

	users := repository.NewUserRepo(app.db)
	tokens := repository.NewTokenRepo(app.db)
	pitches := repository.NewPitchRepo(app.db)
	reservations := repository.NewReservationRepo(app.db)
	suspensions := repository.NewSuspensionRepo(app.db)

	svc := service.NewReservationService(
		reservations,
		suspensions,
		users,
		pitches,
		service.NewPublisher(cfg.AMQPURL, logger),
		roster.New(),
		schedule.SystemClock{Location: cfg.Location()},
		logger,
	)

	if consume {
		consumer := queue.NewConsumer(cfg.AMQPURL, logger, queue.NewAuditLog(cfg.AuditLogPath).Handlers())
		go func() {
			if err := consumer.Run(ctx); err != nil {
				logger.Error("consumer stopped", zap.Error(err))
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.NewTokenBucket(cfg.RateLimit, rdb, cfg.JWTSecret))

	router.Register(e, router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users, tokens),
		Pitches:      handler.NewPitchHandler(pitches),
		Reservations: handler.NewReservationHandler(svc),
		Admin:        handler.NewAdminHandler(svc),
		Health:       handler.Health(app.db),
	}, cfg, rdb)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("timezone", cfg.TimeZone))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
