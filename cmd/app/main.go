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

	"eshop/cmd"
	"eshop/internal/adapters/out/kafka"
	"eshop/internal/adapters/out/postgres"
	"eshop/internal/pkg/logging"
	"eshop/internal/pkg/metrics"
	"eshop/internal/pkg/tracing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := cmd.LoadConfig(".env")
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.AppEnv)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Endpoint: cfg.OtelEndpoint,
		Insecure: !cfg.IsProduction(),
	})
	if err != nil {
		return fmt.Errorf("set up tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	db, err := gorm.Open(postgresdriver.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if err := postgres.Migrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	deps := cmd.Dependencies{
		DB:      db,
		Logger:  logger,
		Metrics: metrics.New(prometheus.DefaultRegisterer),
	}

	if cfg.RedisAddr != "" {
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		deps.CacheClient = client
		logger.Info("catalog cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	if cfg.KafkaBrokers != "" {
		publisher := kafka.NewPublisher(kafka.NewWriter(cfg.KafkaBrokers, cfg.KafkaOrderEventsTopic))
		defer publisher.Close()
		deps.Publisher = publisher
		logger.Info("outbox relay enabled", zap.String("topic", cfg.KafkaOrderEventsTopic))
	} else {
		logger.Warn("KAFKA_BROKERS is empty, order events stay in the outbox")
	}

	root := cmd.NewCompositionRoot(cfg, deps)

	jobManager, err := root.CreateJobManager()
	if err != nil {
		return fmt.Errorf("configure jobs: %w", err)
	}
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	e := newServer(db)
	go func() {
		logger.Info("http server listening", zap.String("port", cfg.HTTPPort))
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// newServer exposes the operational endpoints only.
func newServer(db *gorm.DB) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.WARN)

	e.GET("/health", func(c echo.Context) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request().Context())
		}
		if err != nil {
			return c.String(http.StatusServiceUnavailable, "Unhealthy")
		}
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	return e
}
