package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/zunw/ecommerce/internal/config"
	"github.com/zunw/ecommerce/internal/event"
	handler "github.com/zunw/ecommerce/internal/handler/http"
	"github.com/zunw/ecommerce/internal/repository"
	"github.com/zunw/ecommerce/internal/repository/postgres"
	redisrepo "github.com/zunw/ecommerce/internal/repository/redis"
	"github.com/zunw/ecommerce/internal/service"
	"github.com/zunw/ecommerce/pkg/breaker"
	"github.com/zunw/ecommerce/pkg/database"
	"github.com/zunw/ecommerce/pkg/health"
	pkgkafka "github.com/zunw/ecommerce/pkg/kafka"
	"github.com/zunw/ecommerce/pkg/middleware"
	"github.com/zunw/ecommerce/pkg/tracing"
)

// App wires together all dependencies and runs the catalog service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	pool            *pgxpool.Pool
	rdb             *redis.Client
	producer        *pkgkafka.Producer
	shutdownTracing tracing.ShutdownFunc
	httpServer      *http.Server
}

// dependencies are the external resources the HTTP server is built from.
// redis and events are optional.
type dependencies struct {
	db         database.DBTX
	dbPing     health.Checker
	redis      redis.Cmdable
	redisPing  health.Checker
	events     event.Publisher
	eventsPing health.Checker
	registry   *prometheus.Registry
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing())
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.shutdownTracing = shutdownTracing

	database.SetSlowQueryLogging(cfg.SlowQueryThreshold, logger)

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), logger)
	if err != nil {
		a.release()
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	a.pool = pool
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.String("database", cfg.PostgresDB),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := database.RegisterPoolMetrics(registry, pool, config.ServiceName); err != nil {
		a.release()
		return nil, fmt.Errorf("register pool metrics: %w", err)
	}

	deps := dependencies{
		db:       pool,
		dbPing:   pool.Ping,
		registry: registry,
	}

	if cfg.RedisEnabled {
		rdb, err := database.NewRedisClient(ctx, cfg.Redis())
		if err != nil {
			a.release()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.rdb = rdb
		deps.redis = rdb
		deps.redisPing = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
	}

	if cfg.KafkaEnabled {
		producer := pkgkafka.NewProducer(cfg.Kafka(), logger)
		a.producer = producer
		deps.events = producer
		deps.eventsPing = producer.Ping
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	a.httpServer = newServer(cfg, logger, deps)
	return a, nil
}

// newServer builds the dependency graph on top of deps and returns the HTTP
// server serving it.
func newServer(cfg *config.Config, logger *slog.Logger, deps dependencies) *http.Server {
	var statusRepo repository.StatusRepository = postgres.NewStatusRepository(deps.db)
	if deps.redis != nil {
		var gauge *prometheus.GaugeVec
		if deps.registry != nil {
			gauge = breaker.NewStateGauge(deps.registry)
		}
		cb := breaker.New[[]byte](redisrepo.BreakerConfig(), logger, gauge)
		statusRepo = redisrepo.NewStatusCache(statusRepo, deps.redis, cfg.StatusCacheTTL, cb, logger)
	}

	var brandEvents service.BrandEvents
	if deps.events != nil {
		brandEvents = event.NewProducer(deps.events, logger)
	}

	svcs := handler.Services{
		Brand:    service.NewBrandService(postgres.NewBrandRepository(deps.db), brandEvents, logger),
		Product:  service.NewProductService(postgres.NewProductRepository(deps.db), logger),
		Status:   service.NewStatusService(statusRepo, cfg.StatusNameCaseInsensitive),
		Category: service.NewCategoryService(postgres.NewCategoryRepository(deps.db)),
	}

	// Health checks. Only the database decides readiness.
	healthHandler := health.NewHandler()
	healthHandler.SetTimeout(cfg.HealthCheckTimeout)
	if deps.dbPing != nil {
		healthHandler.RegisterCritical("postgres", deps.dbPing)
	}
	if deps.redisPing != nil {
		healthHandler.Register("redis", deps.redisPing)
	}
	if deps.eventsPing != nil {
		healthHandler.Register("kafka", deps.eventsPing)
	}

	cors := cfg.CORS()
	opts := handler.RouterOptions{
		CORS:         &cors,
		PprofEnabled: cfg.PprofEnabled,
		PprofCIDRs:   cfg.PprofAllowedCIDRs,
	}
	if deps.registry != nil {
		opts.Metrics = middleware.NewMetrics(deps.registry, config.ServiceName)
		opts.MetricsHandler = promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{Registry: deps.registry})
	}

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler.NewRouter(svcs, healthHandler, opts, logger),
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.release()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components: HTTP first, then the tracer,
// Kafka, Redis and finally PostgreSQL.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, fmt.Errorf("http server: %w", err))
	}

	a.release()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// release closes every resource acquired so far. It is safe on a partially
// built App.
func (a *App) release() {
	if a.shutdownTracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.shutdownTracing(ctx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
		cancel()
		a.shutdownTracing = nil
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
		a.producer = nil
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
		a.rdb = nil
	}
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
}
