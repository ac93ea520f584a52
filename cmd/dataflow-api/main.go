package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shaiso/Dataflow/internal/api"
	"github.com/shaiso/Dataflow/internal/config"
	"github.com/shaiso/Dataflow/internal/domain"
	"github.com/shaiso/Dataflow/internal/mq"
	"github.com/shaiso/Dataflow/internal/registry"
	"github.com/shaiso/Dataflow/internal/repo"
	"github.com/shaiso/Dataflow/internal/seed"
	"github.com/shaiso/Dataflow/internal/telemetry"
	"github.com/shaiso/Dataflow/internal/validation"
)

var startTime = time.Now()

// definitionStore — хранилище определений (PostgreSQL или память).
type definitionStore interface {
	Create(ctx context.Context, def *domain.TaskDefinition) error
	GetByName(ctx context.Context, name string) (*domain.TaskDefinition, error)
	List(ctx context.Context) ([]domain.TaskDefinition, error)
}

// appStore — хранилище регистраций приложений (PostgreSQL или память).
type appStore interface {
	Register(ctx context.Context, reg *domain.AppRegistration) error
	GetDefault(ctx context.Context, name string, appType domain.AppType) (*domain.AppRegistration, error)
	GetVersion(ctx context.Context, name string, appType domain.AppType, version string) (*domain.AppRegistration, error)
	List(ctx context.Context, appType domain.AppType) ([]domain.AppRegistration, error)
}

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting dataflow-api")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Хранилища
	var (
		defs definitionStore
		apps appStore
	)
	switch cfg.Store {
	case config.StoreMemory:
		defs = repo.NewMemoryDefinitionRepo()
		apps = repo.NewMemoryAppRepo()
		logger.Info("using in-memory store")
	default:
		pool, err := repo.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("connected to database")

		defs = repo.NewDefinitionRepo(pool)
		apps = repo.NewAppRepo(pool)
	}

	if cfg.SeedFile != "" {
		if err := applySeed(ctx, cfg.SeedFile, defs, apps, logger); err != nil {
			logger.Error("failed to apply seed file", "path", cfg.SeedFile, "error", err)
			os.Exit(1)
		}
	}

	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)

	lookup := registry.NewRegistry(apps, registry.NewArtifactResolver(registry.ResolverConfig{
		HTTPTimeout:       cfg.ResolverHTTPTimeout,
		DockerRegistryURL: cfg.DockerRegistryURL,
		MavenRepoURL:      cfg.MavenRepoURL,
	}), logger)

	svcCfg := validation.Config{
		Definitions:    defs,
		Registry:       lookup,
		Metrics:        metrics,
		Logger:         logger,
		LookupTimeout:  cfg.LookupTimeout,
		MaxConcurrency: cfg.MaxConcurrency,
	}

	// RabbitMQ — опционально
	var amqpConn *mq.Connection
	if cfg.AMQPURL != "" {
		conn, err := mq.Dial(cfg.AMQPURL, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer conn.Close()

		if err := mq.SetupTopology(ctx, conn); err != nil {
			logger.Error("failed to setup rabbitmq topology", "error", err)
			os.Exit(1)
		}
		amqpConn = conn
		svcCfg.Notifier = mq.NewPublisher(conn, logger)
		logger.Info("connected to rabbitmq")
	}

	// Создаём API handler
	handler := api.NewHandler(api.Config{
		Validator:   validation.NewService(svcCfg),
		Definitions: defs,
		Apps:        apps,
		Metrics:     metrics,
		Logger:      logger,
	})

	mux := http.NewServeMux()

	// Health и metrics
	// Разрыв AMQP не меняет статус /healthz.
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
		if amqpConn != nil && !amqpConn.IsConnected() {
			fmt.Fprint(w, " (amqp disconnected)")
		}
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Регистрируем API маршруты
	handler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	// Graceful shutdown с таймаутом 10 секунд
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}

func applySeed(ctx context.Context, path string, defs definitionStore, apps appStore, logger *slog.Logger) error {
	file, err := seed.LoadFile(path)
	if err != nil {
		return err
	}
	if err := file.Validate(); err != nil {
		return err
	}
	return file.Apply(ctx, defs, apps, logger)
}
