package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"catalog-service/internal/config"
	"catalog-service/internal/core"
	"catalog-service/internal/handler"
	"catalog-service/internal/middleware"
	"catalog-service/internal/platform/kafka"
	"catalog-service/internal/platform/sqlstore"
	"catalog-service/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(v)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) (err error) {
	log.Info("Starting catalog service",
		zap.String("addr", cfg.Server.Addr),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("db_url", maskDSN(cfg.Database.URL)),
	)

	db, err := sqlstore.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, db.Close()) }()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
	}

	producer := newProducer(cfg.Kafka, log)
	defer func() { err = multierr.Append(err, producer.Close()) }()

	h := handler.NewHandler(
		service.NewCompanyService(db, producer, log.Named("companies")),
		service.NewStoreService(db, producer, log.Named("stores")),
		service.NewProductService(db, producer, log.Named("products")),
		log.Named("http"),
	)
	health := handler.NewHealthHandler(map[string]handler.Pinger{"database": db}, log.Named("health"))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := handler.NewRouter(h, health, handler.RouterConfig{
		Log:            log.Named("access"),
		JWTSecret:      cfg.Auth.JWTSecret,
		RequestTimeout: cfg.Server.RequestTimeout,
		Metrics:        middleware.NewMetrics(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})
	if cfg.Auth.JWTSecret == "" {
		log.Warn("No JWT secret configured, mutating endpoints are unauthenticated")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Server stopped gracefully")
	return nil
}

func newProducer(cfg config.KafkaConfig, log *zap.Logger) core.EventProducer {
	if !cfg.Enabled {
		return kafka.NewNoOpProducer()
	}
	log.Info("Publishing catalog events", zap.Strings("brokers", cfg.Brokers), zap.String("topic", cfg.Topic))
	return kafka.NewProducer(cfg.Brokers, cfg.Topic, log.Named("kafka"))
}
