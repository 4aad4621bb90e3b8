package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"certify/internal/issuance"
	"certify/internal/issuance/handler"
	"certify/internal/issuance/intake"
	issuancemetrics "certify/internal/issuance/metrics"
	"certify/internal/issuance/notify"
	"certify/internal/issuance/render"
	"certify/internal/issuance/service"
	issuancestore "certify/internal/issuance/store"
	"certify/internal/platform/config"
	"certify/internal/platform/httpserver"
	"certify/internal/platform/logger"
	"certify/internal/platform/metrics"
	"certify/internal/platform/middleware"
	"certify/internal/platform/redis"
	"certify/internal/reference"
	refstore "certify/internal/reference/store"
)

// main wires dependencies, exposes the HTTP router and, when brokers are
// configured, the Kafka intake. Business logic lives in internal/issuance.
func main() {
	log := logger.New()
	if err := run(log); err != nil {
		log.Error("certify stopped", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]handler.HealthCheck{}

	source, closeSource, err := buildReferenceSource(ctx, cfg, log, checks)
	if err != nil {
		return err
	}
	defer closeSource()

	runs, closeLog, err := buildIssuanceLog(ctx, cfg, checks)
	if err != nil {
		return err
	}
	defer closeLog()

	mailer, err := buildMailer(cfg.Mail, log)
	if err != nil {
		return err
	}

	renderer := render.New(
		render.NewFSTemplateStore(cfg.Certificate.TemplatePath, cfg.Certificate.WorkDir),
		render.NewPDFConverter(render.WithUTF8Font(cfg.Certificate.FontPath)),
		render.NewFSArtifactStore(cfg.Certificate.OutputDir),
		render.WithLogger(log),
	)
	dispatcher := notify.New(mailer, cfg.Certificate.OperatorEmail, notify.WithLogger(log))
	svc := issuance.NewService(source, renderer, dispatcher, cfg.Certificate,
		service.WithLogger(log),
		service.WithMetrics(issuancemetrics.New()),
		service.WithIssuanceLog(runs),
		service.WithSendTimeout(cfg.Mail.SendTimeout),
	)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.LatencyMiddleware(metrics.New()))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	router.Handle("/metrics", promhttp.Handler())
	issuance.NewHandler(svc, runs, checks, log).Register(router)

	srv := httpserver.New(cfg.Server.Addr, router, cfg.Server.RequestTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting certify", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if len(cfg.Kafka.Brokers) > 0 {
		consumer, err := intake.NewConsumer(cfg.Kafka, svc, intake.WithConsumerLogger(log))
		if err != nil {
			return err
		}
		g.Go(func() error {
			log.Info("consuming claims", "topic", cfg.Kafka.Topic, "group", cfg.Kafka.Group)
			if err := consumer.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("kafka consumer: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			consumer.Close()
			return nil
		})
	}

	return g.Wait()
}

// buildReferenceSource prefers the CSV export over Postgres and puts the Redis
// cache in front when REDIS_URL is set.
func buildReferenceSource(ctx context.Context, cfg config.Config, log *slog.Logger, checks map[string]handler.HealthCheck) (reference.Source, func(), error) {
	var (
		source  reference.Source
		closers []func()
	)
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.Reference.CSVPath != "" {
		source = refstore.NewCSVStore(cfg.Reference.CSVPath)
	} else {
		pg, err := refstore.OpenPostgres(ctx, cfg.Reference.PostgresDSN, cfg.Reference.Table)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { _ = pg.Close() })
		checks["reference_db"] = pg.Health
		source = pg
	}

	rdb, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	if rdb != nil {
		closers = append(closers, func() { _ = rdb.Close() })
		checks["redis"] = rdb.Health
		source = refstore.NewCachedStore(source, rdb.Client, cfg.Reference.CacheTTL, refstore.WithCacheLogger(log))
	}
	return source, closeAll, nil
}

type issuanceLog interface {
	service.IssuanceLog
	handler.IssuanceLog
}

func buildIssuanceLog(ctx context.Context, cfg config.Config, checks map[string]handler.HealthCheck) (issuanceLog, func(), error) {
	if cfg.DatabaseURL == "" {
		return issuancestore.NewInMemoryStore(), func() {}, nil
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect issuance database: %w", err)
	}
	st := issuancestore.NewPostgres(pool)
	if err := st.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	checks["issuance_db"] = pool.Ping
	return st, pool.Close, nil
}

func buildMailer(cfg config.Mail, log *slog.Logger) (notify.Mailer, error) {
	if cfg.Host == "" {
		log.Warn("SMTP_HOST not set, mail will only be logged")
		return notify.NewLogMailer(log), nil
	}
	return notify.NewSMTPMailer(cfg)
}
