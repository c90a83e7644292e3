package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"dossier/internal/command"
	criteriaHandler "dossier/internal/criteria/handler"
	criteriaService "dossier/internal/criteria/service"
	criteriaStore "dossier/internal/criteria/store"
	periodHandler "dossier/internal/period/handler"
	periodService "dossier/internal/period/service"
	periodStore "dossier/internal/period/store"
	"dossier/internal/platform/config"
	"dossier/internal/platform/httpserver"
	"dossier/internal/platform/kafka"
	"dossier/internal/platform/metrics"
	"dossier/internal/platform/postgres"
	"dossier/internal/platform/redis"
	"dossier/internal/rules"
	rulesStore "dossier/internal/rules/store"
	submissionHandler "dossier/internal/submission/handler"
	submissionService "dossier/internal/submission/service"
	submissionStore "dossier/internal/submission/store"
	httptransport "dossier/internal/transport/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the command HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

type stores struct {
	periods     periodService.Store
	submissions submissionService.Store
	criteria    criteriaService.Store
	rules       rules.Store
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var checks []httptransport.Option
	st := stores{
		periods:     periodStore.NewInMemory(),
		submissions: submissionStore.NewInMemory(),
		criteria:    criteriaStore.NewInMemory(),
		rules:       rulesStore.NewInMemory(),
	}

	if cfg.Postgres.DSN != "" {
		handles, err := postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		defer handles.Close()
		st = stores{
			periods:     periodStore.NewPostgres(handles.DB),
			submissions: submissionStore.NewPostgres(handles.DB),
			criteria:    criteriaStore.NewPostgres(handles.Pool),
			rules:       rulesStore.NewPostgres(handles.DB.DB),
		}
		checks = append(checks, httptransport.WithHealthCheck("postgres", handles.DB.PingContext))
		log.Info("using postgres stores")
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		st.rules = rulesStore.NewCache(redisClient.Client, st.rules, cfg.Rules.CacheTTL.Duration,
			rulesStore.WithCacheLogger(log))
		checks = append(checks, httptransport.WithHealthCheck("redis", redisClient.Health))
		log.Info("rules cached in redis", "ttl", cfg.Rules.CacheTTL.Duration)
	}

	if cfg.Rules.SeedFile != "" {
		if err := seedRules(ctx, st.rules, cfg.Rules.SeedFile, log); err != nil {
			return err
		}
	}

	dispatcherOpts := []command.Option{
		command.WithLogger(log),
		command.WithMetrics(metrics.New()),
		command.WithTracer(otel.Tracer("dossier/command")),
		command.WithServiceInfo(command.ServiceInfo{
			ID:      cfg.Server.ServiceID,
			Name:    cfg.Server.ServiceName,
			Version: cfg.Server.ServiceVersion,
		}),
	}
	publisher, err := kafka.New(ctx, cfg.Kafka, kafka.WithLogger(log))
	if err != nil {
		return err
	}
	if publisher != nil {
		defer publisher.Close()
		dispatcherOpts = append(dispatcherOpts, command.WithIncidentReporter(publisher))
		checks = append(checks, httptransport.WithHealthCheck("kafka", publisher.Health))
		log.Info("publishing incidents", "topic", cfg.Kafka.IncidentTopic)
	}

	registry := buildRegistry(cfg, st, log)
	dispatcher := command.NewDispatcher(registry, dispatcherOpts...)

	routerOpts := append([]httptransport.Option{
		httptransport.WithLogger(log),
		httptransport.WithMetricsHandler(promhttp.Handler()),
	}, checks...)
	server := httpserver.New(cfg.Server, httptransport.New(dispatcher, routerOpts...).Router())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("dossier listening", "addr", cfg.Server.Addr, "actions", len(registry.Actions()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func buildRegistry(cfg config.Config, st stores, log *slog.Logger) *command.Registry {
	ruleRepo := rules.NewRepository(st.rules)

	periods := periodService.New(st.periods, ruleRepo, periodService.WithLogger(log))
	submissions := submissionService.New(st.submissions, periods, ruleRepo, submissionService.WithLogger(log))
	criteria := criteriaService.New(st.criteria,
		criteriaService.WithLogger(log),
		criteriaService.WithLimits(criteriaService.Limits{
			CoefficientMin: cfg.Criteria.CoefficientMin,
			CoefficientMax: cfg.Criteria.CoefficientMax,
			CastLimit:      cfg.Criteria.CastLimit,
		}),
	)

	registry := command.NewRegistry()
	periodHandler.New(periods).Register(registry)
	submissionHandler.New(submissions).Register(registry)
	criteriaHandler.New(criteria).Register(registry)
	return registry
}

func seedRules(ctx context.Context, store rules.Store, path string, log *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open rules seed: %w", err)
	}
	defer f.Close()

	n, err := rules.Import(ctx, store, f)
	if err != nil {
		return err
	}
	log.Info("rules seeded", "file", path, "count", n)
	return nil
}
