package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/analytics"
	analyticskafka "github.com/sampleslayer92/utopia-produkcia-sub005/internal/analytics/kafka"
	analyticsstore "github.com/sampleslayer92/utopia-produkcia-sub005/internal/analytics/store"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/diagnostics"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/autosave"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/merchant"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/progress"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/store"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/store/viewcache"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/wizard"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/platform/config"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/platform/database"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/platform/httpserver"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/platform/logger"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/platform/metrics"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/platform/middleware"
	platformredis "github.com/sampleslayer92/utopia-produkcia-sub005/internal/platform/redis"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/platform/tracing"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/presence"
	presencestore "github.com/sampleslayer92/utopia-produkcia-sub005/internal/presence/store"
	httptransport "github.com/sampleslayer92/utopia-produkcia-sub005/internal/transport/http"
	"github.com/sampleslayer92/utopia-produkcia-sub005/migrations"
	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/platform/httputil"
	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/platform/middleware/metadata"
	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/platform/middleware/requesttime"
)

// caseStore is what the wizard and the merchant linker need from persistence.
type caseStore interface {
	autosave.Store
	viewcache.Loader
	merchant.Store
}

// main wires dependencies from the environment, serves HTTP and flushes every
// open wizard session on shutdown.
func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New(cfg)
	for _, w := range cfg.Warnings {
		log.Warn("configuration", "warning", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("onboarding server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing, cfg.Environment)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	reg := metrics.NewRegistry()

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		if err := database.Migrate(ctx, db, migrations.FS, log); err != nil {
			return err
		}
	}

	rdb, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	steps := progress.DefaultSteps()
	if cfg.StepsConfigPath != "" {
		if steps, err = progress.LoadSteps(cfg.StepsConfigPath); err != nil {
			return fmt.Errorf("load step configuration: %w", err)
		}
	}

	cases := newCaseStore(db)
	var cacheBackend viewcache.Backend = viewcache.NewMemoryBackend()
	if rdb != nil {
		cacheBackend = viewcache.NewRedisBackend(rdb.Client)
	}
	cache, err := viewcache.New(cases, cacheBackend,
		viewcache.WithLogger(log),
		viewcache.WithMetrics(viewcache.NewMetrics(reg)),
	)
	if err != nil {
		return err
	}

	publisher := diagnostics.NewPublisher(
		diagnostics.WithLogger(log),
		diagnostics.WithMetrics(diagnostics.NewMetrics(reg)),
		diagnostics.WithRate(cfg.Diagnostics.RatePerSec, int(cfg.Diagnostics.RatePerSec)+1),
	)
	workerCtx, stopWorker := context.WithCancel(context.WithoutCancel(ctx))
	defer stopWorker()
	go func() {
		if err := diagnostics.NewWorker(newDiagnosticsStore(db), publisher.Inbox(), log).Run(workerCtx); err != nil &&
			!errors.Is(err, context.Canceled) {
			log.Error("diagnostics worker stopped", "error", err)
		}
	}()

	linker, err := merchant.NewLinker(cases,
		merchant.WithLogger(log),
		merchant.WithLocks(autosave.NewCaseLocks()),
		merchant.WithDiagnostics(publisher),
	)
	if err != nil {
		return err
	}

	sessions := newPresenceStore(db, rdb)
	presenceMetrics := presence.NewMetrics(reg)
	tracker, err := presence.New(sessions,
		presence.WithLogger(log),
		presence.WithMetrics(presenceMetrics),
		presence.WithSessionTTL(cfg.Presence.SessionTTL),
		presence.WithHeartbeatInterval(cfg.Presence.HeartbeatInterval),
	)
	if err != nil {
		return err
	}
	defer tracker.Close()

	janitor, err := presence.NewJanitor(sessions, cfg.Presence.JanitorSchedule,
		presence.WithJanitorLogger(log),
		presence.WithJanitorMetrics(presenceMetrics),
	)
	if err != nil {
		return err
	}
	janitor.Start()
	defer janitor.Stop()

	events, closeEvents, err := newAnalyticsStore(ctx, cfg.Kafka, db, log)
	if err != nil {
		return err
	}
	defer closeEvents()

	registry, err := wizard.NewRegistry(cases, cache,
		wizard.WithLogger(log),
		wizard.WithSteps(steps),
		wizard.WithPresence(tracker),
		wizard.WithAnalytics(events, analytics.WithMetrics(analytics.NewMetrics(reg))),
		wizard.WithAutosaveOptions(
			autosave.WithDebounce(cfg.Autosave.Debounce),
			autosave.WithMetrics(autosave.NewMetrics(reg)),
			autosave.WithDiagnostics(publisher),
			autosave.WithViewInvalidator(cache),
			autosave.WithSavedHook(linker.Hook()),
		),
	)
	if err != nil {
		return err
	}
	service, err := httptransport.NewWizardService(registry, tracker)
	if err != nil {
		return err
	}

	router := newRouter(log, reg, db, rdb)
	httptransport.New(service, log).Register(router)

	srv := httpserver.New(cfg.Server.Addr, router)
	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting onboarding server", "addr", cfg.Server.Addr, "steps", len(steps))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if err := registry.CloseAll(shutdownCtx); err != nil {
		log.Error("final auto-save failed for some sessions", "error", err)
	}
	log.Info("onboarding server stopped")
	return nil
}

func newRouter(log *slog.Logger, reg *prometheus.Registry, db *sql.DB, rdb *platformredis.Client) chi.Router {
	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		metadata.ClientMetadata,
		requesttime.Middleware,
		middleware.Identity(log),
		middleware.AccessLog(log),
		metrics.NewHTTP(reg).Middleware,
		chimw.Recoverer,
	)
	r.Handle("/metrics", metrics.Handler(reg))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}
		code := http.StatusOK
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				status["database"], code = "unavailable", http.StatusServiceUnavailable
			}
		}
		if rdb != nil {
			if err := rdb.Health(r.Context()); err != nil {
				status["redis"], code = "unavailable", http.StatusServiceUnavailable
			}
		}
		httputil.WriteJSON(w, code, status)
	})
	return r
}

func newCaseStore(db *sql.DB) caseStore {
	if db != nil {
		return store.NewPostgres(db)
	}
	return store.NewInMemoryStore()
}

func newDiagnosticsStore(db *sql.DB) diagnostics.Store {
	if db != nil {
		return diagnostics.NewPostgresStore(db)
	}
	return diagnostics.NewInMemoryStore()
}

// newPresenceStore prefers Redis, whose key expiry matches presence semantics.
func newPresenceStore(db *sql.DB, rdb *platformredis.Client) presence.Store {
	switch {
	case rdb != nil:
		return presencestore.NewRedis(rdb.Client)
	case db != nil:
		return presencestore.NewPostgres(db)
	default:
		return presencestore.NewInMemory()
	}
}

// newAnalyticsStore writes step events to Postgres (or memory) and, when
// brokers are configured, also to Kafka.
func newAnalyticsStore(ctx context.Context, cfg config.KafkaConfig, db *sql.DB, log *slog.Logger) (analytics.Store, func(), error) {
	var primary analytics.Store = analyticsstore.NewInMemory()
	if db != nil {
		primary = analyticsstore.NewPostgres(db)
	}
	if len(cfg.Brokers) == 0 {
		return primary, func() {}, nil
	}
	sink, err := analyticskafka.NewSink(cfg.Brokers, cfg.AnalyticsTopic, analyticskafka.WithLogger(log))
	if err != nil {
		return nil, nil, err
	}
	if err := sink.EnsureTopic(ctx, 3, 1); err != nil {
		log.Warn("analytics topic provisioning failed", "topic", cfg.AnalyticsTopic, "error", err)
	}
	return analytics.Fanout{primary, sink}, sink.Close, nil
}
