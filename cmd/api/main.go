// The api binary serves the tenant-facing HTTP surface and the
// operator-only platform surface from one process. Every tenant route
// sits behind the principal and tenant middleware chain; the platform
// surface runs on a separately-credentialed pool and is meant to be
// reachable only from the operator network.
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
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/hsedigital/platform/modules/api"
	"github.com/hsedigital/platform/modules/audits"
	"github.com/hsedigital/platform/modules/contractors"
	"github.com/hsedigital/platform/modules/formdefs"
	"github.com/hsedigital/platform/modules/incidents"
	"github.com/hsedigital/platform/modules/stations"
	"github.com/hsedigital/platform/modules/users"
	"github.com/hsedigital/platform/modules/workpermits"
	"github.com/hsedigital/platform/pkg/accesslog"
	"github.com/hsedigital/platform/pkg/clientip"
	"github.com/hsedigital/platform/pkg/config"
	"github.com/hsedigital/platform/pkg/httpserver"
	"github.com/hsedigital/platform/pkg/logger"
	"github.com/hsedigital/platform/pkg/opensearch"
	"github.com/hsedigital/platform/pkg/pg"
	"github.com/hsedigital/platform/pkg/principal"
	"github.com/hsedigital/platform/pkg/ratelimiter"
	"github.com/hsedigital/platform/pkg/redis"
	"github.com/hsedigital/platform/pkg/requestid"
	"github.com/hsedigital/platform/pkg/scoped"
	"github.com/hsedigital/platform/pkg/tenant"
	"github.com/hsedigital/platform/svc/directory"
	"github.com/hsedigital/platform/svc/platformadmin"
	"github.com/hsedigital/platform/svc/usage"
)

const serviceName = "hse-api"

type appConfig struct {
	Env       string `env:"APP_ENV" envDefault:"development"`
	PlansPath string `env:"PLANS_PATH" envDefault:"configs/plans.yaml"`

	// PlatformConnURL is the separately-credentialed DSN for the operator
	// surface. When empty the main pool is reused, which is acceptable
	// only for local development.
	PlatformConnURL string `env:"PLATFORM_PG_CONN_URL"`

	CacheTTL    time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`
	CacheL1TTL  time.Duration `env:"TENANT_CACHE_L1_TTL" envDefault:"30s"`
	CacheL1Size int64         `env:"TENANT_CACHE_L1_SIZE" envDefault:"10000"`

	// SearchSinkEnabled mirrors access log entries into OpenSearch for
	// compliance review tooling. Requires the OPENSEARCH_* variables.
	SearchSinkEnabled bool `env:"ACCESSLOG_SEARCH_ENABLED" envDefault:"false"`

	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("api failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		appCfg   appConfig
		httpCfg  httpserver.Config
		pgCfg    pg.Config
		redisCfg redis.Config
		authCfg  principal.Config
		rlCfg    ratelimiter.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&authCfg)
	config.MustLoad(&rlCfg)

	log := logger.New(
		logger.WithEnvironment(appCfg.Env, serviceName),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			principal.LoggerExtractor(),
			tenant.LoggerExtractor(),
		),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	platformPool := pool
	if appCfg.PlatformConnURL != "" {
		platformCfg := pgCfg
		platformCfg.ConnectionString = appCfg.PlatformConnURL
		platformPool, err = pg.Connect(ctx, platformCfg)
		if err != nil {
			return fmt.Errorf("platform postgres: %w", err)
		}
		defer platformPool.Close()
	} else {
		log.WarnContext(ctx, "platform surface is sharing the application pool",
			logger.Component("platformadmin"))
	}

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer redisClient.Close()

	verifier, err := principal.New(authCfg)
	if err != nil {
		return fmt.Errorf("token verifier: %w", err)
	}

	// Access log pipeline. Request-path entries go through the async
	// batch writer; the operator surface writes synchronously so a
	// failed audit write can abort the operation.
	pgSink := accesslog.NewPGStorage(pool)
	var sink accesslog.Writer = pgSink
	if appCfg.SearchSinkEnabled {
		var osCfg opensearch.Config
		config.MustLoad(&osCfg)
		osClient, err := opensearch.New(ctx, osCfg)
		if err != nil {
			return fmt.Errorf("opensearch: %w", err)
		}
		sink = accesslog.NewMultiWriter(pgSink, accesslog.NewOpenSearchStorage(osClient))
	}
	asyncSink, closeSink := accesslog.NewAsyncWriter(sink, accesslog.AsyncOptions{Logger: log})
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := closeSink(drainCtx); err != nil {
			log.Error("access log drain incomplete", logger.Error(err))
		}
	}()

	requestIDs := accesslog.WithRequestIDExtractor(func(ctx context.Context) (string, bool) {
		id := requestid.FromContext(ctx)
		return id, id != ""
	})
	recorder := accesslog.NewLogger(asyncSink, requestIDs)
	elevatedRecorder := accesslog.NewLogger(pgSink, requestIDs)

	// Directory and validation cache. The local cache is busted through
	// the same pub/sub feed as every other instance: the publisher's own
	// subscription loops the message back, so one path covers both.
	feed := tenant.NewInvalidationFeed(redisClient, log)
	dir := directory.NewService(directory.NewPGStorage(pool),
		directory.WithLogger(log),
		directory.WithPublisher(feed))

	l1, err := tenant.NewRistrettoCache(appCfg.CacheL1Size)
	if err != nil {
		return fmt.Errorf("verdict cache: %w", err)
	}
	cache := tenant.NewTieredCache(l1, tenant.NewRedisCache(redisClient), appCfg.CacheL1TTL)
	defer cache.Close()

	validator := tenant.NewValidator(dir,
		tenant.WithCache(cache),
		tenant.WithTTL(appCfg.CacheTTL),
		tenant.WithValidatorLogger(log))

	// Per-organization throttling, keyed by the bound tenant with a
	// client IP fallback for anything reached outside the tenant chain.
	var limitMW func(http.Handler) http.Handler
	if appCfg.RateLimitEnabled {
		limitStore := ratelimiter.NewMemoryStore()
		defer limitStore.Close()
		bucket, err := ratelimiter.NewBucket(limitStore, rlCfg)
		if err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
		limitMW = ratelimiter.Middleware(bucket, ratelimiter.FirstOf(
			func(r *http.Request) string {
				if id, ok := tenant.IDFromContext(r.Context()); ok {
					return "tenant:" + id.String()
				}
				return ""
			},
			func(r *http.Request) string {
				if p, ok := principal.FromContext(r.Context()); ok {
					return "principal:" + p.ID.String()
				}
				return ""
			},
			func(r *http.Request) string { return clientip.FromContext(r.Context()) },
		), ratelimiter.WithLogger(log))
	}

	// Scoped stores, one per protected entity.
	stationsStore := newStore[*stations.Station](scoped.EntityStations, pool, stations.Table(), recorder, log)
	auditsStore := newStore[*audits.Audit](scoped.EntityAudits, pool, audits.Table(), recorder, log)
	incidentsStore := newStore[*incidents.Incident](scoped.EntityIncidents, pool, incidents.Table(), recorder, log)
	contractorsStore := newStore[*contractors.Contractor](scoped.EntityContractors, pool, contractors.Table(), recorder, log)
	workPermitsStore := newStore[*workpermits.WorkPermit](scoped.EntityWorkPermits, pool, workpermits.Table(), recorder, log)
	usersStore := newStore[*users.User](scoped.EntityUsers, pool, users.Table(), recorder, log)
	formsStore := newStore[*formdefs.FormDefinition](scoped.EntityFormDefinitions, pool, formdefs.Table(), recorder, log)

	// Usage metering counts through the scoped stores, so the numbers
	// can only ever cover the calling tenant.
	counters := usage.NewCounterRegistry()
	counters.Register(usage.ResourceStations, func(ctx context.Context, _ uuid.UUID) (int64, error) {
		return stationsStore.Count(ctx, nil)
	})
	counters.Register(usage.ResourceUsers, func(ctx context.Context, _ uuid.UUID) (int64, error) {
		return usersStore.Count(ctx, nil)
	})
	counters.Register(usage.ResourceAudits, func(ctx context.Context, _ uuid.UUID) (int64, error) {
		return auditsStore.Count(ctx, nil)
	})
	counters.Register(usage.ResourceIncidents, func(ctx context.Context, _ uuid.UUID) (int64, error) {
		return incidentsStore.Count(ctx, nil)
	})
	counters.Register(usage.ResourceContractors, func(ctx context.Context, _ uuid.UUID) (int64, error) {
		return contractorsStore.Count(ctx, nil)
	})
	counters.Register(usage.ResourceWorkPermits, func(ctx context.Context, _ uuid.UUID) (int64, error) {
		return workPermitsStore.Count(ctx, nil)
	})

	usageSvc, err := usage.NewService(ctx, usage.NewYAMLSource(appCfg.PlansPath), counters,
		func(ctx context.Context, id uuid.UUID) (string, error) {
			org, err := dir.Lookup(ctx, id)
			if err != nil {
				return "", err
			}
			return org.PlanID, nil
		})
	if err != nil {
		return fmt.Errorf("usage service: %w", err)
	}

	stationsSvc := stations.NewService(stationsStore, stations.WithLogger(log))
	auditsSvc := audits.NewService(auditsStore, audits.WithLogger(log))
	incidentsSvc := incidents.NewService(incidentsStore, incidents.WithLogger(log))
	contractorsSvc := contractors.NewService(contractorsStore, contractors.WithLogger(log))
	workPermitsSvc := workpermits.NewService(workPermitsStore, workpermits.WithLogger(log))
	usersSvc := users.NewService(usersStore, users.WithLogger(log))
	formsSvc := formdefs.NewService(formsStore,
		formdefs.WithLogger(log),
		formdefs.WithCreateGate(func(ctx context.Context) error {
			if !usageSvc.HasFeature(ctx, usage.FeatureCustomForms) {
				return formdefs.ErrFeatureDisabled
			}
			return nil
		}))

	adminSvc := platformadmin.NewService(
		platformadmin.NewPGStore(platformPool),
		elevatedRecorder,
		platformadmin.WithLogger(log),
		platformadmin.WithDirectory(dir))

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware)
	r.Get("/health", httpserver.HealthCheckHandler(log,
		pg.Healthcheck(pool),
		redis.Healthcheck(redisClient)))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(principal.Middleware(verifier))
		r.Use(tenant.Middleware(validator,
			tenant.WithAccessLog(recorder),
			tenant.WithLogger(log)))
		if limitMW != nil {
			r.Use(limitMW)
		}
		r.Mount("/", api.Router(api.RouterOptions{
			Stations:    stationsSvc,
			Audits:      auditsSvc,
			Incidents:   incidentsSvc,
			Contractors: contractorsSvc,
			WorkPermits: workPermitsSvc,
			Users:       usersSvc,
			Forms:       formsSvc,
			Usage:       usageSvc,
		}))
	})

	r.Route("/internal/platform", func(r chi.Router) {
		r.Use(principal.Middleware(verifier))
		r.Mount("/", adminSvc.Handle())
	})

	srv := httpserver.New(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("api listening", slog.String("addr", httpCfg.Addr))
		}),
		httpserver.WithStopHook(func(l *slog.Logger) {
			l.Info("api stopped")
		}))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// The server exiting, for any reason, tears down the feed too.
		defer stop()
		return srv.Run(gctx, r)
	})
	g.Go(func() error {
		if err := feed.Listen(gctx, validator); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("invalidation feed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// newStore binds one protected entity table to the interceptor with the
// shared audit and logging wiring.
func newStore[E scoped.Entity](entity string, pool *pgxpool.Pool, table scoped.Table[E], recorder *accesslog.Logger, log *slog.Logger) *scoped.Store[E] {
	return scoped.NewStore[E](entity,
		scoped.NewPGBackend(pool, table),
		scoped.WithAccessLog(recorder),
		scoped.WithLogger(log))
}
