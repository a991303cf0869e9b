package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"

	"github.com/2beens/fitnesstracker/internal/account"
	"github.com/2beens/fitnesstracker/internal/auth"
	"github.com/2beens/fitnesstracker/internal/config"
	"github.com/2beens/fitnesstracker/internal/db"
	"github.com/2beens/fitnesstracker/internal/docstore"
	"github.com/2beens/fitnesstracker/internal/gymstats/templates"
	"github.com/2beens/fitnesstracker/internal/gymstats/workouts"
	"github.com/2beens/fitnesstracker/internal/middleware"
	"github.com/2beens/fitnesstracker/internal/misc"
	"github.com/2beens/fitnesstracker/internal/telemetry/metrics"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracker/internal/users"
	"github.com/2beens/fitnesstracker/pkg"
)

const (
	storeConnectTimeout = 10 * time.Second
	shutdownMaxWait     = 15 * time.Second
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	store       docstore.Store
	redisClient *redis.Client // nil when redis is not configured
	rateLimiter middleware.RequestRateLimiter
	tokens      *auth.TokenService

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	VersionInfo string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	store, storeCollector, err := NewStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := store.Ping(ctx); err != nil {
		log.Warnf("failed to ping store: %s", err)
	}

	if err := users.NewRepo(store).EnsureIndexes(ctx); err != nil {
		return nil, releaseOnFailure(ctx, fmt.Errorf("ensure users indexes: %w", err), store, nil)
	}

	promRegistry := metrics.SetupPrometheus(storeCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	var rdb *redis.Client
	var rateLimiter middleware.RequestRateLimiter
	if cfg.RedisHost != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       0, // use default DB
		})

		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
		rateLimiter = redis_rate.NewLimiter(rdb)
	} else {
		log.Warnln("redis not configured, rate limiting is per instance")
		rateLimiter = middleware.NewLocalRateLimiter()
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(cfg.HoneycombEnabled, "fitness-backend", rdb)
	if err != nil {
		return nil, releaseOnFailure(ctx, fmt.Errorf("honeycomb setup: %w", err), store, rdb)
	}

	return &Server{
		versionInfo:    params.VersionInfo,
		config:         cfg,
		store:          store,
		redisClient:    rdb,
		rateLimiter:    rateLimiter,
		tokens:         auth.NewTokenService([]byte(cfg.JWTSecretKey), cfg.TokenTTL.Duration),
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

// releaseOnFailure closes what NewServer opened before failing and
// combines the close errors with err.
func releaseOnFailure(ctx context.Context, err error, store docstore.Store, rdb *redis.Client) error {
	if closeErr := store.Close(ctx); closeErr != nil {
		err = multierr.Append(err, fmt.Errorf("close store: %w", closeErr))
	}
	if rdb != nil {
		if closeErr := rdb.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close redis client: %w", closeErr))
		}
	}
	return err
}

// NewStore connects the configured document store. For postgres it also
// returns the pool collector to be registered with prometheus.
func NewStore(ctx context.Context, cfg *config.Config) (docstore.Store, prometheus.Collector, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     cfg.PostgresPassword,
			TracingEnabled: cfg.HoneycombEnabled,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("new db pool: %w", err)
		}

		store, err := docstore.NewPostgresStore(
			ctx,
			dbPool,
			users.CollectionName,
			workouts.CollectionName,
			templates.CollectionName,
		)
		if err != nil {
			dbPool.Close()
			return nil, nil, fmt.Errorf("new postgres store: %w", err)
		}

		collector := pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		)
		log.Debugf("using postgres store [%s]", cfg.PostgresDBName)
		return store, collector, nil
	default:
		store, err := docstore.NewMongoStore(ctx, docstore.NewMongoStoreParams{
			URI:            cfg.MongoURI,
			DBName:         cfg.MongoDB,
			TracingEnabled: cfg.HoneycombEnabled,
			ConnectTimeout: storeConnectTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("new mongo store: %w", err)
		}
		log.Debugf("using mongo store [%s]", cfg.MongoDB)
		return store, nil, nil
	}
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	usersRepo := users.NewRepo(s.store)
	authMiddleware := middleware.NewAuthMiddlewareHandler(
		auth.NewIdentityResolver(s.tokens, usersRepo),
	)

	miscHandler := misc.NewHandler(s.store, s.redisClient, s.versionInfo)
	miscHandler.SetupRoutes(r)

	accountHandler := account.NewHandler(
		account.NewService(usersRepo, s.tokens),
		s.metricsManager,
	)
	accountHandler.SetupRoutes(r, authMiddleware, s.rateLimiter, s.config.AuthRateLimitAllowedPerMin)

	workoutsHandler := workouts.NewHandler(
		workouts.NewService(s.store, s.config.ListLimit),
		s.metricsManager,
	)
	workoutsHandler.SetupRoutes(r, authMiddleware.RequireActiveUser())

	templatesHandler := templates.NewHandler(
		templates.NewService(s.store, s.config.ListLimit),
		s.metricsManager,
	)
	templatesHandler.SetupRoutes(r, authMiddleware.RequireActiveUser())

	// all the rest - unhandled paths
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteErrorResponse(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.CorsAllowedOrigins))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

// GracefulShutdown stops the http servers first, then releases the
// store and redis connections. All failures are returned combined.
func (s *Server) GracefulShutdown() error {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	ctx, timeoutCancel := context.WithTimeout(context.Background(), shutdownMaxWait)
	defer timeoutCancel()

	var err error
	if s.httpServer != nil {
		if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown http server: %w", shutdownErr))
		}
		log.Warnln("server shut down")
	}
	if s.metricsHttpServer != nil {
		if shutdownErr := s.metricsHttpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown metrics http server: %w", shutdownErr))
		}
		log.Warnln("metrics server shut down")
	}

	if s.otelShutdown != nil {
		s.otelShutdown()
		log.Trace("otel shut down ...")
	}

	if s.redisClient != nil {
		if closeErr := s.redisClient.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close redis client: %w", closeErr))
		}
	}

	if s.store != nil {
		log.Debugln("closing store ...")
		if closeErr := s.store.Close(ctx); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close store: %w", closeErr))
		}
		log.Debugln("store closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	return err
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
