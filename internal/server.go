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
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"

	"github.com/2beens/fitlog/internal/auth"
	"github.com/2beens/fitlog/internal/bodyweight"
	"github.com/2beens/fitlog/internal/calendar"
	"github.com/2beens/fitlog/internal/cardio"
	"github.com/2beens/fitlog/internal/clock"
	"github.com/2beens/fitlog/internal/config"
	"github.com/2beens/fitlog/internal/db"
	"github.com/2beens/fitlog/internal/graphs"
	"github.com/2beens/fitlog/internal/middleware"
	"github.com/2beens/fitlog/internal/nutrition"
	"github.com/2beens/fitlog/internal/profile"
	"github.com/2beens/fitlog/internal/progression"
	"github.com/2beens/fitlog/internal/routines"
	"github.com/2beens/fitlog/internal/strength"
	"github.com/2beens/fitlog/internal/telemetry/metrics"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/internal/workouts"
	"github.com/2beens/fitlog/pkg"
)

// exercises owned by this user are the shared defaults, visible to
// (and clonable by) every other user
const defaultExercisesUserID = 1

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	foodCatalogAPIKey string

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	FoodCatalogAPIKey       string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": "fitlog_db"},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewService(auth.DefaultTTL, rdb)
	go func() {
		for range time.Tick(time.Hour * 8) {
			authService.ScanAndClean(ctx)
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fitlog-backend", rdb)
	if err != nil {
		return nil, err
	}

	return &Server{
		config:      params.Config,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		foodCatalogAPIKey: params.FoodCatalogAPIKey,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	realClock := clock.NewReal()
	renderer := graphs.NewRenderer()
	profileRepo := profile.NewRepo(s.dbPool)

	authHandler := auth.NewHandler(s.authService, profileRepo)
	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	loginRouter := r.PathPrefix("/a").Subrouter()
	loginRouter.Use(middleware.RateLimit(reqRateLimiter, "login", 10))
	loginRouter.HandleFunc("/login", authHandler.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	loginRouter.HandleFunc("/logout", authHandler.HandleLogout).Methods("POST", "OPTIONS").Name("logout")

	profileHandler := profile.NewHandler(profileRepo)
	profileRouter := r.PathPrefix("/api/profile").Subrouter()
	profileRouter.HandleFunc("", profileHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-profile")
	profileRouter.HandleFunc("/settings", profileHandler.HandleUpdateSettings).Methods("PUT", "OPTIONS").Name("update-settings")
	profileRouter.HandleFunc("/units", profileHandler.HandleUpdateUnits).Methods("PUT", "OPTIONS").Name("update-units")

	cardioRepo := cardio.NewRepo(s.dbPool)
	cardioAnalyzer := cardio.NewAnalyzer(cardioRepo, profileRepo, renderer, realClock, time.UTC)
	cardioHandler := cardio.NewHandler(cardioRepo, cardioAnalyzer, realClock, s.metricsManager)
	cardioRouter := r.PathPrefix("/api/cardio").Subrouter()
	cardioRouter.HandleFunc("", cardioHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-cardio-entry")
	cardioRouter.HandleFunc("/{id}", cardioHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-cardio-entry")
	cardioRouter.HandleFunc("/summary/{tag}", cardioHandler.HandleSummary).Methods("GET", "OPTIONS").Name("cardio-summary")

	exercisesRepo := strength.NewRepo(s.dbPool, defaultExercisesUserID)
	exercisesHandler := strength.NewHandler(exercisesRepo)
	exercisesRouter := r.PathPrefix("/api/exercises").Subrouter()
	exercisesRouter.HandleFunc("", exercisesHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-exercise")
	exercisesRouter.HandleFunc("", exercisesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises")
	exercisesRouter.HandleFunc("", exercisesHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-exercise")
	exercisesRouter.HandleFunc("/{id}", exercisesHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-exercise")
	exercisesRouter.HandleFunc("/{name}", exercisesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-exercise")

	templatesRepo := workouts.NewTemplateRepo(s.dbPool, defaultExercisesUserID)
	sessionsRepo := workouts.NewSessionRepo(s.dbPool)
	fiveRepMaxEngine := strength.NewEngine(exercisesRepo, templatesRepo, s.metricsManager)
	workoutsService := workouts.NewService(sessionsRepo, templatesRepo, profileRepo, fiveRepMaxEngine, s.metricsManager)
	workoutsHandler := workouts.NewHandler(templatesRepo, workoutsService)
	workoutsRouter := r.PathPrefix("/api/workouts").Subrouter()
	workoutsRouter.HandleFunc("/session", workoutsHandler.HandleSaveSession).Methods("POST", "OPTIONS").Name("new-workout-session")
	workoutsRouter.HandleFunc("/materialize/{name}", workoutsHandler.HandleMaterialize).Methods("GET", "OPTIONS").Name("materialize-template")
	workoutsRouter.HandleFunc("/template", workoutsHandler.HandleAddTemplate).Methods("POST", "OPTIONS").Name("new-template")
	workoutsRouter.HandleFunc("/template", workoutsHandler.HandleUpdateTemplate).Methods("PUT", "OPTIONS").Name("update-template")
	workoutsRouter.HandleFunc("/template/{id}", workoutsHandler.HandleDeleteTemplate).Methods("DELETE", "OPTIONS").Name("delete-template")
	workoutsRouter.HandleFunc("/template/{name}", workoutsHandler.HandleGetTemplate).Methods("GET", "OPTIONS").Name("get-template")
	workoutsRouter.HandleFunc("/templates", workoutsHandler.HandleListTemplates).Methods("GET", "OPTIONS").Name("list-templates")

	routinesRepo := routines.NewRepo(s.dbPool)
	routinesHandler := routines.NewHandler(routinesRepo, realClock)
	routinesRouter := r.PathPrefix("/api/routines").Subrouter()
	routinesRouter.HandleFunc("", routinesHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-routine")
	routinesRouter.HandleFunc("", routinesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-routines")
	routinesRouter.HandleFunc("/cursor", routinesHandler.HandleCurrent).Methods("GET", "OPTIONS").Name("routine-cursor")
	routinesRouter.HandleFunc("/cursor/{direction}", routinesHandler.HandleAdvance).Methods("POST", "OPTIONS").Name("advance-routine-cursor")
	routinesRouter.HandleFunc("/{id}", routinesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-routine")
	routinesRouter.HandleFunc("/{id}", routinesHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-routine")
	routinesRouter.HandleFunc("/{id}/select", routinesHandler.HandleSelect).Methods("POST", "OPTIONS").Name("select-routine")

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   15 * time.Second,
	}
	foodCatalog := nutrition.NewCatalog(s.config.FoodCatalogURL, s.foodCatalogAPIKey, tracedHttpClient)
	nutritionRepo := nutrition.NewRepo(s.dbPool)
	nutritionSummarizer := nutrition.NewSummarizer(nutritionRepo, renderer, realClock, time.UTC)
	nutritionHandler := nutrition.NewHandler(nutritionRepo, nutritionSummarizer, foodCatalog, s.metricsManager)
	nutritionRouter := r.PathPrefix("/api/nutrition").Subrouter()
	nutritionRouter.HandleFunc("", nutritionHandler.HandleSave).Methods("POST", "PUT", "OPTIONS").Name("save-food-entry")
	nutritionRouter.HandleFunc("/summary", nutritionHandler.HandleSummary).Methods("GET", "OPTIONS").Name("nutrition-summary")
	nutritionRouter.HandleFunc("/catalog/search", nutritionHandler.HandleCatalogSearch).Methods("GET", "OPTIONS").Name("catalog-search")
	nutritionRouter.HandleFunc("/catalog/food/{id}", nutritionHandler.HandleCatalogFood).Methods("GET", "OPTIONS").Name("catalog-food")
	nutritionRouter.HandleFunc("/{date}", nutritionHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-food-entry")
	nutritionRouter.HandleFunc("/{date}", nutritionHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-food-entry")

	weightRepo := bodyweight.NewRepo(s.dbPool)
	weightFeedback := bodyweight.NewFeedback(weightRepo, profileRepo)
	weightHandler := bodyweight.NewHandler(weightRepo, weightFeedback, s.metricsManager)
	weightRouter := r.PathPrefix("/api/weight").Subrouter()
	weightRouter.HandleFunc("", weightHandler.HandleSave).Methods("POST", "OPTIONS").Name("new-weight-entry")
	weightRouter.HandleFunc("", weightHandler.HandleList).Methods("GET", "OPTIONS").Name("list-weight-entries")
	weightRouter.HandleFunc("/{id}", weightHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-weight-entry")

	calendarAnnotator := calendar.NewAnnotator(sessionsRepo, cardioRepo, weightRepo, profileRepo, time.UTC)
	calendarHandler := calendar.NewHandler(calendarAnnotator)
	r.HandleFunc("/api/calendar/{year}/{month}", calendarHandler.HandleMonth).Methods("GET", "OPTIONS").Name("calendar-month")

	progressionGrapher := progression.NewGrapher(sessionsRepo, weightRepo, renderer, realClock, time.UTC)
	progressionHandler := progression.NewHandler(progressionGrapher, s.metricsManager)
	r.HandleFunc("/api/progression/{stat}", progressionHandler.HandleGraph).Methods("GET", "OPTIONS").Name("progression-graph")

	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, "ok")
	}).Methods("GET").Name("health")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.CorsAllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
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
	metricsAddr := net.JoinHostPort(host, strconv.Itoa(s.config.PrometheusMetricsPort))
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

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	var shutdownErr error
	if s.redisClient != nil {
		shutdownErr = multierr.Append(shutdownErr, s.redisClient.Close())
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	shutdownErr = multierr.Append(shutdownErr, s.httpServer.Shutdown(ctx))
	shutdownErr = multierr.Append(shutdownErr, s.metricsHttpServer.Shutdown(ctx))
	if shutdownErr != nil {
		log.Errorf(" >>> shutdown finished with errors: %s", shutdownErr)
	}

	log.Warnln("server shut down")
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
