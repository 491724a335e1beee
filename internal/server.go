package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fitlife-app/fitlife/internal/account"
	"github.com/fitlife-app/fitlife/internal/advisor"
	"github.com/fitlife-app/fitlife/internal/auth"
	"github.com/fitlife-app/fitlife/internal/config"
	"github.com/fitlife-app/fitlife/internal/forum"
	"github.com/fitlife-app/fitlife/internal/meals"
	"github.com/fitlife-app/fitlife/internal/middleware"
	"github.com/fitlife-app/fitlife/internal/stats"
	"github.com/fitlife-app/fitlife/internal/store"
	"github.com/fitlife-app/fitlife/internal/telemetry/metrics"
	"github.com/fitlife-app/fitlife/internal/workouts"
	"github.com/fitlife-app/fitlife/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config        *config.Config
	appStore      *store.Store
	authService   *auth.Service
	advisorClient *advisor.Client

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
}

type NewServerParams struct {
	Config       *config.Config
	GeminiAPIKey string
	VersionInfo  string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	appStore, err := store.New(params.Config.DataDir)
	if err != nil {
		return nil, fmt.Errorf("new app store: %w", err)
	}

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("fitlife", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0) // will be set to 1 when all is set and ran

	authService := auth.NewService(auth.DefaultTTL)
	authService.StartCleanupLoop(ctx, 8*time.Hour)

	if params.GeminiAPIKey == "" {
		log.Warnln("gemini api key not set, ai advice will fall back to canned responses")
	}

	advisorClient := advisor.NewClient(
		params.Config.GeminiBaseURL,
		params.GeminiAPIKey,
		params.Config.GeminiModel,
		nil,
	)

	return &Server{
		config:        params.Config,
		appStore:      appStore,
		authService:   authService,
		advisorClient: advisorClient,
		versionInfo:   params.VersionInfo,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()

	accountHandler := account.NewHandler(s.appStore, s.authService)
	accountHandler.SetupRoutes(r)

	mealsHandler := meals.NewHandler(s.appStore, s.metricsManager)
	mealsHandler.SetupRoutes(r)

	workoutsHandler := workouts.NewHandler(s.appStore, s.metricsManager)
	workoutsHandler.SetupRoutes(r)

	forumHandler := forum.NewHandler(s.appStore, s.advisorClient, s.metricsManager)
	forumHandler.SetupRoutes(r)

	statsHandler := stats.NewHandler(s.appStore)
	statsHandler.SetupRoutes(r)

	advisorHandler := advisor.NewHandler(s.advisorClient, s.appStore)
	advisorHandler.SetupRoutes(r)

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, "I'm OK, thanks")
	}).Methods("GET").Name("root")

	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte(s.versionInfo)); err != nil {
			log.Errorf("failed to write version response: %s", err)
		}
	}).Methods("GET").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(_ context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(
		s.config.PrometheusMetricsHost,
		strconv.Itoa(s.config.PrometheusMetricsPort),
	)
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

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}
