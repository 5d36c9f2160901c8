package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog"
	"github.com/go-chi/traceid"
	cpfAuth "github.com/mvcarvalho/cpf-auth"
	"github.com/mvcarvalho/cpf-auth/auth"
	"github.com/mvcarvalho/cpf-auth/config"
	"github.com/mvcarvalho/cpf-auth/o11y"
	"github.com/rs/zerolog"
)

type RPC struct {
	Config       *config.Config
	Log          zerolog.Logger
	Server       *http.Server
	Cognito      auth.Provider
	Resolver     *auth.Resolver
	Orchestrator *auth.Orchestrator
	Metrics      *o11y.Metrics

	startTime time.Time
	running   int32
}

func New(cfg *config.Config, transport http.RoundTripper) (*RPC, error) {
	httpClient := &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}

	options := []func(options *awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithHTTPClient(httpClient),
	}

	if cfg.Endpoints.AWSEndpoint != "" {
		options = append(options, awsconfig.WithEndpointResolverWithOptions(
			aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{URL: cfg.Endpoints.AWSEndpoint}, nil
			}),
		), awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("test", "test", "test"),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), options...)
	if err != nil {
		return nil, err
	}

	httpServer := &http.Server{
		ReadTimeout:       45 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       45 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// The provider client is built once per process and shared by the
	// resolver and orchestrator; both stay testable through auth.Provider.
	provider := cognito.NewFromConfig(awsCfg)

	s := &RPC{
		Log: httplog.NewLogger("cpf-auth", httplog.Options{
			LogLevel: zerolog.LevelInfoValue,
		}),
		Config:       cfg,
		Server:       httpServer,
		Cognito:      provider,
		Resolver:     auth.NewResolver(provider, cfg.Cognito.UserPoolID, cfg.Cognito.CPFAttribute),
		Orchestrator: auth.NewOrchestrator(provider, cfg.Cognito.UserPoolID, cfg.Cognito.ClientID),
		Metrics:      o11y.NewMetrics(),
		startTime:    time.Now(),
	}

	return s, nil
}

func (s *RPC) Run(ctx context.Context, l net.Listener) error {
	if s.IsRunning() {
		return fmt.Errorf("rpc: already running")
	}

	s.Log.Info().
		Str("op", "run").
		Str("ver", cpfAuth.VERSION).
		Msgf("-> rpc: started")

	atomic.StoreInt32(&s.running, 1)
	defer atomic.StoreInt32(&s.running, 0)

	s.Server.Handler = s.Handler()

	// Handle stop signal to ensure clean shutdown
	go func() {
		<-ctx.Done()
		s.Stop(context.Background())
	}()

	err := s.Server.Serve(l)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *RPC) Stop(timeoutCtx context.Context) {
	if !s.IsRunning() || s.IsStopping() {
		return
	}
	atomic.StoreInt32(&s.running, 2)

	s.Log.Info().Str("op", "stop").Msg("-> rpc: stopping..")
	s.Server.Shutdown(timeoutCtx)
	s.Log.Info().Str("op", "stop").Msg("-> rpc: stopped.")
}

func (s *RPC) IsRunning() bool {
	return atomic.LoadInt32(&s.running) == 1
}

func (s *RPC) IsStopping() bool {
	return atomic.LoadInt32(&s.running) == 2
}

func (s *RPC) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)

	// Propagate TraceId
	r.Use(traceid.Middleware)

	// HTTP request logger
	r.Use(httplog.RequestLogger(s.Log, []string{"/", "/health", "/status", "/metrics", "/favicon.ico"}))

	// Timeout any request after 28 seconds as the upstream gateway cuts off
	// at 30 anyways.
	r.Use(middleware.Timeout(28 * time.Second))

	// Request metrics
	r.Use(s.Metrics.Middleware())

	// CORS. Any origin is allowed; production deployments must narrow this
	// to the known frontend origins.
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         600,
	}).Handler)

	// Healthcheck
	r.Use(middleware.PageRoute("/health", http.HandlerFunc(s.healthHandler)))
	r.Use(middleware.PageRoute("/status", http.HandlerFunc(s.statusHandler)))

	r.Post("/auth", s.authHandler)
	r.Post("/customers/lookup", s.lookupHandler)
	r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())

	return r
}

func (s *RPC) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"startTime": s.startTime,
		"uptime":    uint64(time.Now().UTC().Sub(s.startTime).Seconds()),
		"ver":       cpfAuth.VERSION,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(status)
}

func (s *RPC) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
