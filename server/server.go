package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/storefront-client/auth"
	"github.com/jrsteele09/storefront-client/internal/config"
	"github.com/jrsteele09/storefront-client/internal/metrics"
	"github.com/jrsteele09/storefront-client/token"
	"github.com/jrsteele09/storefront-client/token/refresh"
	"github.com/jrsteele09/storefront-client/users"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

// Repos holds the storage the reference storefront runs on
type Repos struct {
	Users         users.UserRepo
	RefreshTokens refresh.Repo
	Denylist      token.Denylist // optional, in memory when nil
}

// Server is a reference storefront API: login with refresh token rotation,
// a public catalogue and per-user orders behind short-lived bearer tokens.
type Server struct {
	env       string // Environment (e.g., "DEV", "PROD")
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	auth      *auth.Service
	repos     Repos
	catalogue *Catalogue
	log       zerolog.Logger
	registry  *prometheus.Registry
	metrics   *metrics.Server
	nowFunc   func() time.Time
}

type Option func(*Server)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithNowFunc overrides the clock used for issuing and checking tokens.
func WithNowFunc(now func() time.Time) Option {
	return func(s *Server) {
		s.nowFunc = now
	}
}

func New(cfg config.Config, repos Repos, options ...Option) (*Server, error) {
	s := &Server{
		env:       cfg.GetEnv(),
		mux:       http.NewServeMux(),
		config:    cfg,
		repos:     repos,
		catalogue: NewCatalogue(),
		log:       zerolog.Nop(),
		registry:  prometheus.NewRegistry(),
		nowFunc:   time.Now,
	}
	for _, opt := range options {
		opt(s)
	}

	s.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	s.metrics = metrics.NewServer(s.registry)

	tokenOptions := []token.ManagerOption{
		token.WithAccessTokenExpiry(cfg.GetAccessTokenExpiry()),
		token.WithIssuer(cfg.GetAppName()),
		token.WithNowFunc(s.nowFunc),
	}
	if repos.Denylist != nil {
		tokenOptions = append(tokenOptions, token.WithDenylist(repos.Denylist))
	}
	tokens := token.New(token.NewHMACSigner(cfg.GetJWTSecret()), tokenOptions...)
	refreshTokens := refresh.NewManager(repos.RefreshTokens, cfg, refresh.WithNowFunc(s.nowFunc))

	authService, err := auth.NewService(auth.Repos{Users: repos.Users}, tokens, refreshTokens,
		auth.WithNowTime(s.nowFunc),
		auth.WithLogger(s.log),
	)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create auth service: %w", err)
	}
	s.auth = authService

	// Bootstrap: ensure the seeded admin and shopper exist
	if err := s.InitialiseSystem(cfg); err != nil {
		return nil, fmt.Errorf("[Server New] Failed to initialise the system: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		method, path, found := strings.Cut(route, " ")
		if !found {
			method, path = "", route
		}
		s.log.Debug().Str("method", method).Str("path", path).Msg("route")
	}
}
