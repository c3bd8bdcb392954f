package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-rental-portal/api"
	"github.com/jrsteele09/go-rental-portal/internal/config"
	"github.com/jrsteele09/go-rental-portal/internal/metrics"
	"github.com/jrsteele09/go-rental-portal/rentals"
	"github.com/jrsteele09/go-rental-portal/sessions"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	sessions *sessions.Manager
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	pages    pageSet

	pollPolicy    api.RetryPolicy
	expiredDelay  time.Duration
	cookieMaxAge  int
	htmxScriptURL string
}

type Option func(*Server)

// WithMetrics exposes the registry on /metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func New(cfg config.Config, manager *sessions.Manager, opts ...Option) (*Server, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse templates: %w", err)
	}

	s := &Server{
		env:      cfg.GetEnv(),
		mux:      http.NewServeMux(),
		config:   cfg,
		sessions: manager,
		logger:   log.Logger,
		pages:    pages,
		pollPolicy: api.RetryPolicy{
			MaxAttempts:     cfg.GetPaymentPollAttempts(),
			InitialInterval: cfg.GetPaymentPollInterval(),
			MaxInterval:     4 * cfg.GetPaymentPollInterval(),
		},
		expiredDelay:  cfg.GetSessionExpiredRedirectDelay(),
		cookieMaxAge:  int(cfg.GetMaxSessionAge() / time.Second),
		htmxScriptURL: "https://unpkg.com/htmx.org@2.0.4",
	}
	for _, opt := range opts {
		opt(s)
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

// rentalService returns a service that calls the API as the current browser's user
func (s *Server) rentalService(r *http.Request) *rentals.Service {
	return rentals.New(providerFrom(r.Context()).Client(), rentals.WithPollPolicy(s.pollPolicy))
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			s.logRoute(parts[0], parts[1])
		} else {
			s.logRoute("", parts[0])
		}
	}
}

func (s *Server) logRoute(method, path string) {
	s.logger.Info().Msgf("[%-19s] %s", colourMethod(method), path)
}

func (s *Server) logError(method, path, errMsg string) {
	s.logger.Error().Msgf("[%-19s] %s %s", colourMethod(method), path, Red+errMsg+ResetColor)
}

func colourMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
