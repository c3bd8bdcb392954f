package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/jrsteele09/go-rental-portal/api"
	"github.com/jrsteele09/go-rental-portal/internal/config"
	"github.com/jrsteele09/go-rental-portal/internal/metrics"
	"github.com/jrsteele09/go-rental-portal/server"
	"github.com/jrsteele09/go-rental-portal/sessions"
	"github.com/jrsteele09/go-rental-portal/token"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const apiTimeout = 15 * time.Second

func main() {
	// A missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	ctx := context.Background()
	m := metrics.New()
	client := api.New(c.GetAPIBaseURL(),
		api.WithObserver(m),
		api.WithHTTPClient(&http.Client{Timeout: apiTimeout}),
	)

	store, closeStore, err := openStore(ctx, c)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := []sessions.ProviderOption{sessions.WithEventRecorder(m)}
	if jwks := c.GetTokenJWKSURL(); jwks != "" {
		opts = append(opts, sessions.WithVerifier(token.NewOIDCVerifier(ctx, c.GetTokenIssuer(), jwks)))
	}
	manager := sessions.NewManager(store, client, opts...)

	handler, err := server.New(c, manager, server.WithMetrics(m), server.WithLogger(log.Logger))
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	srv := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() { errs <- listenAndServe(srv) }()

	select {
	case err := <-errs:
		return err
	case <-waitForStopSignal():
	}

	returnError = shutdown(srv)
	// Let background logout notifications finish
	manager.Wait()
	return returnError
}

// openStore picks the session key store from config. The token is sealed at
// rest whenever a session secret is configured.
func openStore(ctx context.Context, c config.Config) (sessions.Store, func(), error) {
	var (
		store     sessions.Store
		closeFunc = func() {}
	)

	switch c.GetSessionStore() {
	case config.SessionStoreRedis:
		rs, err := sessions.OpenRedisStore(ctx, c.GetRedisURL(), c.GetMaxSessionAge())
		if err != nil {
			return nil, nil, fmt.Errorf("sessions.OpenRedisStore: %w", err)
		}
		store = rs
		closeFunc = func() { _ = rs.Close() }
		log.Info().Msg("Using redis session store")
	default:
		store = sessions.NewInMemoryStore()
		log.Info().Msg("Using in-memory session store")
	}

	if secret := c.GetSessionSecret(); secret != "" {
		store = sessions.NewSealedStore(store, secret)
	} else {
		log.Warn().Msg("SESSION_SECRET not set, tokens are stored unsealed")
	}
	return store, closeFunc, nil
}

func setupLogging(c config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if strings.EqualFold(c.GetEnv(), "DEV") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	level, err := zerolog.ParseLevel(strings.ToLower(c.GetLogLevel()))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.DefaultContextLogger = &log.Logger
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
