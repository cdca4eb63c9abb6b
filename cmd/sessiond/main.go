// Command sessiond serves a small demo application on top of the session
// pipeline, with the storage backend picked by SESSION_TYPE.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/clientip"
	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/requestid"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const startupTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", os.Getenv("SESSIOND_CONFIG"), "Path to a YAML configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Session.Environment, cfg.ServiceName),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	cookieMgr, err := cookie.NewFromConfig(cfg.Cookie)
	if err != nil {
		return fmt.Errorf("creating cookie manager: %w", err)
	}

	st, err := openStorage(startCtx, cfg, log)
	if err != nil {
		return fmt.Errorf("opening session storage: %w", err)
	}
	transport := session.NewCookieTransport(cookieMgr, cfg.Session.CookieName,
		cookie.WithPath(cfg.Session.Cookie.Path),
		cookie.WithDomain(cfg.Session.Cookie.Domain),
		cookie.WithSameSite(cfg.Session.Cookie.SameSite),
	)

	if !slices.Contains(cfg.Session.SkipForRoutes, healthPath) {
		cfg.Session.SkipForRoutes = append(cfg.Session.SkipForRoutes, healthPath)
	}
	pipeline, err := session.NewFromConfig(st.backend, transport, cfg.Session, session.WithLogger(log))
	if err != nil {
		return errors.Join(fmt.Errorf("creating session pipeline: %w", err), st.close(context.Background()))
	}

	handler := newRouter(routerDeps{
		pipeline:   pipeline,
		resolver:   clientip.New(clientip.WithHeaders(cfg.TrustedIPHeaders...)),
		log:        log,
		bindDevice: cfg.BindDevice,
		checks:     st.checks,
	})

	srv := httpserver.New(cfg.HTTP, httpserver.WithLogger(log))

	log.InfoContext(ctx, "starting sessiond",
		slog.String("addr", cfg.HTTP.Addr),
		logger.Backend(cfg.Session.Type),
	)
	runErr := srv.Run(ctx, handler)

	closeCtx, cancelClose := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancelClose()
	return errors.Join(runErr, pipeline.Close(), st.close(closeCtx))
}
