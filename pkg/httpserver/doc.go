// Package httpserver runs an http.Handler until a context is cancelled and
// then shuts down gracefully, draining in-flight requests before running
// registered shutdown hooks.
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := httpserver.New(cfg,
//	    httpserver.WithLogger(log),
//	    httpserver.WithShutdownHook(func(context.Context) error { return pipeline.Close() }),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server failed", logger.Error(err))
//	}
//
// HealthCheckHandler serves liveness and readiness probes backed by the
// Healthcheck functions of the redis, pg and mongo packages.
package httpserver
