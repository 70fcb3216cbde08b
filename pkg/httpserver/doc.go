// Package httpserver runs an HTTP handler with graceful shutdown.
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := httpserver.New(cfg.Server,
//	    httpserver.WithLogger(log),
//	    httpserver.WithShutdownHook(recorder.Close),
//	)
//	if err := srv.Run(ctx, router); err != nil { ... }
//
// Shutdown hooks run after in-flight requests finish, sharing the
// ShutdownTimeout budget. LivenessHandler and ReadinessHandler back the
// /healthz and /readyz probes.
package httpserver
