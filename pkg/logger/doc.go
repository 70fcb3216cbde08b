// Package logger builds *slog.Logger instances from configuration.
//
// New returns a JSON or text logger whose handler is wrapped by
// ContextHandler, so request scoped values (request id, client ip) reach
// every record written with a request context:
//
//	log := logger.New(
//	    logger.WithConfig(cfg.Log),
//	    logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "server started", logger.Addr(cfg.Server.Addr))
//
// The attribute helpers (Error, Component, Field, Families, Duration) keep
// key names consistent across packages.
package logger
