package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrymomot/inputguard/internal/web"
	"github.com/dmitrymomot/inputguard/pkg/audit"
	"github.com/dmitrymomot/inputguard/pkg/clientip"
	"github.com/dmitrymomot/inputguard/pkg/guard"
	"github.com/dmitrymomot/inputguard/pkg/httpserver"
	"github.com/dmitrymomot/inputguard/pkg/logger"
	"github.com/dmitrymomot/inputguard/pkg/metrics"
	"github.com/dmitrymomot/inputguard/pkg/requestid"
	"github.com/dmitrymomot/inputguard/pkg/sanitizer"
	"github.com/dmitrymomot/inputguard/pkg/secheaders"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("failed to load configuration", logger.Error(err))
		os.Exit(1)
	}

	log := logger.New(
		logger.WithConfig(cfg.Log),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("inputguard stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	reporters := []sanitizer.Reporter{m}
	shutdownHooks := []httpserver.Option{}
	var events audit.Reader
	var checks []httpserver.Check

	if cfg.Audit.Enabled {
		backend, err := openAuditBackend(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer backend.close()

		rec := audit.NewRecorder(backend.storage,
			audit.WithConfig(cfg.Audit),
			audit.WithLogger(log.With(logger.Component("audit"))),
			audit.WithRequestIDExtractor(requestid.Extractor()),
			audit.WithIPExtractor(clientip.Extractor()),
			audit.WithDropHook(m.AuditDropped),
		)
		reporters = append(reporters, rec)
		shutdownHooks = append(shutdownHooks, httpserver.WithShutdownHook(rec.Close))
		events = backend.reader
		checks = backend.checks
	}

	s := sanitizer.New(
		sanitizer.WithConfig(cfg.Sanitizer),
		sanitizer.WithLogger(log.With(logger.Component("sanitizer"))),
		sanitizer.WithReporters(reporters...),
	)
	kv := sanitizer.NewKeywordValidator(s,
		sanitizer.WithKeywordLogger(log.With(logger.Component("keywords"))),
		sanitizer.WithRejectHook(m.KeywordRejected),
	)

	var policy *secheaders.Policy
	if cfg.Headers.Enabled {
		p, err := secheaders.FromConfig(cfg.Headers)
		if err != nil {
			return err
		}
		policy = &p
	}

	router := web.NewRouter(web.Deps{
		Log:             log,
		Sanitizer:       s,
		Keywords:        kv,
		Policy:          policy,
		Guard:           []guard.Option{guard.WithConfig(cfg.Guard)},
		ClientIPHeaders: cfg.ClientIP.Headers,
		Metrics:         metrics.Handler(reg),
		Events:          events,
		Readiness:       checks,
	})

	srv := httpserver.New(cfg.Server, append([]httpserver.Option{httpserver.WithLogger(log)}, shutdownHooks...)...)
	return srv.Run(ctx, router)
}
