package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/inputguard/pkg/audit"
	"github.com/dmitrymomot/inputguard/pkg/audit/pgstore"
	"github.com/dmitrymomot/inputguard/pkg/audit/redisstore"
	"github.com/dmitrymomot/inputguard/pkg/httpserver"
	"github.com/dmitrymomot/inputguard/pkg/pg"
	"github.com/dmitrymomot/inputguard/pkg/redis"
)

// auditBackend is the storage selected by configuration together with the
// resources it owns.
type auditBackend struct {
	storage audit.Storage
	reader  audit.Reader
	checks  []httpserver.Check
	close   func()
}

func openAuditBackend(ctx context.Context, cfg appConfig, log *slog.Logger) (auditBackend, error) {
	switch cfg.Audit.Backend {
	case "", "log":
		return auditBackend{
			storage: audit.LogStorage(log.With(slog.String("component", "audit"))),
			close:   func() {},
		}, nil

	case "memory":
		m := audit.NewMemoryStorage(cfg.Audit.BufferSize)
		return auditBackend{storage: m, reader: m, close: func() {}}, nil

	case "postgres":
		pool, err := pg.Connect(ctx, cfg.Postgres)
		if err != nil {
			return auditBackend{}, err
		}
		if err := pg.Migrate(ctx, pool, pgstore.Migrations, pgstore.MigrationsDir, cfg.Postgres, log); err != nil {
			pool.Close()
			return auditBackend{}, err
		}
		store := pgstore.New(pool)
		return auditBackend{
			storage: store,
			reader:  store,
			checks:  []httpserver.Check{{Name: "postgres", Fn: pg.Healthcheck(pool)}},
			close:   pool.Close,
		}, nil

	case "redis":
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return auditBackend{}, err
		}
		store := redisstore.New(client)
		return auditBackend{
			storage: store,
			reader:  store,
			checks:  []httpserver.Check{{Name: "redis", Fn: redis.Healthcheck(client)}},
			close: func() {
				if err := client.Close(); err != nil {
					log.Error("failed to close redis client", slog.String("error", err.Error()))
				}
			},
		}, nil

	default:
		return auditBackend{}, errors.Join(audit.ErrUnknownBackend, fmt.Errorf("backend %q", cfg.Audit.Backend))
	}
}
