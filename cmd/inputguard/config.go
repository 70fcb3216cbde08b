package main

import (
	"github.com/dmitrymomot/inputguard/pkg/audit"
	"github.com/dmitrymomot/inputguard/pkg/clientip"
	"github.com/dmitrymomot/inputguard/pkg/config"
	"github.com/dmitrymomot/inputguard/pkg/guard"
	"github.com/dmitrymomot/inputguard/pkg/httpserver"
	"github.com/dmitrymomot/inputguard/pkg/logger"
	"github.com/dmitrymomot/inputguard/pkg/pg"
	"github.com/dmitrymomot/inputguard/pkg/redis"
	"github.com/dmitrymomot/inputguard/pkg/sanitizer"
	"github.com/dmitrymomot/inputguard/pkg/secheaders"
)

type appConfig struct {
	Log       logger.Config
	Server    httpserver.Config
	Sanitizer sanitizer.Config
	Guard     guard.Config
	ClientIP  clientip.Config
	Headers   secheaders.Config
	Audit     audit.Config
	Postgres  pg.Config
	Redis     redis.Config
}

func loadConfig() (appConfig, error) {
	var cfg appConfig
	err := config.Load(&cfg)
	return cfg, err
}
