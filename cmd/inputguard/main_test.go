package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/inputguard/pkg/audit"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "log", cfg.Audit.Backend)
	assert.True(t, cfg.Audit.AttacksOnly)
	assert.True(t, cfg.Headers.Enabled)
	assert.Equal(t, 65536, cfg.Sanitizer.MaxInputLength)
	assert.Equal(t, []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}, cfg.ClientIP.Headers)
}

func TestOpenAuditBackend(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	b, err := openAuditBackend(ctx, appConfig{Audit: audit.Config{Backend: "log"}}, log)
	require.NoError(t, err)
	assert.NotNil(t, b.storage)
	assert.Nil(t, b.reader)
	b.close()

	b, err = openAuditBackend(ctx, appConfig{Audit: audit.Config{Backend: "memory", BufferSize: 8}}, log)
	require.NoError(t, err)
	assert.NotNil(t, b.reader)

	_, err = openAuditBackend(ctx, appConfig{Audit: audit.Config{Backend: "kafka"}}, log)
	assert.ErrorIs(t, err, audit.ErrUnknownBackend)
}
