package audit

import (
	"context"
	"log/slog"
	"time"
)

// Config holds environment driven settings for the recorder.
type Config struct {
	Enabled        bool          `env:"AUDIT_ENABLED" envDefault:"true"`
	Backend        string        `env:"AUDIT_BACKEND" envDefault:"log"` // Backend is one of log, memory, postgres or redis.
	AttacksOnly    bool          `env:"AUDIT_ATTACKS_ONLY" envDefault:"true"` // AttacksOnly skips changes caused by plain escaping.
	BufferSize     int           `env:"AUDIT_BUFFER_SIZE" envDefault:"1000"`
	BatchSize      int           `env:"AUDIT_BATCH_SIZE" envDefault:"100"`
	BatchTimeout   time.Duration `env:"AUDIT_BATCH_TIMEOUT" envDefault:"1s"`
	StorageTimeout time.Duration `env:"AUDIT_STORAGE_TIMEOUT" envDefault:"5s"`
}

// contextExtractor extracts a string value from context.
// It returns (value, found) where found indicates if extraction succeeded.
type contextExtractor func(context.Context) (string, bool)

// Option configures a Recorder.
type Option func(*Recorder)

func WithRequestIDExtractor(fn contextExtractor) Option {
	return func(r *Recorder) {
		r.requestID = fn
	}
}

func WithIPExtractor(fn contextExtractor) Option {
	return func(r *Recorder) {
		r.ip = fn
	}
}

// WithAttacksOnly records only changes whose original value was classified
// as an attack.
func WithAttacksOnly(enabled bool) Option {
	return func(r *Recorder) {
		r.attacksOnly = enabled
	}
}

// WithBuffer sets the queue capacity. Events arriving while the queue is
// full are dropped.
func WithBuffer(size int) Option {
	return func(r *Recorder) {
		if size <= 0 {
			panic("audit: buffer size must be positive")
		}
		r.bufferSize = size
	}
}

// WithBatch sets how many events are written together and how long a
// partial batch may wait.
func WithBatch(size int, timeout time.Duration) Option {
	return func(r *Recorder) {
		if size <= 0 || timeout <= 0 {
			panic("audit: batch size and timeout must be positive")
		}
		r.batchSize = size
		r.batchTimeout = timeout
	}
}

// WithStorageTimeout bounds a single StoreBatch call.
func WithStorageTimeout(d time.Duration) Option {
	return func(r *Recorder) {
		if d <= 0 {
			panic("audit: storage timeout must be positive")
		}
		r.storageTimeout = d
	}
}

// WithLogger sets the logger used for storage failures and dropped events.
func WithLogger(l *slog.Logger) Option {
	return func(r *Recorder) {
		if l != nil {
			r.log = l
		}
	}
}

// WithDropHook registers fn to be called for every dropped event.
func WithDropHook(fn func()) Option {
	return func(r *Recorder) {
		r.onDrop = fn
	}
}

// WithConfig applies the values of cfg. Zero values keep the defaults.
func WithConfig(cfg Config) Option {
	return func(r *Recorder) {
		r.attacksOnly = cfg.AttacksOnly
		if cfg.BufferSize > 0 {
			r.bufferSize = cfg.BufferSize
		}
		if cfg.BatchSize > 0 {
			r.batchSize = cfg.BatchSize
		}
		if cfg.BatchTimeout > 0 {
			r.batchTimeout = cfg.BatchTimeout
		}
		if cfg.StorageTimeout > 0 {
			r.storageTimeout = cfg.StorageTimeout
		}
	}
}
