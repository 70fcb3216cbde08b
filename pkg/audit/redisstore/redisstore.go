// Package redisstore publishes sanitization audit events to a Redis stream.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/inputguard/pkg/audit"
)

const (
	// DefaultStream is the stream events are appended to.
	DefaultStream = "inputguard:sanitization"
	// DefaultMaxLen caps the stream length (approximately).
	DefaultMaxLen = 10000

	eventField = "event"
)

// Storage implements audit.Storage and audit.Reader on a Redis stream.
type Storage struct {
	client redis.UniversalClient
	stream string
	maxLen int64
}

var (
	_ audit.Storage = (*Storage)(nil)
	_ audit.Reader  = (*Storage)(nil)
)

// Option configures a Storage.
type Option func(*Storage)

// WithStream sets the stream key.
func WithStream(name string) Option {
	return func(s *Storage) {
		if name != "" {
			s.stream = name
		}
	}
}

// WithMaxLen sets the approximate stream length cap. Zero disables trimming.
func WithMaxLen(n int64) Option {
	return func(s *Storage) {
		s.maxLen = n
	}
}

// New creates a storage using client.
func New(client redis.UniversalClient, opts ...Option) *Storage {
	if client == nil {
		panic("redisstore: client cannot be nil")
	}
	s := &Storage{client: client, stream: DefaultStream, maxLen: DefaultMaxLen}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StoreBatch appends events to the stream in one pipeline.
func (s *Storage) StoreBatch(ctx context.Context, events []audit.Event) error {
	if len(events) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for i := range events {
		if err := events[i].Validate(); err != nil {
			return err
		}
		data, err := json.Marshal(events[i])
		if err != nil {
			return errors.Join(ErrEncode, err)
		}
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: s.stream,
			MaxLen: s.maxLen,
			Approx: s.maxLen > 0,
			Values: map[string]any{eventField: data},
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (s *Storage) Recent(ctx context.Context, limit int) ([]audit.Event, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	msgs, err := s.client.XRevRangeN(ctx, s.stream, "+", "-", int64(limit)).Result()
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}

	events := make([]audit.Event, 0, len(msgs))
	for _, msg := range msgs {
		raw, ok := msg.Values[eventField].(string)
		if !ok {
			continue
		}
		var e audit.Event
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, errors.Join(ErrDecode, err)
		}
		events = append(events, e)
	}
	return events, nil
}
