package audit

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

type logStorage struct {
	log *slog.Logger
}

// LogStorage writes every event as a structured log record.
func LogStorage(log *slog.Logger) Storage {
	if log == nil {
		log = slog.Default()
	}
	return &logStorage{log: log}
}

func (s *logStorage) StoreBatch(ctx context.Context, events []Event) error {
	for _, e := range events {
		s.log.LogAttrs(ctx, slog.LevelInfo, "sanitization event",
			slog.String("event_id", e.ID),
			slog.String("request_id", e.RequestID),
			slog.String("ip", e.IP),
			slog.String("method", e.Method),
			slog.String("path", e.Path),
			slog.String("source", e.Source),
			slog.String("field", e.Field),
			slog.String("original", e.Original),
			slog.String("cleaned", e.Cleaned),
			slog.Any("families", e.Families),
			slog.Bool("attack", e.Attack),
			slog.Bool("fallback", e.Fallback),
		)
	}
	return nil
}

// MemoryStorage keeps the most recent events in a fixed-size ring.
// It implements both Storage and Reader.
type MemoryStorage struct {
	mu     sync.RWMutex
	events []Event
	next   int
	full   bool
}

// NewMemoryStorage creates a ring holding up to capacity events.
func NewMemoryStorage(capacity int) *MemoryStorage {
	if capacity <= 0 {
		panic("audit: memory storage capacity must be positive")
	}
	return &MemoryStorage{events: make([]Event, capacity)}
}

func (s *MemoryStorage) StoreBatch(_ context.Context, events []Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range events {
		if err := e.Validate(); err != nil {
			return err
		}
		e.Families = slices.Clone(e.Families)
		s.events[s.next] = e
		s.next = (s.next + 1) % len(s.events)
		if s.next == 0 {
			s.full = true
		}
	}
	return nil
}

func (s *MemoryStorage) Recent(_ context.Context, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	size := s.next
	if s.full {
		size = len(s.events)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]Event, 0, limit)
	for i := range limit {
		idx := (s.next - 1 - i + len(s.events)) % len(s.events)
		out = append(out, s.events[idx])
	}
	return out, nil
}
