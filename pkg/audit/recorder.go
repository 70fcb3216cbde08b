package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/inputguard/pkg/sanitizer"
)

// Recorder turns sanitizer changes into audit events and writes them to a
// Storage in batches on a background goroutine. ReportChange never blocks:
// when the queue is full the event is dropped and counted.
type Recorder struct {
	storage Storage
	log     *slog.Logger

	requestID   contextExtractor
	ip          contextExtractor
	attacksOnly bool
	onDrop      func()

	bufferSize     int
	batchSize      int
	batchTimeout   time.Duration
	storageTimeout time.Duration

	// mu guards closed. Senders hold the read lock across the enqueue so
	// Close cannot finish while an event is in flight.
	mu      sync.RWMutex
	closed  bool
	queue   chan Event
	done    chan struct{}
	wg      sync.WaitGroup
	dropped atomic.Int64
	now     func() time.Time
}

// NewRecorder starts a recorder writing to storage.
func NewRecorder(storage Storage, opts ...Option) *Recorder {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}

	r := &Recorder{
		storage:        storage,
		log:            slog.Default(),
		bufferSize:     1000,
		batchSize:      100,
		batchTimeout:   time.Second,
		storageTimeout: 5 * time.Second,
		done:           make(chan struct{}),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.queue = make(chan Event, r.bufferSize)

	r.wg.Add(1)
	go r.worker()

	return r
}

// ReportChange implements sanitizer.Reporter.
func (r *Recorder) ReportChange(ctx context.Context, c sanitizer.Change) {
	if r.attacksOnly && !c.Attack() {
		return
	}

	e := r.event(ctx, c)

	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		r.drop(ctx, "recorder closed")
		return
	}
	queued := false
	select {
	case r.queue <- e:
		queued = true
	default:
	}
	r.mu.RUnlock()

	if !queued {
		r.drop(ctx, "buffer full")
	}
}

// Dropped returns the number of events discarded so far.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

func (r *Recorder) drop(ctx context.Context, reason string) {
	r.dropped.Add(1)
	if r.onDrop != nil {
		r.onDrop()
	}
	r.log.DebugContext(ctx, "audit: event dropped", slog.String("reason", reason))
}

func (r *Recorder) event(ctx context.Context, c sanitizer.Change) Event {
	e := Event{
		ID:        uuid.New().String(),
		Source:    string(c.Field.Source),
		Field:     c.Field.Name,
		Original:  c.Original,
		Cleaned:   c.Cleaned,
		Attack:    c.Attack(),
		Fallback:  c.Fallback,
		CreatedAt: r.now().UTC(),
	}
	for _, f := range c.Families {
		e.Families = append(e.Families, string(f))
	}

	e.RequestID = extract(ctx, r.requestID)
	e.IP = extract(ctx, r.ip)
	e.Method, _ = MethodFromContext(ctx)
	e.Path, _ = PathFromContext(ctx)
	e.UserAgent, _ = UserAgentFromContext(ctx)
	return e
}

func extract(ctx context.Context, fn contextExtractor) string {
	if fn == nil {
		return ""
	}
	if v, ok := fn(ctx); ok {
		return v
	}
	return ""
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	batch := make([]Event, 0, r.batchSize)
	ticker := time.NewTicker(r.batchTimeout)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		// Request contexts are gone by now; storage gets its own deadline.
		ctx, cancel := context.WithTimeout(context.Background(), r.storageTimeout)
		defer cancel()

		events := batch
		batch = make([]Event, 0, r.batchSize)
		if err := r.storage.StoreBatch(ctx, events); err != nil {
			r.log.ErrorContext(ctx, "audit: failed to store events",
				slog.Int("count", len(events)),
				slog.String("error", err.Error()),
			)
		}
	}

	for {
		select {
		case e := <-r.queue:
			batch = append(batch, e)
			if len(batch) >= r.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-r.done:
			for {
				select {
				case e := <-r.queue:
					batch = append(batch, e)
					if len(batch) >= r.batchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

// Close stops accepting events and flushes the queue. The context bounds
// how long Close waits for the final write.
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRecorderClosed
	}
	r.closed = true
	close(r.done)
	r.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
