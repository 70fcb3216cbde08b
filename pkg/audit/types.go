package audit

import (
	"context"
	"fmt"
	"time"
)

// Event is the persisted record of one value altered by the sanitizer.
type Event struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id,omitempty"`
	IP        string    `json:"ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	Method    string    `json:"method,omitempty"`
	Path      string    `json:"path,omitempty"`
	Source    string    `json:"source"`
	Field     string    `json:"field,omitempty"`
	Original  string    `json:"original"`
	Cleaned   string    `json:"cleaned"`
	Families  []string  `json:"families,omitempty"`
	Attack    bool      `json:"attack"`
	Fallback  bool      `json:"fallback,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the fields every storage relies on.
func (e *Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("%w: id is required", ErrEventValidation)
	}
	if e.Source == "" {
		return fmt.Errorf("%w: source is required", ErrEventValidation)
	}
	if e.CreatedAt.IsZero() {
		return fmt.Errorf("%w: created_at is required", ErrEventValidation)
	}
	return nil
}

// Storage persists batches of events. A batch is written atomically where
// the backend allows it.
type Storage interface {
	StoreBatch(ctx context.Context, events []Event) error
}

// Reader returns the most recent events, newest first.
type Reader interface {
	Recent(ctx context.Context, limit int) ([]Event, error)
}
