package activity

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Event describes a single auditable action performed against the publishing
// backend. ActorID/UserID/TenantID are string encoded so transports without
// UUID support can still populate them.
type Event struct {
	Verb           string
	ActorID        string
	UserID         string
	TenantID       string
	ObjectType     string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	OccurredAt     time.Time
}

// Hook receives emitted events. Implementations must be safe for concurrent use.
type Hook interface {
	Notify(ctx context.Context, event Event) error
}

// Hooks is an ordered collection of hooks invoked per event.
type Hooks []Hook

// Config controls emitter behaviour.
type Config struct {
	Enabled bool
	Channel string
}

// Emitter fans events out to the configured hooks when enabled.
type Emitter struct {
	hooks   Hooks
	enabled bool
	channel string
	clock   func() time.Time
}

// NewEmitter builds an emitter. A nil hook list yields a disabled emitter that
// drops every event, so services never need nil checks.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	return &Emitter{
		hooks:   hooks,
		enabled: cfg.Enabled && len(hooks) > 0,
		channel: strings.TrimSpace(cfg.Channel),
		clock:   time.Now,
	}
}

// Enabled reports whether emitted events will reach any hook.
func (e *Emitter) Enabled() bool {
	return e != nil && e.enabled
}

// Emit dispatches the event to every hook. Events without a verb are dropped.
// The first hook error is returned after all hooks have been notified.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Verb) == "" {
		return nil
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = e.clock().UTC()
	}
	if event.Channel == "" {
		event.Channel = e.channel
	}

	var first error
	for _, hook := range e.hooks {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// CaptureHook records events in memory; intended for tests.
type CaptureHook struct {
	mu     sync.Mutex
	events []Event
}

// Notify stores the event.
func (h *CaptureHook) Notify(_ context.Context, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return nil
}

// Events returns a copy of the captured events.
func (h *CaptureHook) Events() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Event, len(h.events))
	copy(out, h.events)
	return out
}
