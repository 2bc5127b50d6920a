package manager

import (
	"sync"

	"github.com/rs/zerolog"
)

// Event represents a manager lifecycle event.
// Minimal and stable: name + backend name and optional fields via key/values.
type Event struct {
	Name    string
	Backend string
	Fields  map[string]any
}

// EventPublisher receives events from the manager. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

// LogPublisher writes events to a zerolog logger.
type LogPublisher struct{ log zerolog.Logger }

func NewLogPublisher(l zerolog.Logger) LogPublisher { return LogPublisher{log: l} }

func (p LogPublisher) Publish(e Event) {
	ev := p.log.Info()
	if e.Name == "probe_failed" {
		ev = p.log.Error()
	}
	ev.Str("event", e.Name).Str("backend", e.Backend).Fields(e.Fields).Msg("manager event")
}

// MemoryPublisher stores events in-memory for tests.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryPublisher() *MemoryPublisher { return &MemoryPublisher{} }

func (p *MemoryPublisher) Publish(e Event) {
	p.mu.Lock()
	p.events = append(p.events, e)
	p.mu.Unlock()
}

func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}
