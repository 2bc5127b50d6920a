package manager

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gradeassist/pkg/types"
)

type Manager struct {
	mu       sync.RWMutex
	service  string
	state    State
	err      string
	backends []Backend
	started  time.Time
	pub      EventPublisher
	// per-backend probe timeout
	probeTimeout time.Duration
}

const defaultProbeTimeout = 10 * time.Second

func New(service string, backends ...Backend) *Manager {
	return &Manager{
		service:      service,
		state:        StateLoading,
		backends:     backends,
		started:      time.Now(),
		pub:          noopPublisher{},
		probeTimeout: defaultProbeTimeout,
	}
}

// SetPublisher installs an event publisher. Nil restores the default.
func (m *Manager) SetPublisher(p EventPublisher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p == nil {
		p = noopPublisher{}
	}
	m.pub = p
}

// SetProbeTimeout overrides the per-backend probe timeout.
func (m *Manager) SetProbeTimeout(d time.Duration) {
	if d <= 0 {
		return
	}
	m.mu.Lock()
	m.probeTimeout = d
	m.mu.Unlock()
}

func (m *Manager) Service() string { return m.service }

// Load probes every backend once. The first required backend that fails leaves
// the manager in StateError and its error is returned wrapped as a
// dependency-unavailable error.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	m.state = StateLoading
	m.err = ""
	backends := append([]Backend(nil), m.backends...)
	pub := m.pub
	timeout := m.probeTimeout
	m.mu.Unlock()

	for _, b := range backends {
		if b.Ping == nil {
			continue
		}
		pctx, cancel := context.WithTimeout(ctx, timeout)
		start := time.Now()
		err := b.Ping(pctx)
		cancel()
		if err != nil {
			pub.Publish(Event{Name: "probe_failed", Backend: b.Name, Fields: map[string]any{"error": err.Error(), "optional": b.Optional}})
			if b.Optional {
				continue
			}
			msg := fmt.Sprintf("%s: %v", b.Name, err)
			m.mu.Lock()
			m.state = StateError
			m.err = msg
			m.mu.Unlock()
			return fmt.Errorf("load %s: %w", m.service, ErrDependencyUnavailable(msg))
		}
		pub.Publish(Event{Name: "probe_ok", Backend: b.Name, Fields: map[string]any{"duration_ms": time.Since(start).Milliseconds()}})
	}

	m.mu.Lock()
	m.state = StateReady
	m.mu.Unlock()
	pub.Publish(Event{Name: "ready", Backend: m.service})
	return nil
}

func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateReady
}

// ListModels returns the models wrapped by this service.
func (m *Manager) ListModels() []types.Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Model, 0, len(m.backends))
	for _, b := range m.backends {
		if b.Model != nil {
			out = append(out, *b.Model)
		}
	}
	return out
}

// PrimaryModel returns the ID of the first model backend, or "none".
func (m *Manager) PrimaryModel() string {
	if ms := m.ListModels(); len(ms) > 0 {
		return ms[0].ID
	}
	return "none"
}
