package manager

import (
	"context"

	"gradeassist/pkg/types"
)

// State represents lifecycle state of the manager.
type State string

const (
	StateReady   State = "ready"
	StateLoading State = "loading"
	StateError   State = "error"
)

// Backend is a runtime the service depends on. Model is nil for runtimes that
// are not models themselves (a database, a downstream service).
type Backend struct {
	Name  string
	Model *types.Model
	// Ping reports whether the runtime is reachable. Nil means always reachable.
	Ping func(ctx context.Context) error
	// Optional means a failed probe is logged but does not fail Load.
	Optional bool
}

// Snapshot is a read-only projection of the manager state.
type Snapshot struct {
	State State
	Err   string
}
