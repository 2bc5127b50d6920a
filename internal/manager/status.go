package manager

import (
	"time"

	"gradeassist/pkg/types"
)

// Snapshot returns a read-only view of the manager state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{State: m.state, Err: m.err}
}

// Status builds a detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	snap := m.Snapshot()
	now := time.Now()
	return types.StatusResponse{
		Service:        m.service,
		State:          string(snap.State),
		Models:         m.ListModels(),
		LastError:      snap.Err,
		UptimeSeconds:  int64(now.Sub(m.started).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
}
