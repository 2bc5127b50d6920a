// Package manager owns the lifecycle of the model backends a service wraps.
// It is structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, Load (startup probes), getters.
//   - types.go: State, Backend and Snapshot.
//   - errors.go: error types and helpers (IsInvalidInput, IsNotFound, IsDependencyUnavailable).
//   - status.go: Status/Snapshot reporting helpers.
//   - events.go: lifecycle events and publishers.
//
// A service registers one Backend per runtime it depends on (a TEI server, the
// Gemini API, a database). Load probes each of them once; a failed probe leaves
// the manager in StateError and the caller aborts startup.
//
// External packages should treat this package as the lifecycle layer and use
// public methods only (New, Load, Ready, ListModels, Status).
package manager
