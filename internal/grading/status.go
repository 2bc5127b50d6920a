package grading

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"gradeassist/internal/inference"
	"gradeassist/pkg/types"
)

const (
	probeTimeout = 2 * time.Second
	isoMillis    = "2006-01-02T15:04:05.000Z"
)

// Probe checks one component.
type Probe func(ctx context.Context) error

// HTTPProbe checks GET <base>/health.
func HTTPProbe(cl *http.Client, base string) Probe {
	url := strings.TrimRight(base, "/") + "/health"
	return func(ctx context.Context) error { return inference.GetOK(ctx, cl, url) }
}

// StatusChecker reports the health of the downstream components.
type StatusChecker struct {
	probes map[string]Probe
	now    func() time.Time
}

// NewStatusChecker builds a checker over named probes. A nil probe is skipped.
func NewStatusChecker(probes map[string]Probe) *StatusChecker {
	m := make(map[string]Probe, len(probes))
	for name, p := range probes {
		if p != nil {
			m[name] = p
		}
	}
	return &StatusChecker{probes: m, now: time.Now}
}

// Check runs every probe concurrently with a 2 second deadline each.
func (s *StatusChecker) Check(ctx context.Context) types.SystemStatus {
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out = make(map[string]bool, len(s.probes))
	)
	for name, probe := range s.probes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pctx, cancel := context.WithTimeout(ctx, probeTimeout)
			defer cancel()
			ok := probe(pctx) == nil
			mu.Lock()
			out[name] = ok
			mu.Unlock()
		}()
	}
	wg.Wait()

	status := "healthy"
	for _, ok := range out {
		if !ok {
			status = "degraded"
			break
		}
	}
	return types.SystemStatus{Status: status, Components: out, Timestamp: s.now().UTC().Format(isoMillis)}
}
