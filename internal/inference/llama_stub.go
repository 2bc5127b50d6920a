//go:build !llama

package inference

// No-CGO stub compiled when the 'llama' build tag is NOT set, keeping default
// builds CGO-free. The real generator lives in llama.go.

import (
	"context"

	"gradeassist/internal/manager"
)

const llamaBuilt = false

type Llama struct{}

// NewLlama fails fast: the llama runtime is not available in this build.
func NewLlama(modelPath string, ctxSize, threads, maxTokens int) (*Llama, error) {
	return nil, manager.ErrDependencyUnavailable("llama support not built (missing 'llama' build tag)")
}

func (l *Llama) Generate(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	return "", manager.ErrDependencyUnavailable("llama support not built (missing 'llama' build tag)")
}

func (l *Llama) Ping(context.Context) error {
	return manager.ErrDependencyUnavailable("llama support not built (missing 'llama' build tag)")
}

func (l *Llama) Close() error { return nil }
