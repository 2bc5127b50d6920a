//go:build llama

package inference

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	llama "github.com/go-skynet/go-llama.cpp"
)

// llamaBuilt indicates this binary was compiled with real llama support.
const llamaBuilt = true

// Llama runs a local GGUF model in-process as the RAG answer generator.
// go-llama.cpp contexts are not safe for concurrent use, so Generate holds a mutex.
type Llama struct {
	mu        sync.Mutex
	model     *llama.LLama
	threads   int
	maxTokens int
}

func NewLlama(modelPath string, ctxSize, threads, maxTokens int) (*Llama, error) {
	if strings.TrimSpace(modelPath) == "" {
		return nil, errors.New("model path is empty")
	}
	m, err := llama.New(modelPath, llama.SetContext(zn(ctxSize, 2048)))
	if err != nil {
		return nil, err
	}
	return &Llama{model: m, threads: zn(threads, 4), maxTokens: zn(maxTokens, 256)}, nil
}

func (l *Llama) Generate(ctx context.Context, prompt string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.model == nil {
		return "", errors.New("llama model not initialized")
	}
	defer observe("llama", "generate", time.Now())

	// stop generation when the request goes away
	l.model.SetTokenCallback(func(string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	})
	text, err := l.model.Predict(prompt,
		llama.SetTokens(l.maxTokens),
		llama.SetThreads(l.threads),
		llama.SetTopP(llama.DefaultOptions.TopP),
		llama.SetTopK(llama.DefaultOptions.TopK),
		llama.SetTemperature(llama.DefaultOptions.Temperature),
		llama.SetPenalty(llama.DefaultOptions.Penalty),
		llama.SetStopWords("\nQuestion:"),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (l *Llama) Ping(context.Context) error { return nil }

func (l *Llama) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.model != nil {
		l.model.Free()
		l.model = nil
	}
	return nil
}

func zn(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
