package inference

import (
	"context"
	"fmt"
	"strings"

	"gradeassist/internal/config"
)

// Classifier returns raw logits ordered by label index.
type Classifier interface {
	Logits(ctx context.Context, text string) ([]float64, error)
}

// Embedder turns texts into vectors, one per input.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator completes a text prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VisionModel answers a prompt about an image.
type VisionModel interface {
	Describe(ctx context.Context, prompt, mimeType string, image []byte) (string, error)
}

// Pinger is implemented by runtimes that can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// EmbedderBackend is an Embedder that can also be probed.
type EmbedderBackend interface {
	Embedder
	Pinger
	URL() string
	Model() string
}

// NewEmbedder builds an embedder for the configured wire protocol.
func NewEmbedder(b config.Backend) (EmbedderBackend, error) {
	switch strings.ToLower(b.API) {
	case "", "tei":
		return NewTEI(b.URL, b.Model), nil
	case "openai":
		return NewOpenAIEmbedder(b.URL, "", b.Model, nil), nil
	default:
		return nil, fmt.Errorf("unknown embedder api %q", b.API)
	}
}

// LlamaAvailable reports whether this binary was built with -tags=llama.
func LlamaAvailable() bool { return llamaBuilt }
