package inference

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OpenAIEmbedder talks to an OpenAI-compatible /v1/embeddings endpoint
// (llama.cpp server, vLLM, Ollama, ...).
type OpenAIEmbedder struct {
	baseURL string
	apiKey  string
	model   string
	timeout time.Duration
	cl      *http.Client
}

func NewOpenAIEmbedder(baseURL, apiKey, model string, cl *http.Client) *OpenAIEmbedder {
	if cl == nil {
		cl = NewHTTPClient(5 * time.Second)
	}
	return &OpenAIEmbedder{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		timeout: 30 * time.Second,
		cl:      cl,
	}
}

func (o *OpenAIEmbedder) URL() string   { return o.baseURL }
func (o *OpenAIEmbedder) Model() string { return o.model }

type openAIEmbeddingRequest struct {
	Model string   `json:"model,omitempty"`
	Input []string `json:"input"`
}

type openAIEmbeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (o *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	defer observe("openai", "embed", time.Now())

	var resp openAIEmbeddingResponse
	if err := PostJSON(ctx, o.cl, o.baseURL+"/v1/embeddings", o.apiKey, openAIEmbeddingRequest{Model: o.model, Input: texts}, &resp); err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embeddings: got %d vectors for %d inputs", len(resp.Data), len(texts))
	}
	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("openai embeddings: index %d out of range", d.Index)
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}

// Ping lists models; most compatible servers answer /v1/models without auth.
func (o *OpenAIEmbedder) Ping(ctx context.Context) error {
	if err := GetOK(ctx, o.cl, o.baseURL+"/v1/models"); err != nil {
		return fmt.Errorf("openai models: %w", err)
	}
	return nil
}
