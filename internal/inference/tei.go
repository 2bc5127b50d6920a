package inference

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// TEI talks to a Hugging Face text-embeddings-inference server. The same
// client serves sequence classifiers (/predict) and embedding models (/embed).
type TEI struct {
	baseURL string
	model   string
	labels  []string
	timeout time.Duration
	cl      *http.Client
}

// TEIOption customizes a TEI client.
type TEIOption func(*TEI)

// WithLabels maps label names to logit positions for servers that expose
// id2label names instead of LABEL_n.
func WithLabels(names ...string) TEIOption { return func(t *TEI) { t.labels = names } }

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) TEIOption { return func(t *TEI) { t.timeout = d } }

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(cl *http.Client) TEIOption { return func(t *TEI) { t.cl = cl } }

func NewTEI(baseURL, model string, opts ...TEIOption) *TEI {
	t := &TEI{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		timeout: 30 * time.Second,
	}
	for _, o := range opts {
		o(t)
	}
	if t.cl == nil {
		t.cl = NewHTTPClient(5 * time.Second)
	}
	return t
}

func (t *TEI) URL() string   { return t.baseURL }
func (t *TEI) Model() string { return t.model }

type teiPredictRequest struct {
	Inputs    string `json:"inputs"`
	RawScores bool   `json:"raw_scores"`
	Truncate  bool   `json:"truncate"`
}

type teiPrediction struct {
	Score float64 `json:"score"`
	Label string  `json:"label"`
}

// Logits returns the raw classifier scores ordered by label index.
func (t *TEI) Logits(ctx context.Context, text string) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	defer observe("tei", "predict", time.Now())

	var preds []teiPrediction
	req := teiPredictRequest{Inputs: text, RawScores: true, Truncate: true}
	if err := PostJSON(ctx, t.cl, t.baseURL+"/predict", "", req, &preds); err != nil {
		return nil, fmt.Errorf("tei predict: %w", err)
	}
	if len(preds) == 0 {
		return nil, fmt.Errorf("tei predict: empty response")
	}
	out := make([]float64, len(preds))
	seen := make([]bool, len(preds))
	for _, p := range preds {
		i, err := t.labelIndex(p.Label)
		if err != nil {
			return nil, err
		}
		if i >= len(out) || seen[i] {
			return nil, fmt.Errorf("tei predict: label %q out of range", p.Label)
		}
		out[i] = p.Score
		seen[i] = true
	}
	return out, nil
}

func (t *TEI) labelIndex(label string) (int, error) {
	for i, n := range t.labels {
		if strings.EqualFold(n, label) {
			return i, nil
		}
	}
	if s, ok := strings.CutPrefix(strings.ToUpper(label), "LABEL_"); ok {
		if i, err := strconv.Atoi(s); err == nil && i >= 0 {
			return i, nil
		}
	}
	return 0, fmt.Errorf("tei predict: unknown label %q", label)
}

type teiEmbedRequest struct {
	Inputs    []string `json:"inputs"`
	Normalize bool     `json:"normalize"`
	Truncate  bool     `json:"truncate"`
}

// Embed returns one normalized vector per input.
func (t *TEI) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	defer observe("tei", "embed", time.Now())

	var vecs [][]float32
	req := teiEmbedRequest{Inputs: texts, Normalize: true, Truncate: true}
	if err := PostJSON(ctx, t.cl, t.baseURL+"/embed", "", req, &vecs); err != nil {
		return nil, fmt.Errorf("tei embed: %w", err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("tei embed: got %d vectors for %d inputs", len(vecs), len(texts))
	}
	return vecs, nil
}

// Ping checks the runtime's /health endpoint.
func (t *TEI) Ping(ctx context.Context) error {
	if err := GetOK(ctx, t.cl, t.baseURL+"/health"); err != nil {
		return fmt.Errorf("tei health: %w", err)
	}
	return nil
}
