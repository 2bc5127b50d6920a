package similarity

import (
	"context"
	"fmt"
	"strings"

	"gradeassist/internal/inference"
	"gradeassist/internal/manager"
	"gradeassist/internal/store"
	"gradeassist/pkg/types"
)

// PassageStore is the vector store behind the retriever.
type PassageStore interface {
	InsertPassages(ctx context.Context, source string, chunks []string, vecs [][]float32) (int, error)
	SearchPassages(ctx context.Context, vec []float32, k int) ([]store.Passage, error)
}

// embedBatchSize stays within TEI's default max-client-batch-size.
const embedBatchSize = 32

// Retriever finds reference passages for a question.
type Retriever struct {
	emb       inference.Embedder
	store     PassageStore
	topK      int
	chunkSize int
}

// NewRetriever builds a retriever. A nil store yields no passages.
func NewRetriever(emb inference.Embedder, st PassageStore, topK, chunkSize int) *Retriever {
	if topK <= 0 {
		topK = 3
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Retriever{emb: emb, store: st, topK: topK, chunkSize: chunkSize}
}

// Retrieve returns the texts of the nearest passages to query.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]string, error) {
	if r == nil || r.store == nil || r.emb == nil {
		return nil, nil
	}
	vecs, err := r.emb.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embed query: got %d vectors", len(vecs))
	}
	hits, err := r.store.SearchPassages(ctx, vecs[0], r.topK)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Content)
	}
	return out, nil
}

// Ingest chunks, embeds and stores documents. It returns the number of stored chunks.
func (r *Retriever) Ingest(ctx context.Context, docs []types.Document) (int, error) {
	if r == nil || r.store == nil || r.emb == nil {
		return 0, manager.ErrDependencyUnavailable("no passage store configured")
	}
	if len(docs) == 0 {
		return 0, manager.ErrInvalidInput("no documents provided")
	}
	total := 0
	for i, d := range docs {
		if strings.TrimSpace(d.Text) == "" {
			return total, manager.ErrInvalidInput(fmt.Sprintf("document %d is empty", i))
		}
		chunks := Chunk(d.Text, r.chunkSize)
		vecs, err := r.embedAll(ctx, chunks)
		if err != nil {
			return total, fmt.Errorf("embed document %d: %w", i, err)
		}
		n, err := r.store.InsertPassages(ctx, d.Source, chunks, vecs)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// embedAll embeds texts in batches of at most embedBatchSize.
func (r *Retriever) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := min(start+embedBatchSize, len(texts))
		vecs, err := r.emb.Embed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		if len(vecs) != end-start {
			return nil, fmt.Errorf("got %d vectors for %d chunks", len(vecs), end-start)
		}
		out = append(out, vecs...)
	}
	return out, nil
}
