package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

// Passage is a stored reference chunk.
type Passage struct {
	ID      int64
	Source  string
	Content string
	// Score is the cosine similarity to the query vector.
	Score float64
}

// InsertPassages stores chunks with their embeddings. len(chunks) must equal len(vecs).
func (s *Store) InsertPassages(ctx context.Context, source string, chunks []string, vecs [][]float32) (int, error) {
	if len(chunks) != len(vecs) {
		return 0, fmt.Errorf("got %d chunks and %d vectors", len(chunks), len(vecs))
	}
	batch := &pgx.Batch{}
	for i, c := range chunks {
		if len(vecs[i]) != s.dims {
			return 0, fmt.Errorf("chunk %d: vector has %d dims, want %d", i, len(vecs[i]), s.dims)
		}
		batch.Queue(`INSERT INTO passages (source, content, embedding) VALUES ($1, $2, $3)`, source, c, pgvector.NewVector(vecs[i]))
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("insert passages: %w", err)
	}
	return len(chunks), nil
}

// SearchPassages returns the k passages nearest to vec by cosine distance.
func (s *Store) SearchPassages(ctx context.Context, vec []float32, k int) ([]Passage, error) {
	if len(vec) != s.dims {
		return nil, fmt.Errorf("query vector has %d dims, want %d", len(vec), s.dims)
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, source, content, 1 - (embedding <=> $1) AS score
		 FROM passages ORDER BY embedding <=> $1 LIMIT $2`,
		pgvector.NewVector(vec), k)
	if err != nil {
		return nil, fmt.Errorf("search passages: %w", err)
	}
	defer rows.Close()
	var out []Passage
	for rows.Next() {
		var p Passage
		if err := rows.Scan(&p.ID, &p.Source, &p.Content, &p.Score); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
