// Package similarity compares a student's answer against the instructor's
// answer and a retrieval-augmented reference answer.
package similarity

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"gradeassist/internal/inference"
	"gradeassist/internal/manager"
	"gradeassist/pkg/types"
)

// Prompt formats the generation prompt for a question and its context passages.
func Prompt(question string, passages []string) string {
	return fmt.Sprintf("Question: %s\nContext: %s\nAnswer:", question, strings.Join(passages, "\n"))
}

// Scores computes the similarity scores from the three pairwise cosines.
// The instructor similarity is weighted 1.25 and the average is clipped to [0, 1].
func Scores(studentDoctor, studentRAG float64) types.SimilarityScores {
	avg := (1.25*studentDoctor + studentRAG) / 2
	avg = max(0, min(1, avg))
	return types.SimilarityScores{StudentDoctor: studentDoctor, StudentRAG: studentRAG, Average: avg}
}

type Service struct {
	retriever *Retriever
	gen       inference.Generator
	emb       inference.Embedder
	log       zerolog.Logger
}

func NewService(r *Retriever, gen inference.Generator, emb inference.Embedder, log zerolog.Logger) *Service {
	return &Service{retriever: r, gen: gen, emb: emb, log: log}
}

// Compare runs retrieval, generation and scoring for one answer.
func (s *Service) Compare(ctx context.Context, req types.ComparisonRequest) (types.ComparisonResponse, error) {
	switch {
	case strings.TrimSpace(req.Question) == "":
		return types.ComparisonResponse{}, manager.ErrInvalidInput("question is required")
	case strings.TrimSpace(req.DoctorAnswer) == "":
		return types.ComparisonResponse{}, manager.ErrInvalidInput("doctor_answer is required")
	case strings.TrimSpace(req.StudentAnswer) == "":
		return types.ComparisonResponse{}, manager.ErrInvalidInput("student_answer is required")
	}

	passages, err := s.retriever.Retrieve(ctx, req.Question)
	if err != nil {
		return types.ComparisonResponse{}, fmt.Errorf("retrieve context: %w", err)
	}
	s.log.Debug().Int("passages", len(passages)).Msg("context retrieved")

	rag, err := s.gen.Generate(ctx, Prompt(req.Question, passages))
	if err != nil {
		return types.ComparisonResponse{}, fmt.Errorf("generate answer: %w", err)
	}

	vecs, err := s.emb.Embed(ctx, []string{req.StudentAnswer, req.DoctorAnswer, rag})
	if err != nil {
		return types.ComparisonResponse{}, fmt.Errorf("embed answers: %w", err)
	}
	if len(vecs) != 3 {
		return types.ComparisonResponse{}, fmt.Errorf("embed answers: got %d vectors, want 3", len(vecs))
	}
	return types.ComparisonResponse{
		RAGAnswer:        rag,
		SimilarityScores: Scores(inference.Cosine(vecs[0], vecs[1]), inference.Cosine(vecs[0], vecs[2])),
	}, nil
}

// Ingest stores reference documents for retrieval.
func (s *Service) Ingest(ctx context.Context, docs []types.Document) (int, error) {
	return s.retriever.Ingest(ctx, docs)
}
