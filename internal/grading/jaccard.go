package grading

import (
	"strings"

	"gradeassist/pkg/types"
)

// FallbackRAGAnswer marks a comparison computed locally.
const FallbackRAGAnswer = "Service unavailable"

// Jaccard is the word-set overlap of two texts after lowercasing. Empty input scores 0.
func Jaccard(a, b string) float64 {
	wa, wb := wordSet(a), wordSet(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	inter := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			inter++
		}
	}
	union := len(wa) + len(wb) - inter
	return float64(inter) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, w := range strings.Fields(strings.ToLower(s)) {
		out[w] = struct{}{}
	}
	return out
}

// FallbackComparison stands in for the similarity service.
func FallbackComparison(doctorAnswer, studentAnswer string) types.ComparisonResponse {
	j := Jaccard(studentAnswer, doctorAnswer)
	return types.ComparisonResponse{
		RAGAnswer: FallbackRAGAnswer,
		SimilarityScores: types.SimilarityScores{
			StudentDoctor: j,
			StudentRAG:    0,
			Average:       j * 0.5,
		},
	}
}
