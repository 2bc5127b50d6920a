package similarity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradeassist/internal/manager"
	"gradeassist/internal/store"
	"gradeassist/pkg/types"
)

// mapEmbedder returns a fixed vector per text, or a unit x vector for unknown text.
type mapEmbedder struct {
	vecs  map[string][]float32
	calls [][]string
	err   error
}

func (m *mapEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	m.calls = append(m.calls, texts)
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := m.vecs[t]; ok {
			out[i] = v
		} else {
			out[i] = []float32{1, 0, 0}
		}
	}
	return out, nil
}

type fakeGen struct {
	prompt string
	answer string
	err    error
}

func (g *fakeGen) Generate(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.answer, g.err
}

type memPassages struct {
	stored []string
	hits   []store.Passage
	k      int
}

func (m *memPassages) InsertPassages(_ context.Context, _ string, chunks []string, vecs [][]float32) (int, error) {
	if len(chunks) != len(vecs) {
		return 0, errors.New("length mismatch")
	}
	m.stored = append(m.stored, chunks...)
	return len(chunks), nil
}

func (m *memPassages) SearchPassages(_ context.Context, _ []float32, k int) ([]store.Passage, error) {
	m.k = k
	return m.hits, nil
}

func TestScores(t *testing.T) {
	s := Scores(0.8, 0.6)
	assert.InDelta(t, 0.8, s.StudentDoctor, 1e-9)
	assert.InDelta(t, 0.6, s.StudentRAG, 1e-9)
	assert.InDelta(t, 0.8, s.Average, 1e-9)

	assert.Equal(t, 1.0, Scores(1, 1).Average)
	assert.Equal(t, 0.0, Scores(-0.5, -0.5).Average)
}

func TestPrompt(t *testing.T) {
	assert.Equal(t, "Question: q?\nContext: a\nb\nAnswer:", Prompt("q?", []string{"a", "b"}))
	assert.Equal(t, "Question: q?\nContext: \nAnswer:", Prompt("q?", nil))
}

func TestCompare(t *testing.T) {
	emb := &mapEmbedder{vecs: map[string][]float32{
		"student": {1, 0, 0},
		"doctor":  {1, 0, 0},
		"rag":     {0, 1, 0},
	}}
	passages := &memPassages{hits: []store.Passage{{Content: "p1"}, {Content: "p2"}}}
	gen := &fakeGen{answer: "rag"}
	svc := NewService(NewRetriever(emb, passages, 0, 0), gen, emb, zerolog.Nop())

	resp, err := svc.Compare(context.Background(), types.ComparisonRequest{
		Question: "why?", DoctorAnswer: "doctor", StudentAnswer: "student",
	})
	require.NoError(t, err)
	assert.Equal(t, "rag", resp.RAGAnswer)
	assert.InDelta(t, 1.0, resp.SimilarityScores.StudentDoctor, 1e-9)
	assert.InDelta(t, 0.0, resp.SimilarityScores.StudentRAG, 1e-9)
	assert.InDelta(t, 0.625, resp.SimilarityScores.Average, 1e-9)
	assert.Equal(t, "Question: why?\nContext: p1\np2\nAnswer:", gen.prompt)
	assert.Equal(t, 3, passages.k)
	assert.Equal(t, []string{"student", "doctor", "rag"}, emb.calls[len(emb.calls)-1])
}

func TestCompareWithoutStore(t *testing.T) {
	emb := &mapEmbedder{}
	gen := &fakeGen{answer: "x"}
	svc := NewService(NewRetriever(emb, nil, 3, 0), gen, emb, zerolog.Nop())
	_, err := svc.Compare(context.Background(), types.ComparisonRequest{Question: "q", DoctorAnswer: "d", StudentAnswer: "s"})
	require.NoError(t, err)
	assert.Equal(t, "Question: q\nContext: \nAnswer:", gen.prompt)
	assert.Len(t, emb.calls, 1, "no query embedding without a store")
}

func TestCompareErrors(t *testing.T) {
	emb := &mapEmbedder{}
	svc := NewService(NewRetriever(emb, nil, 3, 0), &fakeGen{}, emb, zerolog.Nop())
	for _, req := range []types.ComparisonRequest{
		{DoctorAnswer: "d", StudentAnswer: "s"},
		{Question: "q", StudentAnswer: "s"},
		{Question: "q", DoctorAnswer: "d", StudentAnswer: "  "},
	} {
		_, err := svc.Compare(context.Background(), req)
		assert.True(t, manager.IsInvalidInput(err), "%+v", req)
	}

	boom := errors.New("boom")
	svc = NewService(NewRetriever(emb, nil, 3, 0), &fakeGen{err: boom}, emb, zerolog.Nop())
	_, err := svc.Compare(context.Background(), types.ComparisonRequest{Question: "q", DoctorAnswer: "d", StudentAnswer: "s"})
	assert.ErrorIs(t, err, boom)
}

func TestIngest(t *testing.T) {
	emb := &mapEmbedder{}
	passages := &memPassages{}
	r := NewRetriever(emb, passages, 3, 20)
	n, err := r.Ingest(context.Background(), []types.Document{
		{Source: "a", Text: "first paragraph\n\nsecond paragraph"},
		{Source: "b", Text: "short"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"first paragraph", "second paragraph", "short"}, passages.stored)

	_, err = r.Ingest(context.Background(), nil)
	assert.True(t, manager.IsInvalidInput(err))
	_, err = r.Ingest(context.Background(), []types.Document{{Text: " "}})
	assert.True(t, manager.IsInvalidInput(err))

	_, err = NewRetriever(emb, nil, 3, 0).Ingest(context.Background(), []types.Document{{Text: "x"}})
	assert.True(t, manager.IsDependencyUnavailable(err))
}

func TestIngest_EmbedsLongDocumentsInBatches(t *testing.T) {
	emb := &mapEmbedder{}
	passages := &memPassages{}
	paras := make([]string, 70)
	for i := range paras {
		paras[i] = fmt.Sprintf("paragraph %02d", i)
	}
	r := NewRetriever(emb, passages, 3, 12)
	n, err := r.Ingest(context.Background(), []types.Document{{Source: "book", Text: strings.Join(paras, "\n\n")}})
	require.NoError(t, err)
	assert.Equal(t, 70, n)
	assert.Equal(t, paras, passages.stored)
	require.Len(t, emb.calls, 3)
	assert.Len(t, emb.calls[0], 32)
	assert.Len(t, emb.calls[1], 32)
	assert.Len(t, emb.calls[2], 6)
}

func TestChunk(t *testing.T) {
	assert.Equal(t, []string{"a\n\nb"}, Chunk("a\n\n\n\nb", 10))
	assert.Equal(t, []string{"aaaa", "bbbb"}, Chunk("aaaa\n\nbbbb", 5))
	assert.Empty(t, Chunk("   ", 10))

	long := strings.Repeat("word ", 50)
	for _, c := range Chunk(long, 24) {
		assert.LessOrEqual(t, len(c), 24)
	}
	assert.Equal(t, []string{"abcde", "fg"}, Chunk("abcdefg", 5))
}
