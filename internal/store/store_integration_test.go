//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"gradeassist/internal/manager"
	"gradeassist/pkg/types"
)

const testDims = 3

func setupStore(t *testing.T) (*Store, string) {
	t.Helper()
	ctx := context.Background()
	ctr, err := postgres.Run(ctx, "pgvector/pgvector:0.7.4-pg16",
		postgres.WithDatabase("gradeassist"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(120*time.Second),
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	url, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, MigrateURL(ctx, url, testDims))

	st, err := Open(ctx, url, testDims)
	require.NoError(t, err)
	t.Cleanup(st.Close)
	return st, url
}

func TestStoreIntegration(t *testing.T) {
	st, url := setupStore(t)
	ctx := context.Background()

	t.Run("exam round trip", func(t *testing.T) {
		in := types.Exam{
			Title: "bio", CourseCode: "BIO1", Duration: 45,
			Questions: []types.Question{
				{Text: "q1", Type: "MCQ", Points: 2, ModelAnswer: "a",
					Options: []types.Option{{Text: "a", IsCorrect: true}, {Text: "b"}}},
				{Text: "q2", Type: "ESSAY", Points: 5, ModelAnswer: "long"},
			},
		}
		id, err := st.CreateExam(ctx, in)
		require.NoError(t, err)

		got, err := st.GetExam(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "none", got.Subject)
		assert.Equal(t, 45, got.Duration)
		require.Len(t, got.Questions, 2)
		assert.Equal(t, in.Questions[0].Options, got.Questions[0].Options)
		assert.Empty(t, got.Questions[1].Options)

		_, err = st.GetExam(ctx, id+1000)
		assert.True(t, manager.IsNotFound(err))
	})

	t.Run("passage search", func(t *testing.T) {
		n, err := st.InsertPassages(ctx, "notes", []string{"x axis", "y axis"},
			[][]float32{{1, 0, 0}, {0, 1, 0}})
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		hits, err := st.SearchPassages(ctx, []float32{0.9, 0.1, 0}, 1)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "x axis", hits[0].Content)
		assert.Greater(t, hits[0].Score, 0.9)

		_, err = st.SearchPassages(ctx, []float32{1, 0}, 1)
		assert.Error(t, err)
	})

	t.Run("migration info", func(t *testing.T) {
		conn, err := st.pool.Acquire(ctx)
		require.NoError(t, err)
		defer conn.Release()
		m, err := NewMigrator(ctx, conn.Conn(), testDims)
		require.NoError(t, err)
		cur, last, listing, err := m.Info(ctx)
		require.NoError(t, err)
		assert.Equal(t, last, cur)
		assert.Contains(t, listing, "->")
		assert.NotEmpty(t, url)
	})
}
