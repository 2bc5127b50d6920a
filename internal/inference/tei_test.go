package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTEIServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		var req teiPredictRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.RawScores)
		assert.True(t, req.Truncate)
		// TEI sorts by score, not by label
		_, _ = w.Write([]byte(`[{"score":2.5,"label":"LABEL_1"},{"score":-1.0,"label":"LABEL_0"}]`))
	})
	mux.HandleFunc("/embed", func(w http.ResponseWriter, r *http.Request) {
		var req teiEmbedRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		out := make([][]float32, len(req.Inputs))
		for i := range req.Inputs {
			out[i] = []float32{float32(i), 1}
		}
		_ = json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestTEILogitsOrderedByLabel(t *testing.T) {
	srv := newTEIServer(t)
	c := NewTEI(srv.URL+"/", "m")
	logits, err := c.Logits(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float64{-1.0, 2.5}, logits)
	assert.Equal(t, srv.URL, c.URL())
}

func TestTEILogitsNamedLabels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"score":0.3,"label":"ai"},{"score":0.1,"label":"human"}]`))
	}))
	defer srv.Close()
	c := NewTEI(srv.URL, "m", WithLabels("human", "ai"))
	logits, err := c.Logits(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.3}, logits)

	_, err = NewTEI(srv.URL, "m").Logits(context.Background(), "x")
	assert.Error(t, err, "unnamed labels without a mapping must fail")
}

func TestTEIEmbed(t *testing.T) {
	srv := newTEIServer(t)
	c := NewTEI(srv.URL, "m")
	vecs, err := c.Embed(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.Equal(t, []float32{2, 1}, vecs[2])

	vecs, err = c.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vecs)
}

func TestTEIPingAndErrors(t *testing.T) {
	srv := newTEIServer(t)
	require.NoError(t, NewTEI(srv.URL, "m").Ping(context.Background()))

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer bad.Close()
	c := NewTEI(bad.URL, "m")
	err := c.Ping(context.Background())
	require.Error(t, err)
	_, err = c.Logits(context.Background(), "x")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.Status)
	assert.Contains(t, se.Error(), "model not loaded")
}
