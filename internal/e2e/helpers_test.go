package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"gradeassist/internal/detect"
	"gradeassist/internal/grading"
	"gradeassist/internal/httpapi"
	"gradeassist/internal/inference"
	"gradeassist/internal/manager"
	"gradeassist/internal/similarity"
	"gradeassist/pkg/types"
)

// fakeRuntime stands in for a text-embeddings-inference server. /predict
// answers with logits and /embed with the same unit vector for every input.
func fakeRuntime(t *testing.T, logits string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/predict":
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, logits)
		case "/embed":
			var req struct {
				Inputs []string `json:"inputs"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			vecs := make([][]float32, len(req.Inputs))
			for i := range vecs {
				vecs[i] = []float32{1, 0, 0}
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(vecs)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

type cannedGenerator string

func (g cannedGenerator) Generate(context.Context, string) (string, error) { return string(g), nil }

func serveMux(t *testing.T, mgr *manager.Manager, mounts ...httpapi.Mount) *httptest.Server {
	t.Helper()
	if err := mgr.Load(context.Background()); err != nil {
		t.Fatalf("load %s: %v", mgr.Service(), err)
	}
	srv := httptest.NewServer(httpapi.NewMux(mgr, mounts...))
	t.Cleanup(srv.Close)
	return srv
}

func newDetectionService(t *testing.T, runtimeURL string) *httptest.Server {
	t.Helper()
	tei := inference.NewTEI(runtimeURL, "deberta")
	mgr := manager.New("deberta", manager.Backend{Name: "deberta", Model: &types.Model{ID: "deberta"}, Ping: tei.Ping})
	return serveMux(t, mgr, httpapi.DetectRoutes(detect.NewDeBERTa(tei, detect.PolicyBands)))
}

func newSimilarityService(t *testing.T, runtimeURL string) *httptest.Server {
	t.Helper()
	emb := inference.NewTEI(runtimeURL, "minilm")
	svc := similarity.NewService(similarity.NewRetriever(nil, nil, 0, 0), cannedGenerator("reference answer"), emb, zerolog.Nop())
	mgr := manager.New("similarity", manager.Backend{Name: "embedder", Model: &types.Model{ID: "minilm"}, Ping: emb.Ping})
	return serveMux(t, mgr, httpapi.SimilarityRoutes(svc))
}

func newGraderService(t *testing.T, detectURL, similarityURL, vlmURL string) *httptest.Server {
	t.Helper()
	g := grading.NewGrader(grading.NewDetectClient(detectURL, nil), grading.NewSimilarityClient(similarityURL, nil), zerolog.Nop())
	status := grading.NewStatusChecker(map[string]grading.Probe{
		"detection":   grading.HTTPProbe(http.DefaultClient, detectURL),
		"similarity":  grading.HTTPProbe(http.DefaultClient, similarityURL),
		"vlm_service": grading.HTTPProbe(http.DefaultClient, vlmURL),
	})
	mounts := httpapi.GraderRoutes(g, grading.NewPhotos(vlmURL, nil, zerolog.Nop()), status)
	return serveMux(t, manager.New("grader"), mounts)
}

// deadURL returns the address of a server that has already been closed.
func deadURL() string {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	return srv.URL
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}
