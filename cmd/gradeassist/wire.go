package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"gradeassist/internal/config"
	"gradeassist/internal/detect"
	"gradeassist/internal/exam"
	"gradeassist/internal/grading"
	"gradeassist/internal/httpapi"
	"gradeassist/internal/inference"
	"gradeassist/internal/manager"
	"gradeassist/internal/similarity"
	"gradeassist/internal/store"
	"gradeassist/pkg/types"
)

// app is one assembled service.
type app struct {
	mgr     *manager.Manager
	mounts  []httpapi.Mount
	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func build(ctx context.Context, service string, cfg config.Config, log zerolog.Logger) (*app, error) {
	switch service {
	case config.ServiceBERT:
		return buildBERT(cfg), nil
	case config.ServiceDeBERTa:
		return buildDeBERTa(cfg)
	case config.ServiceMGT:
		return buildMGT(cfg), nil
	case config.ServiceFallback:
		return buildFallback(), nil
	case config.ServiceVLM:
		return buildVLM(ctx, cfg, log)
	case config.ServiceSimilarity:
		return buildSimilarity(ctx, cfg, log)
	case config.ServiceGrader:
		return buildGrader(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown service %q", service)
	}
}

func classifierBackend(name string, b config.Backend, tei *inference.TEI) manager.Backend {
	return manager.Backend{
		Name:  name,
		Model: &types.Model{ID: b.Model, Name: name + " classifier", Backend: "tei", Task: "classification", URL: tei.URL()},
		Ping:  tei.Ping,
	}
}

func embedderBackend(name string, emb inference.EmbedderBackend, api string) manager.Backend {
	if api == "" {
		api = "tei"
	}
	return manager.Backend{
		Name:  name,
		Model: &types.Model{ID: emb.Model(), Name: name, Backend: api, Task: "embedding", URL: emb.URL()},
		Ping:  emb.Ping,
	}
}

func buildBERT(cfg config.Config) *app {
	b := cfg.Backends.BERT
	tei := inference.NewTEI(b.URL, b.Model)
	return &app{
		mgr:    manager.New(config.ServiceBERT, classifierBackend("bert", b, tei)),
		mounts: []httpapi.Mount{httpapi.BERTRoutes(detect.NewBERT(tei))},
	}
}

func buildDeBERTa(cfg config.Config) (*app, error) {
	b := cfg.Backends.DeBERTa
	policy, err := detect.ParsePolicy(b.Policy)
	if err != nil {
		return nil, err
	}
	tei := inference.NewTEI(b.URL, b.Model)
	return &app{
		mgr:    manager.New(config.ServiceDeBERTa, classifierBackend("deberta", b, tei)),
		mounts: []httpapi.Mount{httpapi.DetectRoutes(detect.NewDeBERTa(tei, policy))},
	}, nil
}

func buildMGT(cfg config.Config) *app {
	b := cfg.Backends.MGT
	tei := inference.NewTEI(b.URL, b.Model)
	return &app{
		mgr:    manager.New(config.ServiceMGT, classifierBackend("mgt", b, tei)),
		mounts: []httpapi.Mount{httpapi.DetectRoutes(detect.NewMGT(tei))},
	}
}

func buildFallback() *app {
	model := &types.Model{ID: "fixed-fallback", Name: "Fixed human-written verdict", Backend: "builtin", Task: "classification"}
	return &app{
		mgr:    manager.New(config.ServiceFallback, manager.Backend{Name: "fallback", Model: model}),
		mounts: []httpapi.Mount{httpapi.FallbackRoutes()},
	}
}

// openStore migrates and opens the database. It returns nil when no URL is configured.
func openStore(ctx context.Context, cfg config.Config, a *app) (*store.Store, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}
	dims := cfg.Backends.RetrievalEmbedder.Dims
	if err := store.MigrateURL(ctx, cfg.DatabaseURL, dims); err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg.DatabaseURL, dims)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, st.Close)
	return st, nil
}

func newGemini(ctx context.Context, cfg config.Config, a *app) (*inference.Gemini, error) {
	g, err := inference.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.VisionModel, cfg.Gemini.Temperature)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = g.Close() })
	return g, nil
}

func buildVLM(ctx context.Context, cfg config.Config, log zerolog.Logger) (*app, error) {
	a := &app{}
	g, err := newGemini(ctx, cfg, a)
	if err != nil {
		return nil, err
	}
	backends := []manager.Backend{{
		Name:  "gemini",
		Model: &types.Model{ID: g.VisionModel(), Name: "Gemini vision model", Backend: "gemini", Task: "vision"},
		Ping:  g.PingVision,
	}}
	st, err := openStore(ctx, cfg, a)
	if err != nil {
		a.close()
		return nil, err
	}
	var es exam.Store
	if st != nil {
		es = st
		backends = append(backends, manager.Backend{Name: "database", Ping: st.Ping})
	}
	a.mgr = manager.New(config.ServiceVLM, backends...)
	a.mounts = []httpapi.Mount{httpapi.VLMRoutes(a.mgr, exam.NewProcessor(g, es, log))}
	return a, nil
}

func buildSimilarity(ctx context.Context, cfg config.Config, log zerolog.Logger) (*app, error) {
	a := &app{}
	var backends []manager.Backend

	var gen inference.Generator
	switch cfg.Generator.Backend {
	case "llama":
		l, err := inference.NewLlama(cfg.Generator.LlamaModelPath, cfg.Generator.ContextSize, cfg.Generator.Threads, cfg.Generator.MaxTokens)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = l.Close() })
		gen = l
		backends = append(backends, manager.Backend{
			Name:  "llama",
			Model: &types.Model{ID: cfg.Generator.LlamaModelPath, Name: "llama.cpp generator", Backend: "llama", Task: "generation"},
			Ping:  l.Ping,
		})
	default:
		g, err := newGemini(ctx, cfg, a)
		if err != nil {
			return nil, err
		}
		gen = g
		backends = append(backends, manager.Backend{
			Name:  "gemini",
			Model: &types.Model{ID: g.Model(), Name: "Gemini generator", Backend: "gemini", Task: "generation"},
			Ping:  g.Ping,
		})
	}

	simEmb, err := inference.NewEmbedder(cfg.Backends.SimilarityEmbedder)
	if err != nil {
		a.close()
		return nil, err
	}
	backends = append(backends, embedderBackend("similarity embedder", simEmb, cfg.Backends.SimilarityEmbedder.API))

	var (
		retEmb   inference.Embedder
		passages similarity.PassageStore
	)
	st, err := openStore(ctx, cfg, a)
	if err != nil {
		a.close()
		return nil, err
	}
	if st != nil {
		re, err := inference.NewEmbedder(cfg.Backends.RetrievalEmbedder)
		if err != nil {
			a.close()
			return nil, err
		}
		retEmb, passages = re, st
		backends = append(backends,
			embedderBackend("retrieval embedder", re, cfg.Backends.RetrievalEmbedder.API),
			manager.Backend{Name: "database", Ping: st.Ping},
		)
	}

	r := similarity.NewRetriever(retEmb, passages, cfg.Retrieval.TopK, cfg.Retrieval.ChunkSize)
	a.mgr = manager.New(config.ServiceSimilarity, backends...)
	a.mounts = []httpapi.Mount{
		httpapi.SimilarityRoutes(similarity.NewService(r, gen, simEmb, log)),
		httpapi.FallbackRoutes(),
	}
	return a, nil
}

// buildGrader wires the gateway. Downstream services are optional because
// grading falls back when they are down.
func buildGrader(cfg config.Config, log zerolog.Logger) *app {
	cl := inference.NewHTTPClient(0)
	g := cfg.Grader
	probes := map[string]grading.Probe{
		"vlm_service": grading.HTTPProbe(cl, g.VLMURL),
		"detection":   grading.HTTPProbe(cl, g.DetectURL),
		"similarity":  grading.HTTPProbe(cl, g.SimilarityURL),
	}
	if cfg.DatabaseURL != "" {
		url := cfg.DatabaseURL
		probes["database"] = func(ctx context.Context) error { return store.PingURL(ctx, url) }
	}
	var backends []manager.Backend
	for _, name := range []string{"detection", "similarity", "vlm_service"} {
		backends = append(backends, manager.Backend{Name: name, Ping: probes[name], Optional: true})
	}

	grader := grading.NewGrader(grading.NewDetectClient(g.DetectURL, cl), grading.NewSimilarityClient(g.SimilarityURL, cl), log)
	return &app{
		mgr: manager.New(config.ServiceGrader, backends...),
		mounts: []httpapi.Mount{httpapi.GraderRoutes(
			grader,
			grading.NewPhotos(g.VLMURL, cl, log),
			grading.NewStatusChecker(probes),
		)},
	}
}
