package config

import (
	"fmt"
	"strings"
)

// Service names accepted by `gradeassist serve`.
const (
	ServiceBERT       = "bert"
	ServiceDeBERTa    = "deberta"
	ServiceMGT        = "mgt"
	ServiceFallback   = "fallback"
	ServiceVLM        = "vlm"
	ServiceSimilarity = "similarity"
	ServiceGrader     = "grader"
)

// Services lists every service in a stable order.
var Services = []string{ServiceBERT, ServiceDeBERTa, ServiceMGT, ServiceFallback, ServiceVLM, ServiceSimilarity, ServiceGrader}

var defaultAddrs = map[string]string{
	ServiceBERT:       ":8000",
	ServiceDeBERTa:    ":8000",
	ServiceMGT:        ":8000",
	ServiceFallback:   ":7000",
	ServiceVLM:        ":6000",
	ServiceSimilarity: ":7000",
	ServiceGrader:     ":5000",
}

// DefaultAddr returns the listen address a service uses when none is configured.
func DefaultAddr(service string) string {
	if a, ok := defaultAddrs[service]; ok {
		return a
	}
	return ":8000"
}

// Default returns a Config with every default applied.
func Default() Config {
	return Config{
		LogLevel:              "info",
		LogFormat:             "json",
		MaxBodyBytes:          1 << 20,
		UploadMaxBytes:        20 << 20,
		RequestTimeoutSeconds: 60,
		Backends: Backends{
			BERT:               Backend{URL: "http://localhost:8081", Model: "bert-ai-detector", API: "tei"},
			DeBERTa:            Backend{URL: "http://localhost:8082", Model: "OU-Advacheck/deberta-v3-base-daigenc-mgt1a", API: "tei", Policy: "bands"},
			MGT:                Backend{URL: "http://localhost:8083", Model: "OU-Advacheck/deberta-v3-base-daigenc-mgt1s", API: "tei"},
			RetrievalEmbedder:  Backend{URL: "http://localhost:8084", Model: "BAAI/bge-small-en-v1.5", API: "tei", Dims: 384},
			SimilarityEmbedder: Backend{URL: "http://localhost:8085", Model: "sentence-transformers/all-MiniLM-L6-v2", API: "tei"},
		},
		Gemini: Gemini{
			Model:       "gemini-1.5-flash",
			VisionModel: "gemini-1.5-flash",
			Temperature: 0.2,
		},
		Generator: Generator{Backend: "gemini", ContextSize: 2048, Threads: 4, MaxTokens: 256},
		Grader: Grader{
			DetectURL:     "http://localhost:7000",
			SimilarityURL: "http://localhost:7000",
			VLMURL:        "http://localhost:6000",
		},
		Retrieval: Retrieval{TopK: 3, ChunkSize: 1000},
	}
}

// Validate checks that the backends the given service needs are configured.
func (c Config) Validate(service string) error {
	need := func(v, name string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s: %s is required", service, name)
		}
		return nil
	}
	switch service {
	case ServiceBERT:
		return need(c.Backends.BERT.URL, "backends.bert.url")
	case ServiceDeBERTa:
		if err := need(c.Backends.DeBERTa.URL, "backends.deberta.url"); err != nil {
			return err
		}
		switch c.Backends.DeBERTa.Policy {
		case "", "bands", "margin":
			return nil
		default:
			return fmt.Errorf("%s: unknown policy %q", service, c.Backends.DeBERTa.Policy)
		}
	case ServiceMGT:
		return need(c.Backends.MGT.URL, "backends.mgt.url")
	case ServiceFallback:
		return nil
	case ServiceVLM:
		return need(c.Gemini.APIKey, "gemini.api_key")
	case ServiceSimilarity:
		if err := need(c.Backends.SimilarityEmbedder.URL, "backends.similarity_embedder.url"); err != nil {
			return err
		}
		if c.DatabaseURL != "" {
			if err := need(c.Backends.RetrievalEmbedder.URL, "backends.retrieval_embedder.url"); err != nil {
				return err
			}
			if c.Backends.RetrievalEmbedder.Dims <= 0 {
				return fmt.Errorf("%s: backends.retrieval_embedder.dims must be positive", service)
			}
		}
		switch c.Generator.Backend {
		case "", "gemini":
			return need(c.Gemini.APIKey, "gemini.api_key")
		case "llama":
			return need(c.Generator.LlamaModelPath, "generator.llama_model_path")
		default:
			return fmt.Errorf("%s: unknown generator backend %q", service, c.Generator.Backend)
		}
	case ServiceGrader:
		if err := need(c.Grader.DetectURL, "grader.detect_url"); err != nil {
			return err
		}
		if err := need(c.Grader.SimilarityURL, "grader.similarity_url"); err != nil {
			return err
		}
		return need(c.Grader.VLMURL, "grader.vlm_url")
	default:
		return fmt.Errorf("unknown service %q", service)
	}
}
