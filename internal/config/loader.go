package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"gradeassist/internal/common/fsutil"
)

// Config holds runtime parameters shared by every service.
// Zero values mean "unspecified"; Default fills them in.
type Config struct {
	Addr                  string `json:"addr" yaml:"addr" toml:"addr"`
	LogLevel              string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat             string `json:"log_format" yaml:"log_format" toml:"log_format"`
	MaxBodyBytes          int64  `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	UploadMaxBytes        int64  `json:"upload_max_bytes" yaml:"upload_max_bytes" toml:"upload_max_bytes"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds" yaml:"request_timeout_seconds" toml:"request_timeout_seconds"`

	CORS        CORS   `json:"cors" yaml:"cors" toml:"cors"`
	DatabaseURL string `json:"database_url" yaml:"database_url" toml:"database_url"`

	Backends  Backends  `json:"backends" yaml:"backends" toml:"backends"`
	Gemini    Gemini    `json:"gemini" yaml:"gemini" toml:"gemini"`
	Generator Generator `json:"generator" yaml:"generator" toml:"generator"`
	Grader    Grader    `json:"grader" yaml:"grader" toml:"grader"`
	Retrieval Retrieval `json:"retrieval" yaml:"retrieval" toml:"retrieval"`
}

// CORS is opt-in; an empty origin list allows any origin.
type CORS struct {
	Enabled bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	Origins []string `json:"origins" yaml:"origins" toml:"origins"`
}

// Backend points at a model runtime.
type Backend struct {
	URL   string `json:"url" yaml:"url" toml:"url"`
	Model string `json:"model" yaml:"model" toml:"model"`
	// API selects the wire protocol: "tei" or "openai" (embeddings only).
	API  string `json:"api" yaml:"api" toml:"api"`
	Dims int    `json:"dims" yaml:"dims" toml:"dims"`
	// Policy selects the DeBERTa confidence policy: "bands" or "margin".
	Policy string `json:"policy" yaml:"policy" toml:"policy"`
}

type Backends struct {
	BERT               Backend `json:"bert" yaml:"bert" toml:"bert"`
	DeBERTa            Backend `json:"deberta" yaml:"deberta" toml:"deberta"`
	MGT                Backend `json:"mgt" yaml:"mgt" toml:"mgt"`
	RetrievalEmbedder  Backend `json:"retrieval_embedder" yaml:"retrieval_embedder" toml:"retrieval_embedder"`
	SimilarityEmbedder Backend `json:"similarity_embedder" yaml:"similarity_embedder" toml:"similarity_embedder"`
}

type Gemini struct {
	APIKey      string  `json:"api_key" yaml:"api_key" toml:"api_key"`
	Model       string  `json:"model" yaml:"model" toml:"model"`
	VisionModel string  `json:"vision_model" yaml:"vision_model" toml:"vision_model"`
	Temperature float32 `json:"temperature" yaml:"temperature" toml:"temperature"`
}

// Generator selects the RAG answer generator: "gemini" or "llama".
type Generator struct {
	Backend        string `json:"backend" yaml:"backend" toml:"backend"`
	LlamaModelPath string `json:"llama_model_path" yaml:"llama_model_path" toml:"llama_model_path"`
	ContextSize    int    `json:"context_size" yaml:"context_size" toml:"context_size"`
	Threads        int    `json:"threads" yaml:"threads" toml:"threads"`
	MaxTokens      int    `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens"`
}

// Grader holds the downstream service URLs used by the grading gateway.
type Grader struct {
	DetectURL     string `json:"detect_url" yaml:"detect_url" toml:"detect_url"`
	SimilarityURL string `json:"similarity_url" yaml:"similarity_url" toml:"similarity_url"`
	VLMURL        string `json:"vlm_url" yaml:"vlm_url" toml:"vlm_url"`
}

type Retrieval struct {
	TopK      int `json:"top_k" yaml:"top_k" toml:"top_k"`
	ChunkSize int `json:"chunk_size" yaml:"chunk_size" toml:"chunk_size"`
}

// Load reads a configuration file based on its extension and fills unset fields
// from Default. Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(p)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	cfg.Generator.LlamaModelPath, err = fsutil.ExpandHome(cfg.Generator.LlamaModelPath)
	if err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error. Existing variables are not overridden.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays environment variables on cfg.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	set := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := strings.TrimSpace(getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}
	set(&cfg.Addr, "GRADEASSIST_ADDR")
	set(&cfg.LogLevel, "GRADEASSIST_LOG_LEVEL")
	set(&cfg.DatabaseURL, "DATABASE_URL")
	set(&cfg.Gemini.APIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY")
	set(&cfg.Gemini.Model, "GEMINI_MODEL")
	set(&cfg.Backends.BERT.URL, "BERT_URL")
	set(&cfg.Backends.DeBERTa.URL, "DEBERTA_URL")
	set(&cfg.Backends.MGT.URL, "MGT_URL")
	set(&cfg.Backends.RetrievalEmbedder.URL, "RETRIEVAL_EMBEDDER_URL")
	set(&cfg.Backends.SimilarityEmbedder.URL, "SIMILARITY_EMBEDDER_URL")
	set(&cfg.Grader.DetectURL, "DETECT_SERVICE_URL")
	set(&cfg.Grader.SimilarityURL, "SIMILARITY_SERVICE_URL")
	set(&cfg.Grader.VLMURL, "VLM_API_URL")
	if v := strings.TrimSpace(getenv("GRADEASSIST_MAX_BODY_BYTES")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxBodyBytes = n
		}
	}
}
