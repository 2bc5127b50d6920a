package gradectl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gradeassist/internal/inference"
	"gradeassist/pkg/types"
)

var httpClient = inference.NewHTTPClient(0)

func endpoint(cfg *Config, path string) string {
	return strings.TrimRight(cfg.URL, "/") + path
}

func withTimeout(ctx context.Context, cfg *Config) (context.Context, context.CancelFunc) {
	if cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cfg.Timeout)
}

func printJSON(cfg *Config, v any) error {
	enc := json.NewEncoder(cfg.Out)
	if !cfg.Compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func postJSON(ctx context.Context, cfg *Config, path string, in any) error {
	ctx, cancel := withTimeout(ctx, cfg)
	defer cancel()
	debug("POST %s", endpoint(cfg, path))
	var out json.RawMessage
	if err := inference.PostJSON(ctx, httpClient, endpoint(cfg, path), "", in, &out); err != nil {
		return err
	}
	return printJSON(cfg, out)
}

func getJSON(ctx context.Context, cfg *Config, path string) error {
	ctx, cancel := withTimeout(ctx, cfg)
	defer cancel()
	debug("GET %s", endpoint(cfg, path))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint(cfg, path), nil)
	if err != nil {
		return err
	}
	var out json.RawMessage
	if err := inference.Do(ctx, httpClient, req, &out); err != nil {
		return err
	}
	return printJSON(cfg, out)
}

// upload sends file as the multipart "file" field plus extra form fields.
func upload(ctx context.Context, cfg *Config, path, file string, fields map[string]string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filepath.Base(file))
	if err != nil {
		return err
	}
	if _, err := fw.Write(data); err != nil {
		return err
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, cfg)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint(cfg, path), &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	debug("POST %s (%d bytes from %s)", endpoint(cfg, path), len(data), file)
	var out json.RawMessage
	if err := inference.Do(ctx, httpClient, req, &out); err != nil {
		return err
	}
	return printJSON(cfg, out)
}

// readText returns arg, or stdin when arg is "-".
func readText(cfg *Config, arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	b, err := io.ReadAll(cfg.In)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}

func detectText(ctx context.Context, cfg *Config, text string) error {
	t, err := readText(cfg, text)
	if err != nil {
		return err
	}
	return postJSON(ctx, cfg, "/detect", types.TextRequest{Text: t})
}

func predictText(ctx context.Context, cfg *Config, texts []string) error {
	if len(texts) == 1 {
		t, err := readText(cfg, texts[0])
		if err != nil {
			return err
		}
		return postJSON(ctx, cfg, "/predict", types.TextRequest{Text: t})
	}
	return postJSON(ctx, cfg, "/predict/batch", types.BatchTextRequest{Texts: texts})
}

func compareAnswers(ctx context.Context, cfg *Config, req types.ComparisonRequest) error {
	return postJSON(ctx, cfg, "/compare-answers", req)
}

// gradeFile posts a GradeRequest read from a JSON file ("-" for stdin).
func gradeFile(ctx context.Context, cfg *Config, file string) error {
	var r io.Reader = cfg.In
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	var req types.GradeRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return fmt.Errorf("parse %s: %w", file, err)
	}
	if len(req.Questions) == 0 {
		warn("grade request has no questions")
	}
	return postJSON(ctx, cfg, "/grade", req)
}

func processPhoto(ctx context.Context, cfg *Config, file string) error {
	return upload(ctx, cfg, "/exams/process-photo", file, nil)
}

func extractExam(ctx context.Context, cfg *Config, file string) error {
	return upload(ctx, cfg, "/teacher/process-exam/", file, nil)
}

func extractAnswers(ctx context.Context, cfg *Config, file string, examID int64) error {
	var fields map[string]string
	if examID > 0 {
		fields = map[string]string{"exam_id": strconv.FormatInt(examID, 10)}
	}
	return upload(ctx, cfg, "/student/process-answers/", file, fields)
}

func getExam(ctx context.Context, cfg *Config, id int64) error {
	return getJSON(ctx, cfg, "/exams/"+strconv.FormatInt(id, 10))
}

// ingestFiles indexes each file as one document; source defaults to the file name.
func ingestFiles(ctx context.Context, cfg *Config, source string, files []string) error {
	docs := make([]types.Document, 0, len(files))
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		src := source
		if src == "" {
			src = filepath.Base(f)
		}
		docs = append(docs, types.Document{Source: src, Text: string(b)})
	}
	return postJSON(ctx, cfg, "/documents", types.DocumentsRequest{Documents: docs})
}

func systemStatus(ctx context.Context, cfg *Config) error { return getJSON(ctx, cfg, "/system/status") }

func health(ctx context.Context, cfg *Config) error { return getJSON(ctx, cfg, "/health") }
