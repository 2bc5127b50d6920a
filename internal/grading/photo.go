package grading

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"gradeassist/internal/exam"
	"gradeassist/internal/inference"
	"gradeassist/internal/manager"
	"gradeassist/pkg/types"
)

// VLMUnavailableMessage is returned when the VLM health pre-check fails.
const VLMUnavailableMessage = "AI processing service is unavailable. Please try creating an exam manually or contact support."

const (
	vlmHealthTimeout  = 3 * time.Second
	vlmProcessTimeout = 120 * time.Second
)

// UpstreamError reports a non-2xx answer from a downstream service. It maps to 502.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string   { return "VLM API error: " + e.Err.Error() }
func (e *UpstreamError) Unwrap() error   { return e.Err }
func (e *UpstreamError) StatusCode() int { return http.StatusBadGateway }

// Photos forwards exam photos to the VLM service and builds exam drafts.
type Photos struct {
	vlm string
	cl  *http.Client
	now func() time.Time
	log zerolog.Logger
}

func NewPhotos(vlmURL string, cl *http.Client, log zerolog.Logger) *Photos {
	if cl == nil {
		cl = inference.NewHTTPClient(0)
	}
	return &Photos{vlm: strings.TrimRight(vlmURL, "/"), cl: cl, now: time.Now, log: log}
}

// Process turns one exam photo into a draft.
func (p *Photos) Process(ctx context.Context, filename string, data []byte) (types.ExamDraft, error) {
	if len(data) == 0 {
		return types.ExamDraft{}, manager.ErrInvalidInput("no file provided")
	}
	hctx, cancel := context.WithTimeout(ctx, vlmHealthTimeout)
	err := inference.GetOK(hctx, p.cl, p.vlm+"/health")
	cancel()
	if err != nil {
		p.log.Error().Err(err).Msg("vlm service check failed")
		return types.ExamDraft{}, manager.ErrDependencyUnavailable(VLMUnavailableMessage)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return types.ExamDraft{}, err
	}
	if _, err := fw.Write(data); err != nil {
		return types.ExamDraft{}, err
	}
	if err := mw.Close(); err != nil {
		return types.ExamDraft{}, err
	}

	ctx, cancel = context.WithTimeout(ctx, vlmProcessTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.vlm+"/teacher/process-exam/", &body)
	if err != nil {
		return types.ExamDraft{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var result any
	if err := inference.Do(ctx, p.cl, req, &result); err != nil {
		var se *inference.StatusError
		if errors.As(err, &se) {
			return types.ExamDraft{}, &UpstreamError{Err: err}
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return types.ExamDraft{}, manager.ErrDependencyUnavailable("VLM API request timed out: processing took too long")
		}
		return types.ExamDraft{}, manager.ErrDependencyUnavailable(fmt.Sprintf("VLM API server connection failed: %v", err))
	}
	p.log.Info().Str("file", filename).Int("bytes", len(data)).Msg("exam photo processed")
	return exam.BuildDraft(result, p.now()), nil
}
