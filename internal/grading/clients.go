package grading

import (
	"context"
	"net/http"
	"strings"
	"time"

	"gradeassist/internal/inference"
	"gradeassist/pkg/types"
)

const (
	detectTimeout     = 30 * time.Second
	similarityTimeout = 10 * time.Second
)

// Detector classifies an answer as human- or machine-written.
type Detector interface {
	Detect(ctx context.Context, text string) (types.DetectionResponse, error)
}

// Comparer scores an answer against the reference answers.
type Comparer interface {
	Compare(ctx context.Context, req types.ComparisonRequest) (types.ComparisonResponse, error)
}

// DetectClient calls POST <base>/detect on a detection service.
type DetectClient struct {
	base string
	cl   *http.Client
}

func NewDetectClient(base string, cl *http.Client) *DetectClient {
	if cl == nil {
		cl = inference.NewHTTPClient(0)
	}
	return &DetectClient{base: strings.TrimRight(base, "/"), cl: cl}
}

func (c *DetectClient) Detect(ctx context.Context, text string) (types.DetectionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, detectTimeout)
	defer cancel()
	var out types.DetectionResponse
	err := inference.PostJSON(ctx, c.cl, c.base+"/detect", "", types.TextRequest{Text: text}, &out)
	return out, err
}

// SimilarityClient calls POST <base>/compare-answers on the similarity service.
type SimilarityClient struct {
	base    string
	cl      *http.Client
	timeout time.Duration
}

func NewSimilarityClient(base string, cl *http.Client) *SimilarityClient {
	if cl == nil {
		cl = inference.NewHTTPClient(0)
	}
	return &SimilarityClient{base: strings.TrimRight(base, "/"), cl: cl, timeout: similarityTimeout}
}

func (c *SimilarityClient) Compare(ctx context.Context, req types.ComparisonRequest) (types.ComparisonResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	var out types.ComparisonResponse
	err := inference.PostJSON(ctx, c.cl, c.base+"/compare-answers", "", req, &out)
	return out, err
}
