// Package detect turns classifier logits into AI-content verdicts.
package detect

import (
	"context"
	"fmt"
	"strings"

	"gradeassist/internal/inference"
	"gradeassist/internal/manager"
	"gradeassist/pkg/types"
)

// Detector classifies a text as human- or machine-written.
type Detector interface {
	Detect(ctx context.Context, text string) (types.DetectionResponse, error)
}

// Confidence bands.
const (
	Low     = "Low"
	Medium  = "Medium"
	High    = "High"
	VeryLow = "Very Low"
)

// UncertainPrefix is prepended to labels in the Low band.
const UncertainPrefix = "Uncertain but it is likely to be "

// Band maps the gap between the two class percentages to a confidence band.
func Band(diff float64) string {
	switch {
	case diff <= 40:
		return Low
	case diff <= 70:
		return Medium
	default:
		return High
	}
}

// Normalize trims and collapses whitespace runs to a single space.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func requireText(text string) (string, error) {
	t := Normalize(text)
	if t == "" {
		return "", manager.ErrInvalidInput("Empty text provided")
	}
	return t, nil
}

func logitsN(ctx context.Context, cl inference.Classifier, text string, n int) ([]float64, error) {
	logits, err := cl.Logits(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(logits) != n {
		return nil, fmt.Errorf("expected %d logits, got %d", n, len(logits))
	}
	return logits, nil
}

func ptr(v float64) *float64 { return &v }
