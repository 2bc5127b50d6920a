package detect

import (
	"context"
	"fmt"
	"math"

	"gradeassist/internal/inference"
	"gradeassist/pkg/types"
)

// Policy selects how DeBERTa logits become a confidence label.
type Policy string

const (
	// PolicyBands: softmax, percentage gap mapped through Band.
	PolicyBands Policy = "bands"
	// PolicyMargin: independent sigmoids, a probability threshold and a minimum gap.
	PolicyMargin Policy = "margin"
)

const (
	marginThreshold     = 0.60
	marginMinDifference = 0.10
)

// ParsePolicy maps a config value to a Policy. Empty selects PolicyBands.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyBands:
		return PolicyBands, nil
	case PolicyMargin:
		return PolicyMargin, nil
	default:
		return "", fmt.Errorf("unknown detection policy %q", s)
	}
}

// DeBERTa wraps a two-class classifier (0 = human, 1 = AI).
type DeBERTa struct {
	cl     inference.Classifier
	policy Policy
}

func NewDeBERTa(cl inference.Classifier, policy Policy) *DeBERTa {
	if policy == "" {
		policy = PolicyBands
	}
	return &DeBERTa{cl: cl, policy: policy}
}

func (d *DeBERTa) Policy() Policy { return d.policy }

func (d *DeBERTa) Detect(ctx context.Context, text string) (types.DetectionResponse, error) {
	t, err := requireText(text)
	if err != nil {
		return types.DetectionResponse{}, err
	}
	logits, err := logitsN(ctx, d.cl, t, 2)
	if err != nil {
		return types.DetectionResponse{}, err
	}
	if d.policy == PolicyMargin {
		return marginVerdict(logits), nil
	}
	return bandsVerdict(logits), nil
}

func bandsVerdict(logits []float64) types.DetectionResponse {
	p := inference.Softmax(logits)
	human, ai := p[0]*100, p[1]*100
	diff := math.Abs(ai - human)
	band := Band(diff)
	label := "Human"
	if ai >= 50 {
		label = "AI"
	}
	if band == Low {
		label = UncertainPrefix + label
	}
	return types.DetectionResponse{
		Classification:   label,
		Confidence:       band,
		ConfidenceScore:  diff,
		HumanProbability: human,
		AIProbability:    ptr(ai),
	}
}

func marginVerdict(logits []float64) types.DetectionResponse {
	p := inference.Sigmoid(logits)
	human, ai := p[0], p[1]
	diff := math.Abs(ai - human)
	mx := math.Max(ai, human)

	label := "Human"
	if ai > human {
		label = "AI"
	}
	var band string
	switch {
	case diff >= marginMinDifference && mx > marginThreshold:
		band = High
	case diff >= marginMinDifference:
		band = Medium
	case mx > marginThreshold:
		band = Low
	default:
		band = VeryLow
		label = "Uncertain"
	}
	score := 0.0
	if mx > 0 {
		score = diff / mx * 100
	}
	// Weak verdicts are inverted and reported at medium confidence.
	if band == Low || band == VeryLow {
		if label == "AI" {
			label = "Human"
		} else {
			label = "AI"
		}
		band = Medium
	}
	return types.DetectionResponse{
		Classification:   label,
		Confidence:       band,
		ConfidenceScore:  score,
		HumanProbability: human * 100,
		AIProbability:    ptr(ai * 100),
	}
}
