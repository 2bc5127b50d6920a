package detect

import (
	"context"
	"math"

	"gradeassist/internal/inference"
	"gradeassist/pkg/types"
)

// MGTLabels are the four classes of the machine-generated-text detector, by index.
var MGTLabels = []string{
	"Human-Written",
	"Human-Written, Machine-Polished",
	"Machine-Generated",
	"Machine-Written, Machine-Humanized",
}

// MGT wraps the four-class detector. Only classes 0 and 2 feed the verdict.
type MGT struct {
	cl inference.Classifier
}

func NewMGT(cl inference.Classifier) *MGT { return &MGT{cl: cl} }

func (m *MGT) Detect(ctx context.Context, text string) (types.DetectionResponse, error) {
	t, err := requireText(text)
	if err != nil {
		return types.DetectionResponse{}, err
	}
	logits, err := logitsN(ctx, m.cl, t, len(MGTLabels))
	if err != nil {
		return types.DetectionResponse{}, err
	}
	p := inference.Softmax(logits)
	human, machine := p[0]*100, p[2]*100
	diff := math.Abs(machine - human)
	band := Band(diff)
	label := "Human-Written"
	if machine >= 50 {
		label = "Machine-Generated"
	}
	if band == Low {
		label = UncertainPrefix + label
	}
	return types.DetectionResponse{
		Classification:     label,
		Confidence:         band,
		ConfidenceScore:    diff,
		HumanProbability:   human,
		MachineProbability: ptr(machine),
	}, nil
}
