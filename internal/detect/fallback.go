package detect

import (
	"context"

	"gradeassist/pkg/types"
)

// Fallback answers every request with "assume human-written".
type Fallback struct{}

func (Fallback) Detect(context.Context, string) (types.DetectionResponse, error) {
	return FallbackVerdict(), nil
}

// FallbackVerdict is the fixed response used when no detector is available.
func FallbackVerdict() types.DetectionResponse {
	return types.DetectionResponse{
		Classification:     "Human-Written",
		Confidence:         High,
		ConfidenceScore:    80,
		HumanProbability:   90,
		MachineProbability: ptr(10),
	}
}
