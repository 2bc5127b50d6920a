package detect

import (
	"context"
	"fmt"

	"gradeassist/internal/inference"
	"gradeassist/internal/manager"
	"gradeassist/pkg/types"
)

// MinTextLength is the shortest normalized text the BERT detector accepts.
const MinTextLength = 20

const previewLength = 100

// BERT wraps a two-class classifier (0 = human, 1 = AI).
type BERT struct {
	cl inference.Classifier
}

func NewBERT(cl inference.Classifier) *BERT { return &BERT{cl: cl} }

// Predict classifies a single text.
func (b *BERT) Predict(ctx context.Context, text string) (types.Prediction, error) {
	t, err := requireText(text)
	if err != nil {
		return types.Prediction{}, err
	}
	if len([]rune(t)) < MinTextLength {
		return types.Prediction{}, manager.ErrInvalidInput(fmt.Sprintf("Text too short (minimum %d characters)", MinTextLength))
	}
	logits, err := logitsN(ctx, b.cl, t, 2)
	if err != nil {
		return types.Prediction{}, err
	}
	p := inference.Softmax(logits)
	human, ai := p[0], p[1]
	// argmax; a winner below 0.6 still wins, ties go to human
	class := "Human Written"
	conf := human
	if ai > human {
		class = "AI Generated"
		conf = ai
	}
	return types.Prediction{
		Class:            class,
		HumanProbability: human,
		AIProbability:    ai,
		Text:             preview(text),
		Confidence:       conf,
	}, nil
}

// PredictBatch classifies every text. Any invalid text fails the whole batch.
func (b *BERT) PredictBatch(ctx context.Context, texts []string) ([]types.Prediction, error) {
	if len(texts) == 0 {
		return nil, manager.ErrInvalidInput("no texts provided")
	}
	for i, t := range texts {
		n := Normalize(t)
		if n == "" || len([]rune(n)) < MinTextLength {
			return nil, manager.ErrInvalidInput(fmt.Sprintf("text %d: empty or shorter than %d characters", i, MinTextLength))
		}
	}
	out := make([]types.Prediction, 0, len(texts))
	for _, t := range texts {
		p, err := b.Predict(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func preview(text string) string {
	r := []rune(text)
	if len(r) <= previewLength {
		return text
	}
	return string(r[:previewLength]) + "..."
}
