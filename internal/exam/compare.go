package exam

import (
	"strings"

	"gradeassist/pkg/types"
)

// Result is the outcome of comparing one student answer to the key.
type Result struct {
	QuestionNumber int  `json:"question_number"`
	Attempted      bool `json:"attempted"`
	IsCorrect      bool `json:"is_correct"`
	PointsAwarded  int  `json:"points_awarded"`
}

// Compare grades answers against the model answers of key, pairwise. Extra
// entries on either side are ignored.
func Compare(key []types.Question, answers []types.StudentAnswer) []Result {
	n := min(len(key), len(answers))
	out := make([]Result, 0, n)
	for i := 0; i < n; i++ {
		r := Result{QuestionNumber: i + 1}
		ans := answers[i].Answer
		if !strings.EqualFold(ans, NotAnswered) {
			r.Attempted = true
			r.IsCorrect = strings.EqualFold(key[i].ModelAnswer, ans)
			if r.IsCorrect {
				r.PointsAwarded = key[i].Points
			}
		}
		out = append(out, r)
	}
	return out
}
