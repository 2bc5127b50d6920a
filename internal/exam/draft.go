package exam

import (
	"fmt"
	"strings"
	"time"

	"gradeassist/pkg/types"
)

// Draft question types.
const (
	TypeMultipleChoice = "multiple_choice"
	TypeEssay          = "essay"
)

// BuildDraft converts a decoded VLM result into an exam draft, tolerating the
// key aliases different prompts produce. now seeds the generated course code.
func BuildDraft(v any, now time.Time) types.ExamDraft {
	def := types.ExamDraft{
		Title:        "Exam from Photos",
		CourseCode:   fmt.Sprintf("EXAM-%06d", now.UnixMilli()%1_000_000),
		Description:  "Extracted from photos",
		Duration:     60,
		PassingScore: 70,
		Instructions: "Answer all questions.",
		Questions:    []types.DraftQuestion{defaultDraftQuestion()},
	}
	m, ok := v.(map[string]any)
	if !ok {
		return def
	}
	out := types.ExamDraft{
		Title:        str(pick(m, "title", "exam_title"), def.Title),
		CourseCode:   str(pick(m, "courseCode", "course_code"), def.CourseCode),
		Description:  str(pick(m, "description"), def.Description),
		Duration:     num(pick(m, "duration"), def.Duration),
		PassingScore: num(pick(m, "passingScore", "passing_score"), def.PassingScore),
		Instructions: str(pick(m, "instructions"), def.Instructions),
	}
	raw, _ := pick(m, "questions", "exam_questions").([]any)
	for i, qv := range raw {
		q, _ := qv.(map[string]any)
		if q == nil {
			q = map[string]any{}
		}
		out.Questions = append(out.Questions, draftQuestion(q, i))
	}
	if len(out.Questions) == 0 {
		out.Questions = def.Questions
	}
	return out
}

func defaultDraftQuestion() types.DraftQuestion {
	return types.DraftQuestion{
		Text:    "Question extracted from image",
		Type:    TypeEssay,
		Points:  10,
		Options: []types.Option{},
	}
}

func draftQuestion(q map[string]any, index int) types.DraftQuestion {
	out := types.DraftQuestion{
		Text:        str(pick(q, "text", "question_text"), fmt.Sprintf("Question %d", index+1)),
		Type:        draftType(q),
		Points:      num(pick(q, "points", "marks"), 10),
		ModelAnswer: str(pick(q, "modelAnswer", "model_answer", "correct_answer"), ""),
		Options:     []types.Option{},
	}
	if out.Type != TypeMultipleChoice {
		return out
	}
	rawOpts, _ := pick(q, "options", "choices").([]any)
	for i, ov := range rawOpts {
		o, _ := ov.(map[string]any)
		if o == nil {
			o = map[string]any{}
		}
		text := str(pick(o, "text", "choice_text"), fmt.Sprintf("Option %d", i+1))
		correct := false
		for _, k := range []string{"isCorrect", "is_correct", "correct"} {
			if v, ok := o[k]; ok && v != nil {
				correct = jsTruthy(v)
				break
			}
		}
		if !correct && out.ModelAnswer != "" && strings.EqualFold(text, out.ModelAnswer) {
			correct = true
		}
		out.Options = append(out.Options, types.Option{Text: text, IsCorrect: correct})
	}
	if len(out.Options) == 0 {
		out.Options = []types.Option{
			{Text: "Option 1", IsCorrect: true},
			{Text: "Option 2"},
			{Text: "Option 3"},
		}
	}
	if !anyCorrect(out.Options) {
		out.Options[0].IsCorrect = true
		if out.ModelAnswer != "" {
			want := strings.ToLower(out.ModelAnswer)
			for i := range out.Options {
				if strings.Contains(strings.ToLower(out.Options[i].Text), want) {
					for j := range out.Options {
						out.Options[j].IsCorrect = false
					}
					out.Options[i].IsCorrect = true
					break
				}
			}
		}
	}
	if out.ModelAnswer == "" {
		for _, o := range out.Options {
			if o.IsCorrect {
				out.ModelAnswer = o.Text
				break
			}
		}
	}
	return out
}

// draftType checks type, then question_type, then the presence of options.
// An unrecognized explicit type means essay.
func draftType(q map[string]any) string {
	for _, k := range []string{"type", "question_type"} {
		if v := pick(q, k); v != nil {
			switch str(v, "") {
			case "multiple_choice", "mcq", "MCQ":
				return TypeMultipleChoice
			default:
				return TypeEssay
			}
		}
	}
	for _, k := range []string{"options", "choices"} {
		if l, ok := q[k].([]any); ok && len(l) > 0 {
			return TypeMultipleChoice
		}
	}
	return TypeEssay
}

func anyCorrect(opts []types.Option) bool {
	for _, o := range opts {
		if o.IsCorrect {
			return true
		}
	}
	return false
}

// pick returns the first truthy value among keys.
func pick(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && jsTruthy(v) {
			return v
		}
	}
	return nil
}

func jsTruthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}

func str(v any, def string) string {
	if v == nil {
		return def
	}
	return strOr(v, def)
}

func num(v any, def int) int {
	n, err := intOr(v, def)
	if err != nil || n == 0 {
		return def
	}
	return n
}
