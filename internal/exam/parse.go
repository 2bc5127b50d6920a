package exam

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gradeassist/pkg/types"
)

// NotAnswered marks a question the student left blank.
const NotAnswered = "na"

var errNoJSON = errors.New("no JSON object in response")

// ExtractJSON returns the substring from the first '{' to the last '}'.
func ExtractJSON(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return "", errNoJSON
	}
	return s[start : end+1], nil
}

// DefaultExam is the structure returned when the model output cannot be parsed.
func DefaultExam() types.Exam {
	return types.Exam{
		Title:        "Untitled Exam",
		CourseCode:   "NONE",
		Instructions: "",
		Duration:     60,
		Questions:    []types.Question{},
	}
}

// NormalizeExam parses raw model text into an exam structure. The JSON object
// is lowercased before decoding, so keys arrive as coursecode, modelanswer and
// iscorrect. Any failure yields DefaultExam.
func NormalizeExam(raw string) types.Exam {
	e, err := normalizeExam(raw)
	if err != nil {
		return DefaultExam()
	}
	return e
}

func normalizeExam(raw string) (types.Exam, error) {
	js, err := ExtractJSON(raw)
	if err != nil {
		return types.Exam{}, err
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(strings.ToLower(js)), &m); err != nil {
		return types.Exam{}, err
	}
	duration, err := intOr(m["duration"], 60)
	if err != nil {
		return types.Exam{}, fmt.Errorf("duration: %w", err)
	}
	out := types.Exam{
		Title:        strOr(m["title"], "Untitled Exam"),
		Subject:      strings.ToLower(strOr(m["subject"], "none")),
		Year:         strings.ToLower(strOr(m["year"], "none")),
		CourseCode:   strings.ToUpper(strOr(m["coursecode"], "NONE")),
		Instructions: strOr(m["instructions"], ""),
		Duration:     duration,
		Questions:    []types.Question{},
	}
	qs, _ := m["questions"].([]any)
	for i, qv := range qs {
		q, ok := qv.(map[string]any)
		if !ok {
			return types.Exam{}, fmt.Errorf("question %d: not an object", i)
		}
		points, err := intOr(q["points"], 1)
		if err != nil {
			return types.Exam{}, fmt.Errorf("question %d points: %w", i, err)
		}
		nq := types.Question{
			Text:        strings.TrimSpace(strOr(q["text"], "")),
			Type:        strings.ToUpper(strOr(q["type"], "MCQ")),
			Points:      points,
			ModelAnswer: strings.TrimSpace(strOr(q["modelanswer"], "")),
			Options:     []types.Option{},
		}
		opts, _ := q["options"].([]any)
		for _, ov := range opts {
			o, ok := ov.(map[string]any)
			if !ok {
				continue
			}
			nq.Options = append(nq.Options, types.Option{
				Text:      strings.TrimSpace(strOr(o["text"], "")),
				IsCorrect: truthy(o["iscorrect"]),
			})
		}
		out.Questions = append(out.Questions, nq)
	}
	return out, nil
}

// ParseStudentAnswers parses the lowercased model text into answers and pads
// them with NotAnswered up to questions. When parsing fails every question is
// reported as not answered.
func ParseStudentAnswers(raw string, questions int) types.StudentAnswers {
	out := types.StudentAnswers{Answers: []types.StudentAnswer{}}
	if js, err := ExtractJSON(strings.ToLower(raw)); err == nil {
		var parsed struct {
			Answers []struct {
				Answer any `json:"answer"`
			} `json:"answers"`
		}
		if json.Unmarshal([]byte(js), &parsed) == nil {
			for _, a := range parsed.Answers {
				ans := strings.TrimSpace(strOr(a.Answer, ""))
				if ans == "" {
					ans = NotAnswered
				}
				out.Answers = append(out.Answers, types.StudentAnswer{Answer: ans})
			}
		}
	}
	for len(out.Answers) < questions {
		out.Answers = append(out.Answers, types.StudentAnswer{Answer: NotAnswered})
	}
	return out
}

func strOr(v any, def string) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return def
	}
}

func intOr(v any, def int) (int, error) {
	switch x := v.(type) {
	case nil:
		return def, nil
	case float64:
		return int(math.Trunc(x)), nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return def, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, err
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unexpected %T", v)
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "", "false", "no", "0", "none", "null":
			return false
		}
		return true
	default:
		return false
	}
}
