// Package grading implements the grading gateway: scoring student answers with
// the detection and similarity services, turning exam photos into drafts, and
// reporting the health of the downstream services.
package grading

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"gradeassist/internal/detect"
	"gradeassist/internal/manager"
	"gradeassist/pkg/types"
)

// Question types accepted by Grade.
const (
	TypeEssay          = "essay"
	TypeMultipleChoice = "multiple_choice"
)

// StatusCompleted is the status of every graded submission.
const StatusCompleted = "completed"

// fallbackHumanProbability applies when the detection service cannot be reached.
const fallbackHumanProbability = 0.9

type Grader struct {
	detector Detector
	comparer Comparer
	log      zerolog.Logger
}

func NewGrader(d Detector, c Comparer, log zerolog.Logger) *Grader {
	return &Grader{detector: d, comparer: c, log: log}
}

// Grade scores every answer whose question is known. Unknown question ids
// and unsupported question types are skipped.
func (g *Grader) Grade(ctx context.Context, req types.GradeRequest) (types.GradeResponse, error) {
	byID := make(map[int64]types.GradeQuestion, len(req.Questions))
	possible := 0
	for _, q := range req.Questions {
		if _, dup := byID[q.ID]; dup {
			return types.GradeResponse{}, manager.ErrInvalidInput(fmt.Sprintf("duplicate question id %d", q.ID))
		}
		if q.Points < 0 {
			return types.GradeResponse{}, manager.ErrInvalidInput(fmt.Sprintf("question %d has negative points", q.ID))
		}
		byID[q.ID] = q
		possible += q.Points
	}

	resp := types.GradeResponse{Answers: []types.AnswerResult{}, TotalPossible: possible, Status: StatusCompleted}
	for _, a := range req.Answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			g.log.Debug().Int64("question_id", a.QuestionID).Msg("answer for unknown question skipped")
			continue
		}
		var res types.AnswerResult
		switch normalizeType(q.Type) {
		case TypeEssay:
			res = g.gradeEssay(ctx, q, a.Answer)
		case TypeMultipleChoice:
			res = gradeMultipleChoice(q, a.Answer)
		default:
			g.log.Debug().Int64("question_id", q.ID).Str("type", q.Type).Msg("unsupported question type skipped")
			continue
		}
		if res.AIDetected {
			resp.AIDetected++
		}
		resp.TotalScore += res.Points
		resp.Answers = append(resp.Answers, res)
	}
	if possible > 0 {
		resp.Percentage = roundHalfUp(float64(resp.TotalScore) / float64(possible) * 100)
	}
	return resp, nil
}

func normalizeType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "essay":
		return TypeEssay
	case "multiple_choice", "mcq":
		return TypeMultipleChoice
	default:
		return ""
	}
}

func gradeMultipleChoice(q types.GradeQuestion, answer string) types.AnswerResult {
	correct := answer != "" && q.ModelAnswer != "" && answer == q.ModelAnswer
	res := types.AnswerResult{QuestionID: q.ID, IsCorrect: correct}
	if correct {
		res.Points = q.Points
	}
	return res
}

func (g *Grader) gradeEssay(ctx context.Context, q types.GradeQuestion, answer string) types.AnswerResult {
	res := types.AnswerResult{QuestionID: q.ID}
	if strings.TrimSpace(answer) == "" {
		return res
	}

	isAI, human := g.verdict(ctx, answer)
	res.AIDetected = isAI
	res.HumanProbability = human

	simPoints := 0
	if q.ModelAnswer != "" {
		scores := g.similarity(ctx, q, answer)
		res.Similarity = &scores
		simPoints = TierPoints(scores, q.Points)
	}

	var points int
	switch {
	case isAI:
		points = roundHalfUp(float64(simPoints) * 0.3)
	case simPoints > 0:
		points = roundHalfUp(float64(simPoints) * human)
	default:
		points = roundHalfUp(float64(q.Points) * human)
	}
	res.Points = min(points, q.Points)
	res.IsCorrect = float64(res.Points) > float64(q.Points)*0.5

	g.log.Debug().Int64("question_id", q.ID).Int("points", res.Points).Bool("ai", isAI).
		Float64("human_probability", human).Int("similarity_points", simPoints).Msg("essay graded")
	return res
}

// verdict asks the detection service; failures assume human-written text.
func (g *Grader) verdict(ctx context.Context, answer string) (bool, float64) {
	d, err := g.detector.Detect(ctx, answer)
	if err != nil {
		fallbacksTotal.WithLabelValues("detection").Inc()
		g.log.Warn().Err(err).Msg("detection service failed; assuming human-written")
		return false, fallbackHumanProbability
	}
	return IsMachineGenerated(d.Classification), HumanProbability(d)
}

func (g *Grader) similarity(ctx context.Context, q types.GradeQuestion, answer string) types.SimilarityScores {
	resp, err := g.comparer.Compare(ctx, types.ComparisonRequest{
		Question:      q.Text,
		DoctorAnswer:  q.ModelAnswer,
		StudentAnswer: answer,
	})
	if err != nil {
		fallbacksTotal.WithLabelValues("similarity").Inc()
		g.log.Warn().Err(err).Msg("similarity service failed; using word overlap")
		return FallbackComparison(q.ModelAnswer, answer).SimilarityScores
	}
	return resp.SimilarityScores
}

// IsMachineGenerated interprets the classification label of any detector.
func IsMachineGenerated(classification string) bool {
	if strings.Contains(classification, "Machine-Generated") {
		return true
	}
	label := strings.TrimPrefix(classification, detect.UncertainPrefix)
	return label == "AI" || label == "AI Generated"
}

// HumanProbability converts a detector's human percentage into [0, 1].
func HumanProbability(d types.DetectionResponse) float64 {
	p := d.HumanProbability
	if p > 1 {
		p /= 100
	}
	return max(0, min(1, p))
}

// TierPoints maps similarity onto a share of maxPoints. The average is used
// unless it is zero, in which case the instructor similarity is used.
func TierPoints(s types.SimilarityScores, maxPoints int) int {
	sim := s.Average
	if sim == 0 {
		sim = s.StudentDoctor
	}
	switch {
	case sim >= 0.8:
		return maxPoints
	case sim >= 0.6:
		return roundHalfUp(float64(maxPoints) * 0.75)
	case sim >= 0.4:
		return roundHalfUp(float64(maxPoints) * 0.5)
	default:
		return 0
	}
}

func roundHalfUp(v float64) int { return int(math.Floor(v + 0.5)) }
