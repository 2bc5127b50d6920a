// Package exam turns photos of exam papers and answer sheets into structured
// data using a vision-language model.
package exam

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"gradeassist/internal/inference"
	"gradeassist/internal/manager"
	"gradeassist/pkg/types"
)

// Image is an uploaded photo.
type Image struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Store persists extracted exams. GetExam returns a manager not-found error for unknown ids.
type Store interface {
	CreateExam(ctx context.Context, e types.Exam) (int64, error)
	GetExam(ctx context.Context, id int64) (types.Exam, error)
}

// Processor runs the teacher and student prompts against the vision model.
type Processor struct {
	vlm   inference.VisionModel
	store Store
	log   zerolog.Logger
}

// NewProcessor builds a processor. store may be nil when no database is configured.
func NewProcessor(vlm inference.VisionModel, store Store, log zerolog.Logger) *Processor {
	return &Processor{vlm: vlm, store: store, log: log}
}

// PickMIME prefers the explicit type, then sniffs the bytes.
func PickMIME(explicit string, data []byte) string {
	if exp := strings.TrimSpace(explicit); exp != "" && exp != "application/octet-stream" {
		return exp
	}
	if len(data) > 0 {
		return http.DetectContentType(data)
	}
	return "image/jpeg"
}

func (p *Processor) checkImage(img Image) (Image, error) {
	if len(img.Data) == 0 {
		return img, manager.ErrInvalidInput("empty file")
	}
	img.MIMEType = PickMIME(img.MIMEType, img.Data)
	if !strings.HasPrefix(img.MIMEType, "image/") {
		return img, manager.ErrInvalidInput(fmt.Sprintf("unsupported file type %q: an image is required", img.MIMEType))
	}
	return img, nil
}

// ProcessTeacherExam extracts the exam structure from a photo of an exam paper.
func (p *Processor) ProcessTeacherExam(ctx context.Context, img Image) (types.Exam, error) {
	img, err := p.checkImage(img)
	if err != nil {
		return types.Exam{}, err
	}
	raw, err := p.vlm.Describe(ctx, TeacherPrompt, img.MIMEType, img.Data)
	if err != nil {
		return types.Exam{}, err
	}
	p.log.Debug().Str("file", img.Name).Int("raw_len", len(raw)).Msg("teacher exam response")
	e := NormalizeExam(raw)
	p.log.Info().Str("file", img.Name).Int("questions", len(e.Questions)).Msg("teacher exam processed")
	return e, nil
}

// ProcessStudentAnswers extracts answers from an answer sheet. When a store is
// configured examID is required and the answers are padded to the exam's
// question count.
func (p *Processor) ProcessStudentAnswers(ctx context.Context, img Image, examID int64) (types.StudentAnswers, error) {
	img, err := p.checkImage(img)
	if err != nil {
		return types.StudentAnswers{}, err
	}
	questions := 0
	if p.store != nil {
		if examID <= 0 {
			return types.StudentAnswers{}, manager.ErrInvalidInput("exam_id is required")
		}
		e, err := p.store.GetExam(ctx, examID)
		if err != nil {
			return types.StudentAnswers{}, err
		}
		questions = len(e.Questions)
	}
	raw, err := p.vlm.Describe(ctx, StudentPrompt, img.MIMEType, img.Data)
	if err != nil {
		return types.StudentAnswers{}, err
	}
	out := ParseStudentAnswers(raw, questions)
	p.log.Info().Int64("exam_id", examID).Int("answers", len(out.Answers)).Msg("student answers processed")
	return out, nil
}

// RawResponse returns the unprocessed model text for debugging prompts.
func (p *Processor) RawResponse(ctx context.Context, img Image, student bool) (string, error) {
	img, err := p.checkImage(img)
	if err != nil {
		return "", err
	}
	prompt := TeacherPrompt
	if student {
		prompt = StudentPrompt
	}
	return p.vlm.Describe(ctx, prompt, img.MIMEType, img.Data)
}

func (p *Processor) SaveExam(ctx context.Context, e types.Exam) (int64, error) {
	if p.store == nil {
		return 0, manager.ErrDependencyUnavailable("exam storage requires a database (set DATABASE_URL)")
	}
	if strings.TrimSpace(e.Title) == "" {
		e.Title = DefaultExam().Title
	}
	return p.store.CreateExam(ctx, e)
}

func (p *Processor) GetExam(ctx context.Context, id int64) (types.Exam, error) {
	if p.store == nil {
		return types.Exam{}, manager.ErrDependencyUnavailable("exam storage requires a database (set DATABASE_URL)")
	}
	return p.store.GetExam(ctx, id)
}
