package httpapi

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"gradeassist/internal/exam"
	"gradeassist/pkg/types"
)

// ExamProcessor is the vision-model exam surface.
type ExamProcessor interface {
	ProcessTeacherExam(ctx context.Context, img exam.Image) (types.Exam, error)
	ProcessStudentAnswers(ctx context.Context, img exam.Image, examID int64) (types.StudentAnswers, error)
	RawResponse(ctx context.Context, img exam.Image, student bool) (string, error)
	SaveExam(ctx context.Context, e types.Exam) (int64, error)
	GetExam(ctx context.Context, id int64) (types.Exam, error)
}

// VLMRoutes mounts the exam photo endpoints.
func VLMRoutes(svc Service, p ExamProcessor) Mount {
	return func(r chi.Router) {
		health := healthHandler(svc)
		r.Get("/teacher/health", health)
		r.Get("/student/health", health)
		r.Post("/teacher/process-exam/", teacherExamHandler(p))
		r.Post("/student/process-answers/", studentAnswersHandler(p))
		r.Post("/debug/raw-response", rawResponseHandler(p))
		r.Post("/exams", createExamHandler(p))
		r.Get("/exams/{id}", getExamHandler(p))
	}
}

// readUpload parses a multipart request and returns the "file" part.
// It writes the error response itself and reports whether parsing succeeded.
func readUpload(w http.ResponseWriter, r *http.Request) (exam.Image, bool) {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mt != "multipart/form-data" {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be multipart/form-data")
		return exam.Image{}, false
	}
	tooLarge := "upload exceeds " + strconv.FormatInt(uploadMaxBytes, 10) + " bytes"
	if r.ContentLength > uploadMaxBytes {
		writeJSONError(w, http.StatusRequestEntityTooLarge, tooLarge)
		return exam.Image{}, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, uploadMaxBytes)
	if err := r.ParseMultipartForm(uploadMaxBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, tooLarge)
			return exam.Image{}, false
		}
		writeJSONError(w, http.StatusBadRequest, "invalid multipart body")
		return exam.Image{}, false
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "file is required")
		return exam.Image{}, false
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "failed to read file")
		return exam.Image{}, false
	}
	return exam.Image{Name: hdr.Filename, MIMEType: hdr.Header.Get("Content-Type"), Data: data}, true
}

// teacherExamHandler godoc
// @Summary      Extract an exam from a photo of the paper
// @Tags         vlm
// @Accept       mpfd
// @Produce      json
// @Param        file  formData  file  true  "Exam image"
// @Success      200   {object}  types.Exam
// @Failure      400   {object}  types.ErrorResponse
// @Failure      503   {object}  types.ErrorResponse
// @Router       /teacher/process-exam/ [post]
func teacherExamHandler(p ExamProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		img, ok := readUpload(w, r)
		if !ok {
			return
		}
		serve(w, r, "teacher_exam", http.StatusOK, func(ctx context.Context) (any, error) {
			return p.ProcessTeacherExam(ctx, img)
		})
	}
}

// studentAnswersHandler godoc
// @Summary      Extract a student's answers from a photo of the answer sheet
// @Tags         vlm
// @Accept       mpfd
// @Produce      json
// @Param        file     formData  file     true   "Answer sheet image"
// @Param        exam_id  formData  integer  false  "Exam id used to pad the answers; required when a database is configured"
// @Success      200      {object}  types.StudentAnswers
// @Failure      400      {object}  types.ErrorResponse
// @Failure      404      {object}  types.ErrorResponse
// @Router       /student/process-answers/ [post]
func studentAnswersHandler(p ExamProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		img, ok := readUpload(w, r)
		if !ok {
			return
		}
		var id int64
		if v := strings.TrimSpace(r.FormValue("exam_id")); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				writeJSONError(w, http.StatusBadRequest, "exam_id must be an integer")
				return
			}
			id = n
		}
		serve(w, r, "student_answers", http.StatusOK, func(ctx context.Context) (any, error) {
			return p.ProcessStudentAnswers(ctx, img, id)
		})
	}
}

// rawResponseHandler godoc
// @Summary      Return the raw vision-model text for an image
// @Tags         vlm
// @Accept       mpfd
// @Produce      json
// @Param        file     formData  file    true   "Image"
// @Param        student  formData  bool    false  "Use the student prompt"
// @Success      200      {object}  types.RawResponse
// @Router       /debug/raw-response [post]
func rawResponseHandler(p ExamProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		img, ok := readUpload(w, r)
		if !ok {
			return
		}
		student, _ := strconv.ParseBool(r.FormValue("student"))
		serve(w, r, "raw_response", http.StatusOK, func(ctx context.Context) (any, error) {
			text, err := p.RawResponse(ctx, img, student)
			if err != nil {
				return nil, err
			}
			return types.RawResponse{Text: text}, nil
		})
	}
}

// createExamHandler godoc
// @Summary      Store an exam
// @Tags         exams
// @Accept       json
// @Produce      json
// @Param        request  body      types.Exam  true  "Exam"
// @Success      201      {object}  types.ExamCreated
// @Failure      503      {object}  types.ErrorResponse
// @Router       /exams [post]
func createExamHandler(p ExamProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var e types.Exam
		if !decodeJSON(w, r, &e) {
			return
		}
		serve(w, r, "create_exam", http.StatusCreated, func(ctx context.Context) (any, error) {
			id, err := p.SaveExam(ctx, e)
			if err != nil {
				return nil, err
			}
			return types.ExamCreated{ID: id}, nil
		})
	}
}

// getExamHandler godoc
// @Summary      Fetch a stored exam
// @Tags         exams
// @Produce      json
// @Param        id   path      integer  true  "Exam id"
// @Success      200  {object}  types.Exam
// @Failure      404  {object}  types.ErrorResponse
// @Router       /exams/{id} [get]
func getExamHandler(p ExamProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "id must be an integer")
			return
		}
		serve(w, r, "get_exam", http.StatusOK, func(ctx context.Context) (any, error) {
			return p.GetExam(ctx, id)
		})
	}
}
