package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gradeassist/pkg/types"
)

type Grader interface {
	Grade(ctx context.Context, req types.GradeRequest) (types.GradeResponse, error)
}

type PhotoProcessor interface {
	Process(ctx context.Context, filename string, data []byte) (types.ExamDraft, error)
}

type SystemChecker interface {
	Check(ctx context.Context) types.SystemStatus
}

// GraderRoutes mounts the grading gateway endpoints. Grading and photo
// forwarding run under the per-call budgets of the downstream clients, not the
// global request timeout.
func GraderRoutes(g Grader, p PhotoProcessor, s SystemChecker) Mount {
	return func(r chi.Router) {
		r.With(untimed).Post("/grade", gradeHandler(g))
		r.With(untimed).Post("/exams/process-photo", processPhotoHandler(p))
		r.Get("/system/status", systemStatusHandler(s))
	}
}

// gradeHandler godoc
// @Summary      Grade a student's submission
// @Tags         grader
// @Accept       json
// @Produce      json
// @Param        request  body      types.GradeRequest  true  "Questions and answers"
// @Success      200      {object}  types.GradeResponse
// @Failure      400      {object}  types.ErrorResponse
// @Router       /grade [post]
func gradeHandler(g Grader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.GradeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		serve(w, r, "grade", http.StatusOK, func(ctx context.Context) (any, error) {
			return g.Grade(ctx, req)
		})
	}
}

// processPhotoHandler godoc
// @Summary      Build an exam draft from a photo
// @Tags         grader
// @Accept       mpfd
// @Produce      json
// @Param        file  formData  file  true  "Exam image"
// @Success      200   {object}  types.ExamDraft
// @Failure      502   {object}  types.ErrorResponse
// @Failure      503   {object}  types.ErrorResponse
// @Router       /exams/process-photo [post]
func processPhotoHandler(p PhotoProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		img, ok := readUpload(w, r)
		if !ok {
			return
		}
		logDebug(r, requestLogLevel(r), "photo received", map[string]any{"file": img.Name, "bytes": len(img.Data)})
		serve(w, r, "process_photo", http.StatusOK, func(ctx context.Context) (any, error) {
			return p.Process(ctx, img.Name, img.Data)
		})
	}
}

// systemStatusHandler godoc
// @Summary      Health of the downstream services
// @Tags         grader
// @Produce      json
// @Success      200  {object}  types.SystemStatus
// @Router       /system/status [get]
func systemStatusHandler(s SystemChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.Check(r.Context()))
	}
}
