package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"gradeassist/internal/exam"
	"gradeassist/internal/manager"
	"gradeassist/pkg/types"
)

type mockPredictor struct{ err error }

func (m mockPredictor) Predict(_ context.Context, text string) (types.Prediction, error) {
	if m.err != nil {
		return types.Prediction{}, m.err
	}
	return types.Prediction{Class: "Human Written", HumanProbability: 0.9, AIProbability: 0.1, Text: text, Confidence: 0.9}, nil
}

func (m mockPredictor) PredictBatch(ctx context.Context, texts []string) ([]types.Prediction, error) {
	var out []types.Prediction
	for _, t := range texts {
		p, err := m.Predict(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

type mockDetector struct{ err error }

func (m mockDetector) Detect(context.Context, string) (types.DetectionResponse, error) {
	return types.DetectionResponse{Classification: "AI", Confidence: "High"}, m.err
}

func TestPredict(t *testing.T) {
	h := NewMux(&mockService{}, BERTRoutes(mockPredictor{}))
	w := postJSON(h, "/predict", `{"text":"some text long enough"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var p types.Prediction
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("json: %v", err)
	}
	if p.Class != "Human Written" || p.Text != "some text long enough" {
		t.Fatalf("unexpected: %+v", p)
	}

	w = postJSON(h, "/predict/batch", `{"texts":["a","b"]}`)
	var b types.BatchPredictionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &b); err != nil || len(b.Results) != 2 {
		t.Fatalf("batch: %v %s", err, w.Body.String())
	}
}

func TestPredict_RequestValidation(t *testing.T) {
	h := NewMux(&mockService{}, BERTRoutes(mockPredictor{}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewBufferString(`{"text":"x"}`))
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("missing content type: status=%d", w.Code)
	}

	w = postJSON(h, "/predict", "not-json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad json: status=%d", w.Code)
	}

	SetMaxBodyBytes(8)
	defer SetMaxBodyBytes(0)
	w = postJSON(h, "/predict", `{"text":"this body is larger than eight bytes"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("oversized body: status=%d", w.Code)
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{manager.ErrInvalidInput("Empty text provided"), http.StatusBadRequest},
		{manager.ErrNotFound("exam 3"), http.StatusNotFound},
		{manager.ErrDependencyUnavailable("runtime down"), http.StatusServiceUnavailable},
		{mockHTTPError{msg: "upstream", code: http.StatusBadGateway}, http.StatusBadGateway},
		{io.EOF, http.StatusInternalServerError},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
	}
	for _, c := range cases {
		h := NewMux(&mockService{}, DetectRoutes(mockDetector{err: c.err}))
		w := postJSON(h, "/detect", `{"text":"hello"}`)
		if w.Code != c.code {
			t.Fatalf("%v: status=%d want %d", c.err, w.Code, c.code)
		}
		if e := decodeError(t, w); e.Code != c.code || e.Error != c.err.Error() {
			t.Fatalf("%v: body=%+v", c.err, e)
		}
	}
}

func TestFallbackRoutes(t *testing.T) {
	h := NewMux(&mockService{}, FallbackRoutes())
	for _, path := range []string{"/detect", "/detect-ai"} {
		w := postJSON(h, path, `{"text":"anything"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status=%d", path, w.Code)
		}
		var d types.DetectionResponse
		if err := json.Unmarshal(w.Body.Bytes(), &d); err != nil {
			t.Fatalf("json: %v", err)
		}
		if d.Classification != "Human-Written" || d.HumanProbability != 90 || d.MachineProbability == nil || *d.MachineProbability != 10 {
			t.Fatalf("%s: unexpected %+v", path, d)
		}
	}
	m := httptest.NewRecorder()
	h.ServeHTTP(m, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(m.Body.String(), `gradeassist_http_fallback_detections_total{route="/detect-ai"}`) {
		t.Fatalf("fallback counter missing")
	}
}

type mockProcessor struct {
	gotImage exam.Image
	gotID    int64
	student  bool
	exams    map[int64]types.Exam
}

func (m *mockProcessor) ProcessTeacherExam(_ context.Context, img exam.Image) (types.Exam, error) {
	m.gotImage = img
	return types.Exam{Title: "from photo"}, nil
}

func (m *mockProcessor) ProcessStudentAnswers(_ context.Context, img exam.Image, id int64) (types.StudentAnswers, error) {
	m.gotImage, m.gotID = img, id
	if id == 404 {
		return types.StudentAnswers{}, manager.ErrNotFound("exam 404")
	}
	return types.StudentAnswers{Answers: []types.StudentAnswer{{Answer: "a"}}}, nil
}

func (m *mockProcessor) RawResponse(_ context.Context, _ exam.Image, student bool) (string, error) {
	m.student = student
	return "raw text", nil
}

func (m *mockProcessor) SaveExam(_ context.Context, e types.Exam) (int64, error) {
	if m.exams == nil {
		return 0, manager.ErrDependencyUnavailable("no database configured")
	}
	id := int64(len(m.exams) + 1)
	m.exams[id] = e
	return id, nil
}

func (m *mockProcessor) GetExam(_ context.Context, id int64) (types.Exam, error) {
	e, ok := m.exams[id]
	if !ok {
		return types.Exam{}, manager.ErrNotFound("exam")
	}
	return e, nil
}

func multipartRequest(t *testing.T, path string, file []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if file != nil {
		fw, err := mw.CreateFormFile("file", "page.png")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		_, _ = fw.Write(file)
	}
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestVLMRoutes(t *testing.T) {
	p := &mockProcessor{}
	h := NewMux(&mockService{models: []types.Model{{ID: "gemini"}}}, VLMRoutes(&mockService{models: []types.Model{{ID: "gemini"}}}, p))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, multipartRequest(t, "/teacher/process-exam/", []byte("imagebytes"), nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "from photo") {
		t.Fatalf("teacher: status=%d body=%s", w.Code, w.Body.String())
	}
	if string(p.gotImage.Data) != "imagebytes" || p.gotImage.Name != "page.png" {
		t.Fatalf("upload not forwarded: %+v", p.gotImage)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, multipartRequest(t, "/student/process-answers/", []byte("img"), map[string]string{"exam_id": "7"}))
	if w.Code != http.StatusOK || p.gotID != 7 {
		t.Fatalf("student: status=%d id=%d", w.Code, p.gotID)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, multipartRequest(t, "/student/process-answers/", []byte("img"), map[string]string{"exam_id": "404"}))
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown exam: status=%d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, multipartRequest(t, "/student/process-answers/", []byte("img"), map[string]string{"exam_id": "seven"}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad exam id: status=%d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, multipartRequest(t, "/debug/raw-response", []byte("img"), map[string]string{"student": "true"}))
	if w.Code != http.StatusOK || !p.student || !strings.Contains(w.Body.String(), "raw text") {
		t.Fatalf("raw: status=%d student=%v", w.Code, p.student)
	}

	for _, path := range []string{"/teacher/health", "/student/health"} {
		w = httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "gemini") {
			t.Fatalf("%s: status=%d", path, w.Code)
		}
	}
}

func TestVLMRoutes_UploadErrors(t *testing.T) {
	h := NewMux(&mockService{}, VLMRoutes(&mockService{}, &mockProcessor{}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, multipartRequest(t, "/teacher/process-exam/", nil, map[string]string{"x": "y"}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing file: status=%d", w.Code)
	}

	w = postJSON(h, "/teacher/process-exam/", `{}`)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("json upload: status=%d", w.Code)
	}

	SetUploadMaxBytes(64)
	defer SetUploadMaxBytes(0)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, multipartRequest(t, "/teacher/process-exam/", bytes.Repeat([]byte("x"), 1024), nil))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("oversized upload: status=%d", w.Code)
	}
}

func TestExamStoreRoutes(t *testing.T) {
	p := &mockProcessor{exams: map[int64]types.Exam{}}
	h := NewMux(&mockService{}, VLMRoutes(&mockService{}, p))

	w := postJSON(h, "/exams", `{"title":"bio","questions":[]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status=%d body=%s", w.Code, w.Body.String())
	}
	var created types.ExamCreated
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created.ID != 1 {
		t.Fatalf("created: %v %+v", err, created)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/exams/1", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"title":"bio"`) {
		t.Fatalf("get: status=%d body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/exams/2", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing: status=%d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/exams/abc", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: status=%d", w.Code)
	}

	noDB := NewMux(&mockService{}, VLMRoutes(&mockService{}, &mockProcessor{}))
	if w := postJSON(noDB, "/exams", `{}`); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("no db: status=%d", w.Code)
	}
}

type mockComparer struct{ ingested int }

func (m *mockComparer) Compare(_ context.Context, req types.ComparisonRequest) (types.ComparisonResponse, error) {
	if req.Question == "" {
		return types.ComparisonResponse{}, manager.ErrInvalidInput("question is required")
	}
	return types.ComparisonResponse{RAGAnswer: "rag", SimilarityScores: types.SimilarityScores{Average: 0.5}}, nil
}

func (m *mockComparer) Ingest(_ context.Context, docs []types.Document) (int, error) {
	m.ingested += len(docs)
	return len(docs) * 2, nil
}

func TestSimilarityRoutes(t *testing.T) {
	c := &mockComparer{}
	h := NewMux(&mockService{}, SimilarityRoutes(c), FallbackRoutes())

	w := postJSON(h, "/compare-answers", `{"question":"q","doctor_answer":"d","student_answer":"s"}`)
	var resp types.ComparisonResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.RAGAnswer != "rag" {
		t.Fatalf("compare: %v %s", err, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"similarity_scores":{"student_doctor":0,"student_rag":0,"average":0.5}`) {
		t.Fatalf("wire shape: %s", w.Body.String())
	}

	if w := postJSON(h, "/compare-answers", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing fields: status=%d", w.Code)
	}

	w = postJSON(h, "/documents", `{"documents":[{"source":"a","text":"x"}]}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"stored":2`) {
		t.Fatalf("documents: status=%d body=%s", w.Code, w.Body.String())
	}

	if w := postJSON(h, "/detect-ai", `{"text":"t"}`); w.Code != http.StatusOK {
		t.Fatalf("fallback on similarity: status=%d", w.Code)
	}
}

type stubVision struct{ calls int }

func (v *stubVision) Describe(context.Context, string, string, []byte) (string, error) {
	v.calls++
	return `{"answers":[{"answer":"B"}]}`, nil
}

type oneExamStore struct{}

func (oneExamStore) CreateExam(context.Context, types.Exam) (int64, error) { return 1, nil }

func (oneExamStore) GetExam(_ context.Context, id int64) (types.Exam, error) {
	if id != 1 {
		return types.Exam{}, manager.ErrNotFound(fmt.Sprintf("exam %d", id))
	}
	return types.Exam{Questions: make([]types.Question, 2)}, nil
}

func TestStudentAnswers_ExamIDRequiredWithStore(t *testing.T) {
	vlm := &stubVision{}
	p := exam.NewProcessor(vlm, oneExamStore{}, zerolog.Nop())
	h := NewMux(&mockService{}, VLMRoutes(&mockService{}, p))
	png := []byte("\x89PNG\r\n\x1a\n0000")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, multipartRequest(t, "/student/process-answers/", png, nil))
	if w.Code != http.StatusBadRequest || !strings.Contains(decodeError(t, w).Error, "exam_id is required") {
		t.Fatalf("missing exam_id: status=%d body=%s", w.Code, w.Body.String())
	}
	if vlm.calls != 0 {
		t.Fatalf("vision model called without an exam id")
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, multipartRequest(t, "/student/process-answers/", png, map[string]string{"exam_id": "1"}))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"na"`) {
		t.Fatalf("with exam_id: status=%d body=%s", w.Code, w.Body.String())
	}
}

type mockGrader struct{}

func (mockGrader) Grade(_ context.Context, req types.GradeRequest) (types.GradeResponse, error) {
	return types.GradeResponse{TotalPossible: len(req.Questions), Status: "completed", Answers: []types.AnswerResult{}}, nil
}

type mockPhotos struct{ err error }

func (m mockPhotos) Process(_ context.Context, name string, _ []byte) (types.ExamDraft, error) {
	return types.ExamDraft{Title: name}, m.err
}

type mockChecker struct{}

func (mockChecker) Check(context.Context) types.SystemStatus {
	return types.SystemStatus{Status: "degraded", Components: map[string]bool{"vlm_service": false}}
}

func TestGraderRoutes(t *testing.T) {
	h := NewMux(&mockService{}, GraderRoutes(mockGrader{}, mockPhotos{}, mockChecker{}))

	w := postJSON(h, "/grade", `{"questions":[{"id":1,"type":"essay","points":5}],"answers":[]}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"total_possible":1`) {
		t.Fatalf("grade: status=%d body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, multipartRequest(t, "/exams/process-photo", []byte("img"), nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "page.png") {
		t.Fatalf("photo: status=%d body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/system/status", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"degraded"`) {
		t.Fatalf("status: status=%d body=%s", w.Code, w.Body.String())
	}

	const msg = "AI processing service is unavailable. Please try creating an exam manually or contact support."
	down := NewMux(&mockService{}, GraderRoutes(mockGrader{}, mockPhotos{err: manager.ErrDependencyUnavailable(msg)}, mockChecker{}))
	w = httptest.NewRecorder()
	down.ServeHTTP(w, multipartRequest(t, "/exams/process-photo", []byte("img"), nil))
	if w.Code != http.StatusServiceUnavailable || decodeError(t, w).Error != msg {
		t.Fatalf("vlm down: status=%d body=%s", w.Code, w.Body.String())
	}
}

type deadlineGrader struct{}

func (deadlineGrader) Grade(ctx context.Context, _ types.GradeRequest) (types.GradeResponse, error) {
	if _, ok := ctx.Deadline(); ok {
		return types.GradeResponse{}, errors.New("grade bounded by request timeout")
	}
	return types.GradeResponse{Status: "completed", Answers: []types.AnswerResult{}}, nil
}

type slowPhotos struct{ delay time.Duration }

func (p slowPhotos) Process(ctx context.Context, name string, _ []byte) (types.ExamDraft, error) {
	select {
	case <-time.After(p.delay):
		return types.ExamDraft{Title: name}, nil
	case <-ctx.Done():
		return types.ExamDraft{}, ctx.Err()
	}
}

func TestGraderRoutes_OutliveRequestTimeout(t *testing.T) {
	SetRequestTimeoutSeconds(1)
	defer SetRequestTimeoutSeconds(0)
	h := NewMux(&mockService{}, GraderRoutes(deadlineGrader{}, slowPhotos{delay: 1500 * time.Millisecond}, mockChecker{}))

	if w := postJSON(h, "/grade", `{"questions":[],"answers":[]}`); w.Code != http.StatusOK {
		t.Fatalf("grade: status=%d body=%s", w.Code, w.Body.String())
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, multipartRequest(t, "/exams/process-photo", []byte("img"), nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "page.png") {
		t.Fatalf("photo: status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestServe_ClientGoneWritesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/x", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	serve(w, req, "x", http.StatusOK, func(context.Context) (any, error) { return nil, errors.New("canceled") })
	if w.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", w.Body.String())
	}
}
