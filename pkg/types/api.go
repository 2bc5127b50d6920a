package types

// TextRequest is the payload of the detection endpoints.
type TextRequest struct {
	// Text to classify.
	// example: The mitochondria is the powerhouse of the cell.
	Text string `json:"text" example:"The mitochondria is the powerhouse of the cell."`
}

// BatchTextRequest is the payload of POST /predict/batch.
type BatchTextRequest struct {
	Texts []string `json:"texts"`
}

// Prediction is returned by the BERT detector.
type Prediction struct {
	// AI Generated or Human Written.
	// example: Human Written
	Class string `json:"class" example:"Human Written"`
	// example: 0.93
	HumanProbability float64 `json:"human_probability" example:"0.93"`
	// example: 0.07
	AIProbability float64 `json:"ai_probability" example:"0.07"`
	// Input echo, truncated to 100 characters.
	Text string `json:"text,omitempty"`
	// Larger of the two probabilities.
	// example: 0.93
	Confidence float64 `json:"confidence" example:"0.93"`
}

// BatchPredictionResponse wraps the results of POST /predict/batch.
type BatchPredictionResponse struct {
	Results []Prediction `json:"results"`
}

// DetectionResponse is returned by the DeBERTa, MGT and fallback detectors.
// Exactly one of AIProbability and MachineProbability is set.
type DetectionResponse struct {
	// example: Human-Written
	Classification string `json:"classification" example:"Human-Written"`
	// Low, Medium, High (or Very Low under the margin policy).
	// example: High
	Confidence string `json:"confidence" example:"High"`
	// example: 80
	ConfidenceScore float64 `json:"confidence_score" example:"80"`
	// Percentages in [0,100].
	// example: 90
	HumanProbability float64 `json:"human_probability" example:"90"`
	AIProbability    *float64 `json:"ai_probability,omitempty"`
	// example: 10
	MachineProbability *float64 `json:"machine_probability,omitempty" example:"10"`
}

// ComparisonRequest is the payload of POST /compare-answers.
type ComparisonRequest struct {
	Question      string `json:"question" example:"What is osmosis?"`
	DoctorAnswer  string `json:"doctor_answer"`
	StudentAnswer string `json:"student_answer"`
}

// SimilarityScores are cosine similarities between the student's answer and the references.
type SimilarityScores struct {
	StudentDoctor float64 `json:"student_doctor" example:"0.82"`
	StudentRAG    float64 `json:"student_rag" example:"0.74"`
	Average       float64 `json:"average" example:"0.88"`
}

// ComparisonResponse is returned by POST /compare-answers.
type ComparisonResponse struct {
	RAGAnswer        string           `json:"rag_answer"`
	SimilarityScores SimilarityScores `json:"similarity_scores"`
}

// Document is a reference text to index for retrieval.
type Document struct {
	Source string `json:"source" example:"biology-ch3.pdf"`
	Text   string `json:"text"`
}

// DocumentsRequest is the payload of POST /documents.
type DocumentsRequest struct {
	Documents []Document `json:"documents"`
}

// DocumentsResponse reports how many chunks were stored.
type DocumentsResponse struct {
	Stored int `json:"stored" example:"12"`
}

// ExamCreated is returned by POST /exams.
type ExamCreated struct {
	ID int64 `json:"id" example:"1"`
}

// RawResponse is returned by POST /debug/raw-response.
type RawResponse struct {
	Text string `json:"text"`
}

// GradeQuestion is a question known to the grading gateway.
type GradeQuestion struct {
	ID          int64  `json:"id" example:"1"`
	Text        string `json:"text"`
	Type        string `json:"type" example:"essay"`
	Points      int    `json:"points" example:"10"`
	ModelAnswer string `json:"model_answer"`
}

// GradeAnswer is a student's answer to one question.
type GradeAnswer struct {
	QuestionID int64  `json:"question_id" example:"1"`
	Answer     string `json:"answer"`
}

// GradeRequest is the payload of POST /grade.
type GradeRequest struct {
	Questions []GradeQuestion `json:"questions"`
	Answers   []GradeAnswer   `json:"answers"`
}

// AnswerResult is the outcome for a single answer.
type AnswerResult struct {
	QuestionID       int64             `json:"question_id"`
	Points           int               `json:"points"`
	IsCorrect        bool              `json:"is_correct"`
	AIDetected       bool              `json:"ai_detected"`
	HumanProbability float64           `json:"human_probability,omitempty"`
	Similarity       *SimilarityScores `json:"similarity,omitempty"`
}

// GradeResponse is returned by POST /grade.
type GradeResponse struct {
	Answers       []AnswerResult `json:"answers"`
	TotalScore    int            `json:"total_score" example:"42"`
	TotalPossible int            `json:"total_possible" example:"50"`
	Percentage    int            `json:"percentage" example:"84"`
	AIDetected    int            `json:"ai_detected" example:"0"`
	Status        string         `json:"status" example:"completed"`
}

// SystemStatus is returned by GET /system/status on the grading gateway.
type SystemStatus struct {
	// healthy or degraded.
	Status     string          `json:"status" example:"healthy"`
	Components map[string]bool `json:"components"`
	Timestamp  string          `json:"timestamp"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	// example: healthy
	Status string `json:"status" example:"healthy"`
	// example: loaded
	Model   string `json:"model,omitempty" example:"loaded"`
	Message string `json:"message,omitempty"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// Models wrapped by this service.
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Service name.
	// example: deberta
	Service string `json:"service" example:"deberta"`
	// Overall state (loading, ready, error).
	// example: ready
	State string `json:"state" example:"ready"`
	// Models wrapped by this service.
	Models []Model `json:"models"`
	// Last error observed while probing backends.
	LastError string `json:"last_error,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
