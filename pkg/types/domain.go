package types

// Model describes the pretrained model a service wraps and where its runtime lives.
type Model struct {
	// Stable identifier for the model.
	// example: OU-Advacheck/deberta-v3-base-daigenc-mgt1a
	ID string `json:"id" example:"OU-Advacheck/deberta-v3-base-daigenc-mgt1a"`
	// Human-friendly name.
	// example: DeBERTa-v3 AI content detector
	Name string `json:"name" example:"DeBERTa-v3 AI content detector"`
	// Runtime kind serving the model (tei, openai, gemini, llama).
	// example: tei
	Backend string `json:"backend" example:"tei"`
	// Task the model performs (classification, embedding, vision, generation).
	// example: classification
	Task string `json:"task" example:"classification"`
	// Base URL of the runtime, empty for SDK-backed models.
	// example: http://localhost:8081
	URL string `json:"url,omitempty" example:"http://localhost:8081"`
}

// Exam is the structure extracted from a teacher's exam paper.
type Exam struct {
	Title        string     `json:"title" example:"Untitled Exam"`
	Subject      string     `json:"subject,omitempty" example:"none"`
	Year         string     `json:"year,omitempty" example:"none"`
	CourseCode   string     `json:"courseCode" example:"NONE"`
	Instructions string     `json:"instructions"`
	Duration     int        `json:"duration" example:"60"`
	Questions    []Question `json:"questions"`
}

// Question is one exam question.
type Question struct {
	Text        string   `json:"text"`
	Type        string   `json:"type" example:"MCQ"`
	Points      int      `json:"points" example:"1"`
	ModelAnswer string   `json:"modelAnswer"`
	Options     []Option `json:"options"`
}

// Option is one multiple-choice option.
type Option struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// StudentAnswer is one extracted answer; "na" marks an unanswered question.
type StudentAnswer struct {
	Answer string `json:"answer" example:"b"`
}

// StudentAnswers is the result of processing a student's answer sheet.
type StudentAnswers struct {
	Answers []StudentAnswer `json:"answers"`
}

// ExamDraft is an exam structure ready to be created by the grading gateway.
type ExamDraft struct {
	Title        string          `json:"title" example:"Exam from Photos"`
	CourseCode   string          `json:"courseCode" example:"EXAM-123456"`
	Description  string          `json:"description"`
	Duration     int             `json:"duration" example:"60"`
	PassingScore int             `json:"passingScore" example:"70"`
	Instructions string          `json:"instructions"`
	Questions    []DraftQuestion `json:"questions"`
}

// DraftQuestion is a question of an ExamDraft. Type is multiple_choice or essay.
type DraftQuestion struct {
	Text        string   `json:"text"`
	Type        string   `json:"type" example:"essay"`
	Points      int      `json:"points" example:"10"`
	ModelAnswer string   `json:"modelAnswer"`
	Options     []Option `json:"options"`
}
