// Package docs holds the OpenAPI document served under /swagger/ when built with -tags=swagger.
// Regenerate with `swag init -g cmd/gradeassist/docs.go -o docs`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "gradeassist maintainers"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.HealthResponse"}}
                }
            }
        },
        "/predict": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bert"],
                "summary": "Classify text as AI generated or human written",
                "parameters": [
                    {"description": "Text", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.TextRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Prediction"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/detect": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["detect"],
                "summary": "Detect machine-generated text",
                "parameters": [
                    {"description": "Text", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.TextRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.DetectionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/compare-answers": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["similarity"],
                "summary": "Compare a student answer with the instructor and RAG answers",
                "parameters": [
                    {"description": "Answers", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.ComparisonRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ComparisonResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/grade": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["grader"],
                "summary": "Grade a student's submission",
                "parameters": [
                    {"description": "Questions and answers", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.GradeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.GradeResponse"}}
                }
            }
        },
        "/teacher/process-exam/": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["vlm"],
                "summary": "Extract an exam from a photo of the paper",
                "parameters": [
                    {"type": "file", "description": "Exam image", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Exam"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.TextRequest": {
            "type": "object",
            "properties": {"text": {"type": "string", "example": "The mitochondria is the powerhouse of the cell."}}
        },
        "types.Prediction": {
            "type": "object",
            "properties": {
                "class": {"type": "string", "example": "Human Written"},
                "human_probability": {"type": "number", "example": 0.93},
                "ai_probability": {"type": "number", "example": 0.07},
                "text": {"type": "string"},
                "confidence": {"type": "number", "example": 0.93}
            }
        },
        "types.DetectionResponse": {
            "type": "object",
            "properties": {
                "classification": {"type": "string", "example": "Human-Written"},
                "confidence": {"type": "string", "example": "High"},
                "confidence_score": {"type": "number", "example": 80},
                "human_probability": {"type": "number", "example": 90},
                "ai_probability": {"type": "number"},
                "machine_probability": {"type": "number", "example": 10}
            }
        },
        "types.ComparisonRequest": {
            "type": "object",
            "properties": {
                "question": {"type": "string"},
                "doctor_answer": {"type": "string"},
                "student_answer": {"type": "string"}
            }
        },
        "types.SimilarityScores": {
            "type": "object",
            "properties": {
                "student_doctor": {"type": "number"},
                "student_rag": {"type": "number"},
                "average": {"type": "number"}
            }
        },
        "types.ComparisonResponse": {
            "type": "object",
            "properties": {
                "rag_answer": {"type": "string"},
                "similarity_scores": {"$ref": "#/definitions/types.SimilarityScores"}
            }
        },
        "types.GradeRequest": {
            "type": "object",
            "properties": {
                "questions": {"type": "array", "items": {"type": "object"}},
                "answers": {"type": "array", "items": {"type": "object"}}
            }
        },
        "types.GradeResponse": {
            "type": "object",
            "properties": {
                "answers": {"type": "array", "items": {"type": "object"}},
                "total_score": {"type": "integer"},
                "total_possible": {"type": "integer"},
                "percentage": {"type": "integer"},
                "ai_detected": {"type": "integer"},
                "status": {"type": "string", "example": "completed"}
            }
        },
        "types.Exam": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "subject": {"type": "string"},
                "year": {"type": "string"},
                "courseCode": {"type": "string"},
                "instructions": {"type": "string"},
                "duration": {"type": "integer"},
                "questions": {"type": "array", "items": {"type": "object"}}
            }
        },
        "types.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "healthy"},
                "model": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid JSON body"},
                "code": {"type": "integer", "example": 400}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "gradeassist API",
	Description:      "Model-serving and grading services for the exam grading assistant.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
