// Package docs registers the OpenAPI document served at /swagger/doc.json
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/v1/quiz/content": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Generate the content summary for a quiz",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.ContentRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ContentResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/v1/quiz/outline": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Generate the quiz outline from a summary",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.OutlineRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.OutlineResponse"}}
                }
            }
        },
        "/v1/quiz/generateQuestion": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Generate the next question, adapted to the history",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.GenerateQuestionRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.QuizQuestion"}}
                }
            }
        },
        "/v1/quiz/validateAnswer": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Grade a free-text answer",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.ValidateAnswerRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.QuizAnswer"}}
                }
            }
        },
        "/v1/quiz/checkCompletion": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Decide whether the quiz is complete",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.CheckCompletionRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.CheckCompletionResponse"}}
                }
            }
        },
        "/v1/sessions": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Start a hosted quiz session",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.CreateSessionRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.CreateSessionResponse"}}
                }
            }
        },
        "/v1/sessions/{id}/answers": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Answer the current question",
                "parameters": [
                    {"type": "string", "in": "path", "name": "id", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.SubmitAnswerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Session"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/v1/sessions/{id}/result": {
            "get": {
                "produces": ["application/json"],
                "summary": "Archived result of a completed session",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.QuizResult"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "model.QuizInfo": {
            "type": "object",
            "required": ["topic", "subject", "level"],
            "properties": {
                "topic": {"type": "string"},
                "subject": {"type": "string"},
                "level": {"type": "string"},
                "length": {"type": "string"}
            }
        },
        "model.QuizQuestion": {
            "type": "object",
            "required": ["question"],
            "properties": {
                "question": {"type": "string"},
                "description": {"type": "string"},
                "difficulty": {"type": "string"}
            }
        },
        "model.QuizAnswer": {
            "type": "object",
            "properties": {
                "userAnswer": {"type": "string"},
                "correctAnswer": {"type": "string"},
                "isCorrect": {"type": "boolean"},
                "feedback": {"type": "string"}
            }
        },
        "model.QuizQuestionAnswer": {
            "type": "object",
            "required": ["id"],
            "properties": {
                "id": {"type": "string"},
                "question": {"$ref": "#/definitions/model.QuizQuestion"},
                "answer": {"$ref": "#/definitions/model.QuizAnswer"}
            }
        },
        "model.ContentRequest": {
            "type": "object",
            "properties": {"info": {"$ref": "#/definitions/model.QuizInfo"}}
        },
        "model.ContentResponse": {
            "type": "object",
            "properties": {"content": {"type": "string"}}
        },
        "model.OutlineRequest": {
            "type": "object",
            "required": ["summary"],
            "properties": {
                "info": {"$ref": "#/definitions/model.QuizInfo"},
                "summary": {"type": "string"}
            }
        },
        "model.OutlineResponse": {
            "type": "object",
            "properties": {"outline": {"type": "string"}}
        },
        "model.GenerateQuestionRequest": {
            "type": "object",
            "required": ["content", "outline"],
            "properties": {
                "info": {"$ref": "#/definitions/model.QuizInfo"},
                "content": {"type": "string"},
                "outline": {"type": "string"},
                "history": {"type": "array", "items": {"$ref": "#/definitions/model.QuizQuestionAnswer"}}
            }
        },
        "model.ValidateAnswerRequest": {
            "type": "object",
            "required": ["content", "answer"],
            "properties": {
                "info": {"$ref": "#/definitions/model.QuizInfo"},
                "content": {"type": "string"},
                "question": {"$ref": "#/definitions/model.QuizQuestion"},
                "answer": {"type": "string"}
            }
        },
        "model.CheckCompletionRequest": {
            "type": "object",
            "required": ["summary"],
            "properties": {
                "info": {"$ref": "#/definitions/model.QuizInfo"},
                "summary": {"type": "string"},
                "history": {"type": "array", "items": {"$ref": "#/definitions/model.QuizQuestionAnswer"}}
            }
        },
        "model.CheckCompletionResponse": {
            "type": "object",
            "properties": {"complete": {"type": "boolean"}}
        },
        "model.CreateSessionRequest": {
            "type": "object",
            "properties": {"info": {"$ref": "#/definitions/model.QuizInfo"}}
        },
        "model.CreateSessionResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "session": {"$ref": "#/definitions/model.Session"}
            }
        },
        "model.SubmitAnswerRequest": {
            "type": "object",
            "properties": {"answer": {"type": "string"}}
        },
        "model.StageError": {
            "type": "object",
            "properties": {
                "stage": {"type": "string"},
                "kind": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "model.Session": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "state": {"type": "string"},
                "info": {"$ref": "#/definitions/model.QuizInfo"},
                "summary": {"type": "string"},
                "outline": {"type": "string"},
                "history": {"type": "array", "items": {"$ref": "#/definitions/model.QuizQuestionAnswer"}},
                "score": {"type": "integer"},
                "completed": {"type": "boolean"},
                "pendingAnswer": {"type": "string"},
                "error": {"$ref": "#/definitions/model.StageError"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "model.QuizResult": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "sessionId": {"type": "string"},
                "info": {"$ref": "#/definitions/model.QuizInfo"},
                "score": {"type": "integer"},
                "answered": {"type": "integer"},
                "completedAt": {"type": "string"}
            }
        },
        "model.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "kind": {"type": "string"},
                "transportKind": {"type": "string"},
                "stage": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Adaptive Quiz API",
	Description:      "LLM-backed adaptive quiz procedures and hosted quiz sessions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
