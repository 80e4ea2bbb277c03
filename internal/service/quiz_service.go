package service

import (
	"adaptivequiz/internal/config"
	"adaptivequiz/internal/llm"
	"adaptivequiz/internal/model"
	"adaptivequiz/internal/prompt"
	"context"
	"log"
	"strings"
)

// Procedure names, also used as RPC route names
const (
	OpContent          = "content"
	OpOutline          = "outline"
	OpGenerateQuestion = "generateQuestion"
	OpValidateAnswer   = "validateAnswer"
	OpCheckCompletion  = "checkCompletion"
)

var quizQuestionSchema = &llm.Schema{
	Name:        "submit_quiz_question",
	Description: "Submit the next quiz question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question":    map[string]any{"type": "string", "minLength": 1},
			"description": map[string]any{"type": "string", "minLength": 1},
			"difficulty":  map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{"question", "description", "difficulty"},
	},
}

var quizAnswerSchema = &llm.Schema{
	Name:        "submit_answer_validation",
	Description: "Submit the validation of the user's answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"userAnswer":    map[string]any{"type": "string", "minLength": 1},
			"correctAnswer": map[string]any{"type": "string", "minLength": 1},
			"isCorrect":     map[string]any{"type": "boolean"},
			"feedback":      map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{"userAnswer", "correctAnswer", "isCorrect", "feedback"},
	},
}

var completionSchema = &llm.Schema{
	Name:        "submit_completion",
	Description: "Report whether the quiz is complete",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"complete": map[string]any{"type": "boolean"},
		},
		"required": []string{"complete"},
	},
}

// QuizService implements the five quiz procedures.
// It holds no per-quiz state and is safe for concurrent use.
type QuizService struct {
	llm    llm.Client
	config *config.AIConfig
}

// NewQuizService creates a new quiz service
func NewQuizService(client llm.Client, cfg *config.AIConfig) *QuizService {
	return &QuizService{llm: client, config: cfg}
}

// Content generates the topic summary for a quiz
func (s *QuizService) Content(ctx context.Context, req *model.ContentRequest) (string, error) {
	if err := validateInput(OpContent, req); err != nil {
		return "", err
	}

	p := prompt.ContentSummary(req.Info)
	return s.llm.GenerateText(ctx, s.request(OpContent, s.config.Models.Summary, p))
}

// Outline generates the quiz outline from a summary
func (s *QuizService) Outline(ctx context.Context, req *model.OutlineRequest) (string, error) {
	if err := validateInput(OpOutline, req); err != nil {
		return "", err
	}

	p := prompt.Outline(req.Info, req.Summary)
	return s.llm.GenerateText(ctx, s.request(OpOutline, s.config.Models.Outline, p))
}

// GenerateQuestion produces the next question, adapted to the history
func (s *QuizService) GenerateQuestion(ctx context.Context, req *model.GenerateQuestionRequest) (*model.QuizQuestion, error) {
	if err := validateInput(OpGenerateQuestion, req); err != nil {
		return nil, err
	}

	p := prompt.NextQuestion(req.Info, req.Content, req.Outline, req.History)
	var q model.QuizQuestion
	if err := s.llm.GenerateObject(ctx, s.request(OpGenerateQuestion, s.config.Models.Question, p), quizQuestionSchema, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// ValidateAnswer grades a free-text answer
func (s *QuizService) ValidateAnswer(ctx context.Context, req *model.ValidateAnswerRequest) (*model.QuizAnswer, error) {
	if err := validateInput(OpValidateAnswer, req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Answer) == "" {
		return nil, &ValidationError{Op: OpValidateAnswer, Reason: "answer must not be blank"}
	}

	p := prompt.ValidateAnswer(req.Info, req.Content, req.Question, req.Answer)
	var a model.QuizAnswer
	if err := s.llm.GenerateObject(ctx, s.request(OpValidateAnswer, s.config.Models.Validation, p), quizAnswerSchema, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// CheckCompletion decides whether the quiz is over. Below
// model.MinAnsweredForCompletion history entries it returns false without
// consulting the model.
func (s *QuizService) CheckCompletion(ctx context.Context, req *model.CheckCompletionRequest) (bool, error) {
	if err := validateInput(OpCheckCompletion, req); err != nil {
		return false, err
	}
	if len(req.History) < model.MinAnsweredForCompletion {
		log.Printf("[quiz] %s: %d entries, below floor of %d", OpCheckCompletion, len(req.History), model.MinAnsweredForCompletion)
		return false, nil
	}

	p := prompt.CheckCompletion(req.Info, req.Summary, req.History)
	var out struct {
		Complete bool `json:"complete"`
	}
	if err := s.llm.GenerateObject(ctx, s.request(OpCheckCompletion, s.config.Models.Completion, p), completionSchema, &out); err != nil {
		return false, err
	}
	return out.Complete, nil
}

func (s *QuizService) request(op, modelName string, p prompt.Prompt) llm.Request {
	return llm.Request{
		Op:          op,
		Model:       modelName,
		Temperature: s.config.Temperature,
		System:      p.System,
		Prompt:      p.User,
	}
}
