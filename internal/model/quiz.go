package model

import "errors"

// ErrAnswerAlreadySet is returned when an answer is attached to a history entry twice
var ErrAnswerAlreadySet = errors.New("answer already attached to question")

// QuizInfo is the user-supplied description of the quiz
type QuizInfo struct {
	Topic   string `json:"topic" bson:"topic" validate:"required"`
	Subject string `json:"subject" bson:"subject" validate:"required"`
	Level   string `json:"level" bson:"level" validate:"required"`
	Length  string `json:"length,omitempty" bson:"length,omitempty"` // Short, Medium, Long
}

// QuizQuestion is a single model-generated question
type QuizQuestion struct {
	Question    string `json:"question" validate:"required"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"` // opaque, decided by the model
}

// QuizAnswer is the validation outcome for a submitted answer
type QuizAnswer struct {
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
	Feedback      string `json:"feedback"`
}

// QuizQuestionAnswer is one entry of the quiz history
type QuizQuestionAnswer struct {
	ID       string       `json:"id" validate:"required"`
	Question QuizQuestion `json:"question"`
	Answer   *QuizAnswer  `json:"answer,omitempty"`
}

// Answered reports whether validation has completed for this entry
func (qa *QuizQuestionAnswer) Answered() bool {
	return qa.Answer != nil
}

// AttachAnswer sets the answer exactly once
func (qa *QuizQuestionAnswer) AttachAnswer(answer QuizAnswer) error {
	if qa.Answer != nil {
		return ErrAnswerAlreadySet
	}
	a := answer
	qa.Answer = &a
	return nil
}
