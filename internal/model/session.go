package model

import (
	"time"

	"github.com/samber/lo"
)

// SessionState is a state of the quiz session state machine
type SessionState string

const (
	StateCollectingInfo     SessionState = "collecting_info"
	StateSummarizingContent SessionState = "summarizing_content"
	StateGeneratingOutline  SessionState = "generating_outline"
	StateAwaitingQuestion   SessionState = "awaiting_question"
	StateAwaitingAnswer     SessionState = "awaiting_answer"
	StateValidating         SessionState = "validating"
	StateCheckingCompletion SessionState = "checking_completion"
	StateCompleted          SessionState = "completed"
)

// MinAnsweredForCompletion is the floor below which the completion check is never consulted
const MinAnsweredForCompletion = 3

// StageError is the visible error state of the stage that failed
type StageError struct {
	Stage   SessionState `json:"stage"`
	Kind    string       `json:"kind"`
	Message string       `json:"message"`
}

// Session aggregates everything produced during one quiz run
type Session struct {
	ID            string               `json:"id"`
	State         SessionState         `json:"state"`
	Info          *QuizInfo            `json:"info,omitempty"`
	Summary       string               `json:"summary,omitempty"`
	Outline       string               `json:"outline,omitempty"`
	History       []QuizQuestionAnswer `json:"history"`
	Score         int                  `json:"score"`
	Completed     bool                 `json:"completed"`
	PendingAnswer string               `json:"pendingAnswer,omitempty"`
	Error         *StageError          `json:"error,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// NewSession creates an empty session waiting for quiz info
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		State:     StateCollectingInfo,
		History:   []QuizQuestionAnswer{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Current returns the latest history entry, or nil when there is none
func (s *Session) Current() *QuizQuestionAnswer {
	if len(s.History) == 0 {
		return nil
	}
	return &s.History[len(s.History)-1]
}

// AnsweredCount returns the number of history entries with an attached answer
func (s *Session) AnsweredCount() int {
	return lo.CountBy(s.History, func(qa QuizQuestionAnswer) bool {
		return qa.Answered()
	})
}

// CorrectCount returns the number of correctly answered entries
func (s *Session) CorrectCount() int {
	return lo.CountBy(s.History, func(qa QuizQuestionAnswer) bool {
		return qa.Answer != nil && qa.Answer.IsCorrect
	})
}

// Snapshot returns a deep copy safe to hand to observers
func (s *Session) Snapshot() *Session {
	cp := *s
	if s.Info != nil {
		info := *s.Info
		cp.Info = &info
	}
	if s.Error != nil {
		e := *s.Error
		cp.Error = &e
	}
	cp.History = lo.Map(s.History, func(qa QuizQuestionAnswer, _ int) QuizQuestionAnswer {
		if qa.Answer != nil {
			a := *qa.Answer
			qa.Answer = &a
		}
		return qa
	})
	return &cp
}
