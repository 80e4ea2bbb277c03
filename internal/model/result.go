package model

import "time"

// QuizResult is the archived summary of a completed session
type QuizResult struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	SessionID   string    `json:"sessionId" bson:"sessionId"`
	Info        QuizInfo  `json:"info" bson:"info"`
	Score       int       `json:"score" bson:"score"`
	Answered    int       `json:"answered" bson:"answered"`
	CompletedAt time.Time `json:"completedAt" bson:"completedAt"`
}

// ResultFromSession builds the archive record for a completed session
func ResultFromSession(s *Session) *QuizResult {
	r := &QuizResult{
		ID:          s.ID,
		SessionID:   s.ID,
		Score:       s.Score,
		Answered:    s.AnsweredCount(),
		CompletedAt: s.UpdatedAt,
	}
	if s.Info != nil {
		r.Info = *s.Info
	}
	return r
}
