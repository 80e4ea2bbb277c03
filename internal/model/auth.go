package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are JWT claims scoping a token to one hosted quiz session
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// CreateSessionRequest is the request body for starting a hosted session
type CreateSessionRequest struct {
	Info QuizInfo `json:"info"`
}

// CreateSessionResponse is returned after a hosted session is created
type CreateSessionResponse struct {
	Token   string   `json:"token"`
	Session *Session `json:"session"`
}

// SubmitAnswerRequest is the request body for answering the current question
type SubmitAnswerRequest struct {
	Answer string `json:"answer"`
}
