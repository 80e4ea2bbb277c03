package model

// ContentRequest is the input of the content procedure
type ContentRequest struct {
	Info QuizInfo `json:"info"`
}

// ContentResponse is the output of the content procedure
type ContentResponse struct {
	Content string `json:"content"`
}

// OutlineRequest is the input of the outline procedure
type OutlineRequest struct {
	Info    QuizInfo `json:"info"`
	Summary string   `json:"summary" validate:"required"`
}

// OutlineResponse is the output of the outline procedure
type OutlineResponse struct {
	Outline string `json:"outline"`
}

// GenerateQuestionRequest is the input of the generateQuestion procedure
type GenerateQuestionRequest struct {
	Info    QuizInfo             `json:"info"`
	Content string               `json:"content" validate:"required"`
	Outline string               `json:"outline" validate:"required"`
	History []QuizQuestionAnswer `json:"history" validate:"dive"`
}

// ValidateAnswerRequest is the input of the validateAnswer procedure
type ValidateAnswerRequest struct {
	Info     QuizInfo     `json:"info"`
	Content  string       `json:"content" validate:"required"`
	Question QuizQuestion `json:"question"`
	Answer   string       `json:"answer" validate:"required"`
}

// CheckCompletionRequest is the input of the checkCompletion procedure
type CheckCompletionRequest struct {
	Info    QuizInfo             `json:"info"`
	Summary string               `json:"summary" validate:"required"`
	History []QuizQuestionAnswer `json:"history" validate:"dive"`
}

// CheckCompletionResponse wraps the completion decision on the wire
type CheckCompletionResponse struct {
	Complete bool `json:"complete"`
}
