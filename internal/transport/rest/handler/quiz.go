package handler

import (
	"adaptivequiz/internal/model"
	"adaptivequiz/internal/service"
	"net/http"
)

// QuizHandler exposes the five stateless quiz procedures
type QuizHandler struct {
	quizSvc *service.QuizService
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(quizSvc *service.QuizService) *QuizHandler {
	return &QuizHandler{quizSvc: quizSvc}
}

// Content handles POST /v1/quiz/content
// @Summary Generate the content summary for a quiz
// @Accept json
// @Produce json
// @Param body body model.ContentRequest true "Quiz info"
// @Success 200 {object} model.ContentResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 502 {object} model.ErrorResponse
// @Router /v1/quiz/content [post]
func (h *QuizHandler) Content(w http.ResponseWriter, r *http.Request) {
	var req model.ContentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	content, err := h.quizSvc.Content(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &model.ContentResponse{Content: content})
}

// Outline handles POST /v1/quiz/outline
// @Summary Generate the quiz outline from a summary
// @Param body body model.OutlineRequest true "Quiz info and summary"
// @Success 200 {object} model.OutlineResponse
// @Router /v1/quiz/outline [post]
func (h *QuizHandler) Outline(w http.ResponseWriter, r *http.Request) {
	var req model.OutlineRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	outline, err := h.quizSvc.Outline(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &model.OutlineResponse{Outline: outline})
}

// GenerateQuestion handles POST /v1/quiz/generateQuestion
// @Summary Generate the next question, adapted to the history
// @Param body body model.GenerateQuestionRequest true "Quiz state"
// @Success 200 {object} model.QuizQuestion
// @Router /v1/quiz/generateQuestion [post]
func (h *QuizHandler) GenerateQuestion(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateQuestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	question, err := h.quizSvc.GenerateQuestion(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, question)
}

// ValidateAnswer handles POST /v1/quiz/validateAnswer
// @Summary Grade a free-text answer
// @Param body body model.ValidateAnswerRequest true "Question and answer"
// @Success 200 {object} model.QuizAnswer
// @Router /v1/quiz/validateAnswer [post]
func (h *QuizHandler) ValidateAnswer(w http.ResponseWriter, r *http.Request) {
	var req model.ValidateAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	answer, err := h.quizSvc.ValidateAnswer(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

// CheckCompletion handles POST /v1/quiz/checkCompletion
// @Summary Decide whether the quiz is complete
// @Param body body model.CheckCompletionRequest true "Quiz history"
// @Success 200 {object} model.CheckCompletionResponse
// @Router /v1/quiz/checkCompletion [post]
func (h *QuizHandler) CheckCompletion(w http.ResponseWriter, r *http.Request) {
	var req model.CheckCompletionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	complete, err := h.quizSvc.CheckCompletion(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &model.CheckCompletionResponse{Complete: complete})
}
