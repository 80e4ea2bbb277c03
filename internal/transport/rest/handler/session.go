package handler

import (
	"adaptivequiz/internal/model"
	"adaptivequiz/internal/service"
	"adaptivequiz/internal/transport/rest/middleware"
	"net/http"
	"strconv"
)

const (
	defaultResultsLimit = 20
	maxResultsLimit     = 100
)

// SessionHandler handles hosted session endpoints
type SessionHandler struct {
	sessionSvc *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// Create handles POST /v1/sessions
// @Summary Start a hosted quiz session
// @Param body body model.CreateSessionRequest true "Quiz info"
// @Success 201 {object} model.CreateSessionResponse
// @Router /v1/sessions [post]
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.sessionSvc.Create(r.Context(), req.Info)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Get handles GET /v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetSessionID(r.Context())

	sess, err := h.sessionSvc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sess)
}

// SubmitAnswer handles POST /v1/sessions/{id}/answers
// @Summary Answer the current question
// @Param body body model.SubmitAnswerRequest true "Answer"
// @Success 200 {object} model.Session
// @Failure 409 {object} model.ErrorResponse
// @Router /v1/sessions/{id}/answers [post]
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetSessionID(r.Context())

	var req model.SubmitAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, err := h.sessionSvc.SubmitAnswer(r.Context(), id, req.Answer)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sess)
}

// Retry handles POST /v1/sessions/{id}/retry
func (h *SessionHandler) Retry(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetSessionID(r.Context())

	sess, err := h.sessionSvc.Retry(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sess)
}

// Delete handles DELETE /v1/sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetSessionID(r.Context())

	if err := h.sessionSvc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Result handles GET /v1/sessions/{id}/result
// @Summary Archived result of a completed session
// @Success 200 {object} model.QuizResult
// @Failure 404 {object} model.ErrorResponse
// @Router /v1/sessions/{id}/result [get]
func (h *SessionHandler) Result(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetSessionID(r.Context())

	result, err := h.sessionSvc.Result(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Results handles GET /v1/results?limit=n
func (h *SessionHandler) Results(w http.ResponseWriter, r *http.Request) {
	limit := defaultResultsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, model.KindValidation, "limit must be a positive integer")
			return
		}
		limit = min(n, maxResultsLimit)
	}

	results, err := h.sessionSvc.Results(r.Context(), int64(limit))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}
