package handler

import (
	"adaptivequiz/internal/cache"
	"adaptivequiz/internal/llm"
	"adaptivequiz/internal/model"
	"adaptivequiz/internal/service"
	"adaptivequiz/internal/session"
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, &model.ErrorResponse{Error: message, Kind: kind})
}

// writeServiceError maps a service, session or model error to its HTTP status and kind
func writeServiceError(w http.ResponseWriter, err error) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[http] %d %s: %v", status, body.Kind, err)
	}
	writeJSON(w, status, body)
}

func errorResponse(err error) (int, *model.ErrorResponse) {
	body := &model.ErrorResponse{Error: err.Error(), Kind: session.Kind(err)}

	var stageErr *session.StageFailedError
	if errors.As(err, &stageErr) {
		body.Stage = stageErr.Stage
	}

	var transportErr *llm.ModelTransportError
	switch {
	case errors.As(err, &transportErr):
		body.TransportKind = string(transportErr.Kind)
		switch transportErr.Kind {
		case llm.KindRateLimit:
			return http.StatusTooManyRequests, body
		case llm.KindTimeout:
			return http.StatusGatewayTimeout, body
		}
		return http.StatusBadGateway, body
	case errors.Is(err, cache.ErrSessionNotFound), errors.Is(err, service.ErrResultNotFound):
		body.Kind = model.KindNotFound
		return http.StatusNotFound, body
	case errors.Is(err, service.ErrInvalidToken):
		body.Kind = model.KindUnauthorized
		return http.StatusUnauthorized, body
	case errors.Is(err, service.ErrResultsDisabled):
		return http.StatusServiceUnavailable, body
	}

	switch body.Kind {
	case model.KindValidation:
		return http.StatusBadRequest, body
	case model.KindSchemaValidation:
		return http.StatusBadGateway, body
	case model.KindConflict:
		return http.StatusConflict, body
	}
	return http.StatusInternalServerError, body
}

// decodeJSON reads the request body into v, writing a validation error on failure
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, model.KindValidation, "invalid request body")
		return false
	}
	return true
}
