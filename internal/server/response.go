package server

import (
	"encoding/json"
	"net/http"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/script-analytics/internal/analyzer"
	"github.com/sells-group/script-analytics/internal/model"
	"github.com/sells-group/script-analytics/internal/service"
	"github.com/sells-group/script-analytics/internal/store"
)

type apiError struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, map[string]any{
		"status": "success",
		"data":   data,
	})
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, apiError{
		Status:  "error",
		Code:    code,
		Message: message,
	})
}

// writeMappedError translates service and store sentinels into HTTP errors.
func writeMappedError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status, code, msg := mapError(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("operation", operation),
			zap.String("request_id", requestID(r)),
			zap.Error(err),
		)
	}
	writeError(w, status, code, msg)
}

func mapError(err error) (int, string, string) {
	switch {
	case eris.Is(err, model.ErrInvalidScript), eris.Is(err, analyzer.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_SCRIPT", "script is missing or invalid"
	case eris.Is(err, service.ErrMissingUser):
		return http.StatusBadRequest, "MISSING_USER", "X-User-ID header is required"
	case eris.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "script not found"
	case eris.Is(err, service.ErrDuplicateScript):
		return http.StatusConflict, "DUPLICATE_SCRIPT", "a script of this type already exists for the idea"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
}
