package commons

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	apperrors "samplehub/internal/errors"
)

type ErrorResponse struct {
	TraceID   string                       `json:"traceId"`
	Status    int                          `json:"status"`
	Code      string                       `json:"code"`
	Message   string                       `json:"message"`
	Details   []apperrors.ValidationDetail `json:"details,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}

// HTTPStatus maps an error kind to its response status.
func HTTPStatus(err error) int {
	switch apperrors.Kind(err) {
	case apperrors.CodeValidation, apperrors.CodeInvalidFormat:
		return http.StatusBadRequest
	case apperrors.CodeMissingRequiredField:
		return http.StatusUnprocessableEntity
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeInvalidTransition, apperrors.CodeInvalidState,
		apperrors.CodeAlreadyPromoted, apperrors.CodeAssignment:
		return http.StatusConflict
	case apperrors.CodePaymentGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func WriteJSON(w http.ResponseWriter, status int, data any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// WriteError renders err with its taxonomy code. Internal errors are logged
// and their message is not exposed.
func WriteError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	status := HTTPStatus(err)
	resp := ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      apperrors.Kind(err),
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
	}

	if ve, ok := apperrors.IsValidationError(err); ok {
		resp.Details = ve.Details
	}

	if status == http.StatusInternalServerError {
		logger.Error("unexpected error", zap.String("traceId", traceID), zap.Error(err))
		resp.Message = "an unexpected error occurred"
	}

	WriteJSON(w, status, resp, logger)
}

func WriteValidationError(w http.ResponseWriter, traceID, message string, logger *zap.Logger, details ...apperrors.ValidationDetail) {
	WriteError(w, traceID, apperrors.NewValidationError(message, details...), logger)
}

// DecodeJSON decodes the request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
